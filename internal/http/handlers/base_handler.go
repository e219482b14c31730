// README: Base handler utilities (JSON helpers, rating error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rateline/internal/modules/rating"
)

type errorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Stage  string `json:"stage,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeRatingError maps the rating taxonomy onto status codes. Lookup misses
// are 422: the request was well formed but no rule prices it.
func writeRatingError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, rating.ErrInputInvalid):
		status = http.StatusBadRequest
	case rating.IsBusinessMiss(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, rating.ErrDistanceUnavailable):
		status = http.StatusBadGateway
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}

	resp := errorResponse{Error: err.Error(), Code: rating.Outcome(err)}
	var re *rating.Error
	if errors.As(err, &re) {
		resp.Error = re.Kind.Error()
		resp.Stage = re.Stage
		resp.Detail = re.Detail
	}
	writeJSON(c, status, resp)
}
