// README: Quote handlers, one endpoint per product.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"rateline/internal/events"
	"rateline/internal/logging"
	"rateline/internal/modules/rating"
)

type QuoteService interface {
	QuoteIntracity(ctx context.Context, req rating.IntracityRequest) (rating.Quote, error)
	QuoteInterCounty(ctx context.Context, req rating.InterCountyRequest) (rating.Quote, error)
	QuoteFullLoad(ctx context.Context, req rating.FullLoadRequest) (rating.Quote, error)
	QuoteInternational(ctx context.Context, req rating.InternationalRequest) (rating.Quote, error)
}

type QuoteHandler struct {
	svc    QuoteService
	events events.Publisher
	log    *slog.Logger
}

func NewQuoteHandler(svc QuoteService, pub events.Publisher, log *slog.Logger) *QuoteHandler {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &QuoteHandler{svc: svc, events: pub, log: log}
}

func (h *QuoteHandler) Intracity(c *gin.Context) {
	handleQuote(h, c, h.svc.QuoteIntracity)
}

func (h *QuoteHandler) InterCounty(c *gin.Context) {
	handleQuote(h, c, h.svc.QuoteInterCounty)
}

func (h *QuoteHandler) FullLoad(c *gin.Context) {
	handleQuote(h, c, h.svc.QuoteFullLoad)
}

func (h *QuoteHandler) International(c *gin.Context) {
	handleQuote(h, c, h.svc.QuoteInternational)
}

func handleQuote[R any](h *QuoteHandler, c *gin.Context, rate func(context.Context, R) (rating.Quote, error)) {
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		writeJSON(c, http.StatusBadRequest, errorResponse{
			Error:  rating.ErrInputInvalid.Error(),
			Code:   rating.Outcome(rating.ErrInputInvalid),
			Stage:  "request",
			Detail: err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	q, err := rate(ctx, req)
	if err != nil {
		writeRatingError(c, err)
		return
	}

	// the quote stands even if the event is lost
	if err := h.events.QuoteIssued(ctx, q); err != nil {
		h.log.WarnContext(ctx, "publish quote event failed",
			slog.String("quote_id", q.ID), logging.Err(err), logging.Traced(ctx))
	}
	writeJSON(c, http.StatusOK, q)
}
