// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rateline/internal/http/handlers"
	"rateline/internal/http/middleware"
)

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(s.log), middleware.Logging(s.log))

	quotes := handlers.NewQuoteHandler(s.rating, s.events, s.log)
	api := r.Group("/api/quotes")
	api.POST("/intracity", quotes.Intracity)
	api.POST("/intercounty", quotes.InterCounty)
	api.POST("/fullload", quotes.FullLoad)
	api.POST("/international", quotes.International)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
