// README: API gateway; registers HTTP routes and delegates to the rating service.
package http

import (
	"log/slog"

	"rateline/internal/events"
	"rateline/internal/http/handlers"
)

type ServerDeps struct {
	Rating handlers.QuoteService
	Events events.Publisher
	Log    *slog.Logger
}

type Server struct {
	rating handlers.QuoteService
	events events.Publisher
	log    *slog.Logger
}

func NewServer(deps ServerDeps) *Server {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	pub := deps.Events
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Server{rating: deps.Rating, events: pub, log: log}
}
