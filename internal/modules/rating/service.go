// README: Service binds the engine to a rule source and adds tracing, metrics and logging.
package rating

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rateline/internal/logging"
	"rateline/internal/metric"
	"rateline/internal/modules/ruletable"
)

type Service struct {
	source ruletable.Source
	engine *Engine
	log    *slog.Logger
}

func NewService(source ruletable.Source, engine *Engine, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{source: source, engine: engine, log: log}
}

func (s *Service) QuoteIntracity(ctx context.Context, req IntracityRequest) (Quote, error) {
	return s.run(ctx, ProductIntracity, func(ctx context.Context, snap *ruletable.Snapshot) (Quote, error) {
		return s.engine.RateIntracity(ctx, snap, req)
	})
}

func (s *Service) QuoteInterCounty(ctx context.Context, req InterCountyRequest) (Quote, error) {
	return s.run(ctx, ProductInterCounty, func(ctx context.Context, snap *ruletable.Snapshot) (Quote, error) {
		return s.engine.RateInterCounty(ctx, snap, req)
	})
}

func (s *Service) QuoteFullLoad(ctx context.Context, req FullLoadRequest) (Quote, error) {
	return s.run(ctx, ProductFullLoad, func(ctx context.Context, snap *ruletable.Snapshot) (Quote, error) {
		return s.engine.RateFullLoad(ctx, snap, req)
	})
}

func (s *Service) QuoteInternational(ctx context.Context, req InternationalRequest) (Quote, error) {
	return s.run(ctx, ProductInternational, func(ctx context.Context, snap *ruletable.Snapshot) (Quote, error) {
		return s.engine.RateInternational(ctx, snap, req)
	})
}

func (s *Service) run(ctx context.Context, product Product, rate func(context.Context, *ruletable.Snapshot) (Quote, error)) (Quote, error) {
	ctx, span := otel.Tracer("rating").Start(ctx, "rating."+string(product))
	defer span.End()
	start := time.Now()

	var q Quote
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		err = fmt.Errorf("load rule snapshot: %w", err)
	} else {
		q, err = rate(ctx, snap)
	}

	outcome := Outcome(err)
	metric.ObserveQuote(string(product), outcome, time.Since(start))
	span.SetAttributes(attribute.String("rating.product", string(product)), attribute.String("rating.outcome", outcome))

	switch {
	case err == nil:
		span.SetAttributes(
			attribute.String("quote.id", q.ID),
			attribute.String("quote.total", q.Total.String()),
		)
		s.log.InfoContext(ctx, "quote issued",
			slog.String("product", string(product)),
			slog.String("quote_id", q.ID),
			slog.String("total", q.Total.String()),
			logging.Traced(ctx))
		return q, nil

	case IsBusinessMiss(err) || errors.Is(err, ErrInputInvalid):
		span.AddEvent("rating miss", traceAttrs(err)...)
		s.log.InfoContext(ctx, "quote declined",
			slog.String("product", string(product)),
			slog.String("outcome", outcome),
			slog.String("reason", err.Error()),
			logging.Traced(ctx))

	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.ErrorContext(ctx, "quote failed",
			slog.String("product", string(product)),
			slog.String("outcome", outcome),
			logging.Err(err),
			logging.Traced(ctx))
	}
	return Quote{}, err
}

func traceAttrs(err error) []trace.EventOption {
	var re *Error
	if !errors.As(err, &re) {
		return nil
	}
	return []trace.EventOption{trace.WithAttributes(attribute.String("rating.stage", re.Stage))}
}
