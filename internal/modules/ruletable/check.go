package ruletable

import (
	"context"
	"log/slog"

	"rateline/internal/metric"
)

// Check validates snap. Strict mode returns every issue as a *ValidationError;
// otherwise issues are logged as warnings and rating proceeds on first-match order.
func Check(ctx context.Context, snap *Snapshot, strict bool, log *slog.Logger) error {
	issues := Validate(snap)
	metric.RuleIssues.Set(float64(len(issues)))
	if len(issues) == 0 {
		return nil
	}
	if strict {
		return &ValidationError{Issues: issues}
	}
	for _, i := range issues {
		log.WarnContext(ctx, "rule table issue",
			slog.String("table", i.Table),
			slog.String("scope", i.Scope),
			slog.String("issue", i.Message))
	}
	return nil
}
