package ruletable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"rateline/internal/logging"
)

var ErrNotLoaded = errors.New("rule snapshot not loaded")

// Refresher serves the last snapshot that passed Check and reloads it from
// the underlying source on demand or on a ticker. A failed reload keeps the
// previous snapshot in service.
type Refresher struct {
	loader Source
	strict bool
	log    *slog.Logger

	current atomic.Pointer[Snapshot]
}

func NewRefresher(loader Source, strict bool, log *slog.Logger) *Refresher {
	if log == nil {
		log = slog.Default()
	}
	return &Refresher{loader: loader, strict: strict, log: log}
}

func (r *Refresher) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := r.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

func (r *Refresher) Reload(ctx context.Context) error {
	snap, err := r.loader.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	if err := Check(ctx, snap, r.strict, r.log); err != nil {
		return err
	}
	r.current.Store(snap)
	return nil
}

func (r *Refresher) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Reload(ctx); err != nil && ctx.Err() == nil {
				r.log.ErrorContext(ctx, "rule reload failed, keeping previous snapshot", logging.Err(err))
			}
		}
	}
}

// FileSource reads a YAML rule file on every call.
type FileSource struct {
	Path string
}

func (f FileSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	return LoadFile(f.Path)
}
