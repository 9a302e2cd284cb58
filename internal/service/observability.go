package service

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// Use-case names reported to observers.
const (
	UseCaseLoadSchedule   = "load-schedule"
	UseCaseLoadShared     = "load-shared"
	UseCaseSaveSchedule   = "save-schedule"
	UseCaseMarkShared     = "mark-shared"
	UseCaseUnmarkShared   = "unmark-shared"
	UseCaseImportSchedule = "import-schedule"
)

// UseCaseEvent describes one finished call into a schedule use case.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error
	// Fields carries use-case specific values such as the plan ID or item
	// count.
	Fields map[string]any
}

type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// NewLogUseCaseObserver emits one "service_use_case" record per event as
// logfmt on w. Failures are logged at error level.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return logObserver{slog.New(slog.NewTextHandler(w, nil))}
}

type logObserver struct{ log *slog.Logger }

func (o logObserver) ObserveUseCase(ctx context.Context, e UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("use_case", e.Name),
		slog.Int64("duration_ms", e.Duration.Milliseconds()),
		slog.Bool("success", e.Success),
	}
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		attrs = append(attrs, slog.Any(k, e.Fields[k]))
	}
	level := slog.LevelInfo
	if e.Err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	o.log.LogAttrs(ctx, level, "service_use_case", attrs...)
}

type fanout []UseCaseObserver

func (f fanout) ObserveUseCase(ctx context.Context, e UseCaseEvent) {
	for _, o := range f {
		o.ObserveUseCase(ctx, e)
	}
}

// useCaseObserverOrNoop drops nil observers and combines the rest.
func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	live := slices.DeleteFunc(slices.Clone(observers), func(o UseCaseObserver) bool { return o == nil })
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	default:
		return fanout(live)
	}
}

// observe is deferred by use cases with a pointer to their named error
// result.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, errp *error) {
	e := UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Fields:    fields,
	}
	if errp != nil {
		e.Err = *errp
	}
	e.Success = e.Err == nil
	obs.ObserveUseCase(ctx, e)
}
