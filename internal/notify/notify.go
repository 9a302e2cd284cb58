// Package notify carries plan change events between obra processes, so a
// read-only viewer can refresh when an editor saves or shares a plan.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

type EventKind string

const (
	PlanSaved    EventKind = "plan.saved"
	PlanShared   EventKind = "plan.shared"
	PlanUnshared EventKind = "plan.unshared"
)

// PlanEvent is the wire payload published on the notification channel.
type PlanEvent struct {
	Kind      EventKind       `json:"kind"`
	ProjectID string          `json:"project_id"`
	PlanID    string          `json:"plan_id"`
	PlanType  domain.PlanType `json:"plan_type"`
	Items     int             `json:"items"`
	At        time.Time       `json:"at"`
}

func (e PlanEvent) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding plan event: %w", err)
	}
	return data, nil
}

func DecodePlanEvent(data []byte) (PlanEvent, error) {
	var e PlanEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return PlanEvent{}, fmt.Errorf("decoding plan event: %w", err)
	}
	if e.Kind == "" || e.PlanID == "" {
		return PlanEvent{}, fmt.Errorf("decoding plan event: kind and plan_id are required")
	}
	return e, nil
}

type Publisher interface {
	Publish(ctx context.Context, e PlanEvent) error
}

// Subscriber delivers events until ctx is cancelled or the returned stop
// function is called; the channel is closed afterwards.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan PlanEvent, func() error, error)
}

// Noop drops published events and never delivers any.
type Noop struct{}

func (Noop) Publish(context.Context, PlanEvent) error { return nil }

func (Noop) Subscribe(ctx context.Context) (<-chan PlanEvent, func() error, error) {
	ch := make(chan PlanEvent)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		close(ch)
	}()
	var once sync.Once
	return ch, func() error {
		once.Do(func() { close(done) })
		return nil
	}, nil
}
