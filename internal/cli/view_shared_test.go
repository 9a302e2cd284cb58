package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	ch       chan notify.PlanEvent
	err      error
	opened   int
	released int
}

func (f *fakeSubscriber) Subscribe(context.Context) (<-chan notify.PlanEvent, func() error, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.opened++
	return f.ch, func() error {
		f.released++
		return nil
	}, nil
}

func newSharedDriver(t *testing.T, app *App, p *domain.Project, follow bool) *TestDriver {
	t.Helper()
	return NewTestDriver(t, app, func(state *SharedState) View {
		return newSharedPlanView(state, p, follow)
	})
}

func TestSharedView_NothingShared(t *testing.T) {
	app := testApp(t)
	s := seedPlan(t, app)

	d := newSharedDriver(t, app, s.project, false)
	out := d.PlainView()
	assert.Contains(t, out, "Casa Norte")
	assert.Contains(t, out, "No plan has been shared for this project yet.")
}

func TestSharedView_ShowsSharedPlanReadOnly(t *testing.T) {
	app := testApp(t)
	s := seedPlan(t, app)
	require.NoError(t, app.Schedules.MarkShared(context.Background(), s.schedule.Plan.ID))

	d := newSharedDriver(t, app, s.project, false)
	v := d.shared()
	require.True(t, v.found)
	assert.Len(t, v.rows.items, 2)
	assert.Contains(t, d.PlainView(), "● shared")
	assert.Contains(t, d.PlainView(), "Framing")

	d.PressKey('x')
	d.PressRight()
	d.MousePress(colFoundation, rowFoundation)
	assert.Len(t, v.rows.items, 2)
	assert.True(t, v.surface.State().IsIdle())
	assert.False(t, v.surface.Editable())
	assert.Contains(t, d.PlainView(), "Shared plans are read-only.")
}

func TestSharedView_FollowReloadsOnEvent(t *testing.T) {
	app := testApp(t)
	s := seedPlan(t, app)
	ctx := context.Background()
	require.NoError(t, app.Schedules.MarkShared(ctx, s.schedule.Plan.ID))

	sub := &fakeSubscriber{ch: make(chan notify.PlanEvent, 2)}
	sub.ch <- notify.PlanEvent{Kind: notify.PlanSaved, ProjectID: "other", PlanID: "p-other", At: time.Now()}
	sub.ch <- notify.PlanEvent{Kind: notify.PlanUnshared, ProjectID: s.project.ID, PlanID: s.schedule.Plan.ID, At: time.Now()}
	app.Events = sub

	// The unshare lands before the queued event is delivered.
	require.NoError(t, app.Schedules.UnmarkShared(ctx, s.schedule.Plan.ID))

	d := newSharedDriver(t, app, s.project, true)
	v := d.shared()
	assert.Equal(t, 1, v.updates, "only events for this project count")
	assert.False(t, v.found, "reload picks up the unshare")
	assert.Contains(t, d.PlainView(), "◉ live")
	assert.Contains(t, d.PlainView(), "No plan has been shared for this project yet.")
}

func TestSharedView_FollowClosedChannel(t *testing.T) {
	app := testApp(t)
	s := seedPlan(t, app)
	sub := &fakeSubscriber{ch: make(chan notify.PlanEvent)}
	close(sub.ch)
	app.Events = sub

	d := newSharedDriver(t, app, s.project, true)
	v := d.shared()
	assert.Nil(t, v.events)
	assert.NotContains(t, d.PlainView(), "◉ live")
}

func TestSharedView_SubscribeFailure(t *testing.T) {
	app := testApp(t)
	s := seedPlan(t, app)
	require.NoError(t, app.Schedules.MarkShared(context.Background(), s.schedule.Plan.ID))
	app.Events = &fakeSubscriber{err: errors.New("connection refused")}

	d := newSharedDriver(t, app, s.project, true)
	assert.Contains(t, d.PlainView(), "Live updates unavailable: connection refused")
}

func TestSharedView_ReleasesSubscriptionWhenLeft(t *testing.T) {
	app := testApp(t)
	seedPlan(t, app)
	sub := &fakeSubscriber{ch: make(chan notify.PlanEvent)}
	app.Events = sub
	d := newProjectListDriver(t, app)

	for round := 1; round <= 2; round++ {
		d.PressKey('v')
		require.Equal(t, ViewShared, d.ActiveViewID())
		require.True(t, d.shared().follow)
		assert.Equal(t, round, sub.opened)
		assert.Equal(t, round-1, sub.released, "still subscribed while on screen")

		d.PressEsc()
		require.Equal(t, ViewProjectList, d.ActiveViewID())
		assert.Equal(t, round, sub.released)
	}
}

func TestSharedView_ReleasesOnQuit(t *testing.T) {
	app := testApp(t)
	s := seedPlan(t, app)
	sub := &fakeSubscriber{ch: make(chan notify.PlanEvent)}
	app.Events = sub

	d := newSharedDriver(t, app, s.project, true)
	require.Equal(t, 1, sub.opened)
	d.PressKey('q')
	assert.True(t, d.Quitting)
	assert.Equal(t, 1, sub.released)
}

func TestSharedView_LateSubscriptionIsReleased(t *testing.T) {
	app := testApp(t)
	seedPlan(t, app)
	d := newProjectListDriver(t, app)

	released := 0
	d.Send(subscribedMsg{
		replyMsg: replyMsg{to: nextViewToken()},
		events:   make(chan notify.PlanEvent),
		release:  func() error { released++; return nil },
	})
	assert.Equal(t, 1, released, "nobody is left to read the events")
	assert.Equal(t, ViewProjectList, d.ActiveViewID())
}
