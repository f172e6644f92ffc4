package core

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-drift/elements/pkg/errors"
	"github.com/go-drift/elements/pkg/log"
)

const instrumentationName = "github.com/go-drift/elements/pkg/core"

// UpdateState is the scheduler state of an element.
type UpdateState int

const (
	// Idle means no render pass is scheduled.
	Idle UpdateState = iota
	// Pending means a render pass is scheduled and has not finished.
	Pending
)

func (s UpdateState) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// UpdateState returns the scheduler state.
func (b *Base) UpdateState() UpdateState {
	if b.pending {
		return Pending
	}
	return Idle
}

// UpdatePending reports whether a render pass is scheduled.
func (b *Base) UpdatePending() bool {
	return b.pending
}

// RequestUpdate schedules a render pass unconditionally.
func (b *Base) RequestUpdate() {
	b.requestUpdate(true)
}

// RequestPropertyUpdate schedules a render pass if the named property no
// longer holds old.
func (b *Base) RequestPropertyUpdate(name string, old any) {
	current, _ := b.self.GetProperty(name)
	b.requestUpdate(Changed(old, current))
}

// requestUpdate moves Idle to Pending and schedules the render pass after the
// current segment. The pass then waits for the update gate. Requests made
// while Pending are absorbed.
func (b *Base) requestUpdate(shouldRender bool) {
	if b.pending || !shouldRender {
		return
	}
	b.pending = true
	b.host.Defer(func() {
		b.gate.Then(b.performUpdate)
	})
}

// performUpdate is the render pass. The element returns to Idle whether or not
// the render succeeds; failures go to the error handler and are not retried.
func (b *Base) performUpdate() {
	defer func() { b.pending = false }()

	if b.root == nil {
		log.Warn(log.CatScheduler, "no rendering root, skipping render", "tag", b.typ.tag, "id", b.id)
		return
	}

	_, span := otel.Tracer(instrumentationName).Start(context.Background(), "element.render",
		trace.WithAttributes(
			attribute.String("element.tag", b.typ.tag),
			attribute.String("element.type", b.typ.name),
			attribute.String("element.id", b.id),
		))
	defer span.End()

	if err := b.render(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		errors.ReportRenderError(err)
		return
	}
	log.Debug(log.CatScheduler, "rendered", "tag", b.typ.tag, "id", b.id)
}

func (b *Base) render() (rerr *errors.RenderError) {
	defer func() {
		if r := recover(); r != nil {
			rerr = &errors.RenderError{
				Tag:        b.typ.tag,
				ID:         b.id,
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
		}
	}()

	desc := b.self.Render()
	if err := b.host.Render(desc, b.root); err != nil {
		return &errors.RenderError{
			Tag:       b.typ.tag,
			ID:        b.id,
			Err:       err,
			Timestamp: time.Now(),
		}
	}
	return nil
}
