// Package notifier delivers notification outbox rows after the state
// change that produced them has committed. Delivery is best-effort:
// a failed emit is logged, never surfaced as a transition failure.
package notifier

import (
	"context"
	"log/slog"

	"chamasave-backend/internal/domain/notification"
)

type Emitter interface {
	Emit(ctx context.Context, n notification.Notification) error
}

// Dispatcher fans committed notifications out to an Emitter and
// swallows failures. Rows delivered successfully are stamped sent in
// the outbox so undelivered ones stay visible.
type Dispatcher struct {
	emitter Emitter
	outbox  notification.Repository
	log     *slog.Logger
}

func NewDispatcher(e Emitter, outbox notification.Repository, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{emitter: e, outbox: outbox, log: log}
}

// Dispatch delivers each notification once. Nil-safe so usecases can
// run without a dispatcher in tests.
func (d *Dispatcher) Dispatch(ctx context.Context, ns []notification.Notification) {
	if d == nil || d.emitter == nil {
		return
	}
	for _, n := range ns {
		if err := d.emitter.Emit(ctx, n); err != nil {
			d.log.Error("notification emit failed",
				slog.String("notification_id", n.NotificationID),
				slog.String("type", n.Type),
				slog.String("error", err.Error()))
			continue
		}
		if d.outbox == nil {
			continue
		}
		if err := d.outbox.MarkSent(ctx, n.NotificationID); err != nil {
			d.log.Error("notification mark sent failed",
				slog.String("notification_id", n.NotificationID),
				slog.String("error", err.Error()))
		}
	}
}

// LogEmitter writes notifications to the structured log. Used as the
// default backend and in development.
type LogEmitter struct {
	log *slog.Logger
}

func NewLogEmitter(log *slog.Logger) *LogEmitter {
	if log == nil {
		log = slog.Default()
	}
	return &LogEmitter{log: log}
}

func (e *LogEmitter) Emit(_ context.Context, n notification.Notification) error {
	e.log.Info("notification",
		slog.String("notification_id", n.NotificationID),
		slog.String("member_id", n.MemberID),
		slog.String("role", n.Role),
		slog.String("type", n.Type),
		slog.String("title", n.Title),
		slog.String("message", n.Message))
	return nil
}
