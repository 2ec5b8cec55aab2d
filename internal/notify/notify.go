// Package notify carries user-facing outcome messages out of the attendance flow.
package notify

//go:generate mockgen -source=notify.go -destination=mock/notify_mock.go -package=mock

import (
	"context"

	"go-colaboradores/internal/shared/contextutil"

	"go.uber.org/zap"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

type Notification struct {
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

func Success(title, detail string) Notification {
	return Notification{Kind: KindSuccess, Title: title, Detail: detail}
}

func Error(title, detail string) Notification {
	return Notification{Kind: KindError, Title: title, Detail: detail}
}

func Info(title, detail string) Notification {
	return Notification{Kind: KindInfo, Title: title, Detail: detail}
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to the request logger. The HTTP layer also
// returns the notification in the response body.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.L().Named("notify")
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, note Notification) {
	log := contextutil.GetLogger(ctx, n.logger)
	fields := []zap.Field{
		zap.String("kind", string(note.Kind)),
		zap.String("title", note.Title),
		zap.String("detail", note.Detail),
	}
	if note.Kind == KindError {
		log.Warn("notification", fields...)
		return
	}
	log.Info("notification", fields...)
}
