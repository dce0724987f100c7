//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=notify_test

// Package notify delivers assignment notifications off the request path.
package notify

import (
	"context"

	"service-cleaning-booking/internal/domain"
)

// Sender delivers one notification event synchronously.
type Sender interface {
	Deliver(ctx context.Context, event domain.NotificationEvent) error
}

type counter interface {
	Inc()
}
