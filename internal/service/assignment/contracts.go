//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=assignment_test

package assignment

import (
	"context"

	"service-cleaning-booking/internal/domain"
)

// Dispatcher hands notification events to the delivery side. Implementations
// must not block the caller on delivery.
type Dispatcher interface {
	Send(ctx context.Context, event domain.NotificationEvent) error
}
