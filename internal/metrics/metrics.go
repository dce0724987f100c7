package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Assignment groups the counters maintained by the assignment engine.
type Assignment struct {
	Created        prometheus.Counter
	Transitions    *prometheus.CounterVec
	DispatchFailed prometheus.Counter
}

// NewAssignment returns unregistered assignment counters.
func NewAssignment() *Assignment {
	return &Assignment{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assignments_created_total",
			Help: "Total number of assignments created",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assignment_transitions_total",
			Help: "Total number of applied assignment status transitions",
		}, []string{"from", "to"}),
		DispatchFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_dispatch_failed_total",
			Help: "Total number of notifications that could not be handed to the dispatcher",
		}),
	}
}

// Register registers every counter with r. When a counter with the same
// description is already registered, m switches to the existing one.
func (m *Assignment) Register(r prometheus.Registerer) error {
	var err error
	if m.Created, err = RegisterOrExisting(r, m.Created); err != nil {
		return err
	}
	if m.Transitions, err = RegisterOrExisting(r, m.Transitions); err != nil {
		return err
	}
	if m.DispatchFailed, err = RegisterOrExisting(r, m.DispatchFailed); err != nil {
		return err
	}
	return nil
}

// NewNotificationRetriesTotal returns a Prometheus counter for the number of retry attempts performed by notification senders
func NewNotificationRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_retries_total",
		Help: "Total number of retry attempts performed by notification senders",
	})
}

// NewNotificationsDeliveredTotal returns a counter of notifications handed to a sender, labelled by outcome
func NewNotificationsDeliveredTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_delivered_total",
		Help: "Total number of notification deliveries by outcome",
	}, []string{"outcome"})
}

// RegisterOrExisting registers c with r and returns it. If an equal
// collector is already registered, that one is returned instead.
func RegisterOrExisting[T prometheus.Collector](r prometheus.Registerer, c T) (T, error) {
	if err := r.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}
