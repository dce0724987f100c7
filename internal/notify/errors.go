package notify

import "errors"

var (
	// ErrQueueFull is returned by AsyncDispatcher.Send when no slot is free.
	ErrQueueFull = errors.New("notification queue is full")
	// ErrClosed is returned by AsyncDispatcher.Send after Close.
	ErrClosed = errors.New("notification dispatcher is closed")
)
