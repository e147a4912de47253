package stream

import "context"

// Consumer drains conversation events from a stream, evaluates them
// and publishes the results.
type Consumer interface {
	Setup(ctx context.Context) error
	Start(ctx context.Context) error
	Stop() error
}
