// Package notify delivers outbound notifications. Delivery is always
// fire-and-log from the engine's point of view: a failed send is reported
// to the caller so it can be counted, but callers never let it roll back
// or block a state change that already succeeded.
package notify

import "context"

// Dispatcher accepts a notification for delivery
type Dispatcher interface {
	Send(ctx context.Context, recipient, subject, body string) error
}
