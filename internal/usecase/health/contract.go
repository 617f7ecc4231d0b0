package health

import "context"

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}
