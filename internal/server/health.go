package server

import "context"

// HealthService defines behaviour for readiness checks.
type HealthService interface {
	Check(ctx context.Context) error
}

// Pinger is implemented by the storage backends.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreHealth reports the storage backend as healthy when it answers a ping.
type StoreHealth struct {
	Store Pinger
}

// Check implements the HealthService interface.
func (s StoreHealth) Check(ctx context.Context) error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Ping(ctx)
}
