package registry

import "context"

// Guard wraps an operation belonging to a service so that invoking it first
// drives the service (and its dependency chain) to Ready. On initialization
// failure the operation is not executed and the initialization error is
// returned instead; otherwise the operation's own result passes through
// unchanged.
//
// Once the service is Ready the wrapper adds nothing beyond the EnsureReady
// fast path, so guarded operations are safe on hot paths.
func (r *Registry) Guard(name string, op func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := r.EnsureReady(ctx, name); err != nil {
			return err
		}
		return op(ctx)
	}
}

// GuardFunc is the generic counterpart of Registry.Guard for operations that
// return a value.
func GuardFunc[T any](r *Registry, name string, op func(ctx context.Context) (T, error)) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		if err := r.EnsureReady(ctx, name); err != nil {
			var zero T
			return zero, err
		}
		return op(ctx)
	}
}
