package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_TriggersLazyInitialization(t *testing.T) {
	r := New()
	svc := newFakeService("datastore")
	require.NoError(t, r.Register(svc))

	ran := false
	op := r.Guard("datastore", func(ctx context.Context) error {
		ran = true
		return nil
	})

	assert.Equal(t, StateUninitialized, r.States()["datastore"], "wrapping must not initialize")

	require.NoError(t, op(context.Background()))
	assert.True(t, ran)
	assert.True(t, r.IsReady("datastore"))
	assert.Equal(t, int32(1), svc.setupCount.Load())

	// Second invocation takes the fast path; setup stays at one.
	require.NoError(t, op(context.Background()))
	assert.Equal(t, int32(1), svc.setupCount.Load())
}

func TestGuard_InitializationFailureSkipsOperation(t *testing.T) {
	r := New()
	cause := errors.New("conn refused")
	svc := newFakeService("datastore")
	svc.setupErr = cause
	require.NoError(t, r.Register(svc))

	ran := false
	op := r.Guard("datastore", func(ctx context.Context) error {
		ran = true
		return nil
	})

	err := op(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.False(t, ran, "operation must not run when initialization fails")
}

func TestGuard_PassesThroughOperationError(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newFakeService("datastore")))

	opErr := errors.New("no such row")
	op := r.Guard("datastore", func(ctx context.Context) error {
		return opErr
	})

	err := op(context.Background())
	assert.Same(t, opErr, err, "operation errors pass through unchanged")
}

func TestGuardFunc_ReturnsValue(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newFakeService("datastore")))

	get := GuardFunc(r, "datastore", func(ctx context.Context) (string, error) {
		return "value", nil
	})

	v, err := get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "value", v)
}

func TestGuardFunc_ZeroValueOnInitFailure(t *testing.T) {
	r := New()
	svc := newFakeService("datastore")
	svc.probeFail = true
	require.NoError(t, r.Register(svc))

	get := GuardFunc(r, "datastore", func(ctx context.Context) (int, error) {
		return 42, nil
	})

	v, err := get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProbeFailed)
	assert.Zero(t, v)
}

func TestGuard_UnknownService(t *testing.T) {
	r := New()

	op := r.Guard("ghost", func(ctx context.Context) error { return nil })
	err := op(context.Background())

	var unknown *UnknownServiceError
	require.ErrorAs(t, err, &unknown)
}
