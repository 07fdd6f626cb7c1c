package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestWithContextRoundTrip(t *testing.T) {
	l, _ := newObservedLogger()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestFromContextMissing(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
}

func TestWithRequestID(t *testing.T) {
	l, logs := newObservedLogger()
	ctx, enriched := WithRequestID(context.Background(), l, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))

	enriched.Info("hello")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestWithTenantAndUserID(t *testing.T) {
	l, _ := newObservedLogger()
	ctx, _ := WithTenantID(context.Background(), l, "tenant-1")
	ctx, _ = WithUserID(ctx, l, "user-1")

	assert.Equal(t, "tenant-1", GetTenantID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
}

func TestGettersOnEmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetTenantID(ctx))
	assert.Empty(t, GetUserID(ctx))
}

func TestL(t *testing.T) {
	l, logs := newObservedLogger()
	ctx := WithContext(context.Background(), l)
	ctx = context.WithValue(ctx, requestIDKey, "req-9")
	ctx = context.WithValue(ctx, tenantIDKey, "tenant-9")

	L(ctx).Info("scoped")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "tenant-9", fields["tenant_id"])
	_, hasUser := fields["user_id"]
	assert.False(t, hasUser)
}
