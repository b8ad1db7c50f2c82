package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestID(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	ctx := WithRequestID(context.Background(), "req-9")
	assert.Equal(t, "req-9", GetRequestID(ctx))
}

func TestLoggerFallsBackToGlobal(t *testing.T) {
	assert.Same(t, zap.L(), Logger(context.Background()))

	logger := zap.NewNop()
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, Logger(ctx))
}
