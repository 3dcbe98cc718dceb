package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_DisabledIsNoop(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "blog-test", Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, Tracer)
}

func TestStartRepositorySpan(t *testing.T) {
	ctx, span := StartRepositorySpan(context.Background(), "GetByID", "posts")
	defer span.End()
	assert.NotNil(t, ctx)
	assert.NotNil(t, span)
}
