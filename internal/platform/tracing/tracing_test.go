package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), "", "test", "dev")
	require.NoError(t, err)

	ctx, span := StartSpan(context.Background(), "calculate")
	assert.False(t, span.IsRecording())
	assert.NotPanics(t, func() {
		RecordError(ctx, errors.New("boom"))
		SetAttributes(ctx, attribute.String("k", "v"))
	})
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}
