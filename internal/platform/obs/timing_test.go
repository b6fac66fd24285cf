package obs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTimeLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	var err error
	Time(ctx, "calculate")(&err)
	assert.Contains(t, buf.String(), `"op":"calculate"`)
	assert.Contains(t, buf.String(), "operation finished")

	buf.Reset()
	err = errors.New("boom")
	Time(ctx, "calculate")(&err)
	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), "operation failed")
}

func TestTimeWithoutLoggerIsSilent(t *testing.T) {
	var err error
	assert.NotPanics(t, func() { Time(context.Background(), "noop")(&err) })
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}
