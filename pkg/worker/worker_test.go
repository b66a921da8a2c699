package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagehq/tripdocs/pkg/logger"
)

func TestStopIsIdempotent(t *testing.T) {
	w, err := NewBatchWorker(&Config{
		RedisAddr:   "localhost:6379",
		Concurrency: 1,
	}, nil, logger.NewTestLogger())
	require.NoError(t, err)

	// The context watcher and main's shutdown path can both reach Stop.
	assert.NotPanics(t, func() {
		require.NoError(t, w.Stop())
		require.NoError(t, w.Stop())
	})
}
