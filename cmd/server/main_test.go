package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artistic-unity-backend/internal/logging"
)

func TestWaitReady_RetriesUntilHealthy(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.LogConfig{Format: "text", Output: &buf})

	calls := 0
	err := waitReady(context.Background(), logger, 5*time.Second, func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("bucket not found")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, buf.String(), "dependency not ready")
	assert.Contains(t, buf.String(), "bucket not found")
}

func TestWaitReady_GivesUpAfterTimeout(t *testing.T) {
	err := waitReady(context.Background(), logging.Discard(), 50*time.Millisecond, func(context.Context) error {
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready: connection refused")
}
