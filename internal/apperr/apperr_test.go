package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	t.Parallel()

	cause := errors.New("quota exceeded")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: Validation("invalid %s", "customerInfo"), want: "validation"},
		{name: "not_found_wrapped", err: fmt.Errorf("lookup: %w", ErrOrderNotFound), want: "not_found"},
		{name: "storage", err: NewStorageError(PhaseWriteAttachment, "customer_photo_1.jpg", cause), want: "storage"},
		{name: "initialization", err: Initialization("google drive", cause), want: "initialization"},
		{name: "deadline", err: context.DeadlineExceeded, want: "timeout"},
		{name: "canceled", err: context.Canceled, want: "canceled"},
		{name: "unknown", err: cause, want: "internal"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("wrapped: %w", ErrOrderNotFound)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Validation("bad json")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(NewStorageError(PhaseCreateFolder, "x", errors.New("boom"))))
}

func TestStorageError_UnwrapsSentinelAndCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("403 forbidden")
	err := fmt.Errorf("order processing failed: %w", NewStorageError(PhaseWriteSelections, "collage_selections.json", cause))

	assert.ErrorIs(t, err, ErrStorageProvision)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, PhaseWriteSelections, PhaseOf(err))
	assert.Contains(t, err.Error(), "write_selections collage_selections.json: 403 forbidden")
	assert.Equal(t, Phase(""), PhaseOf(cause))
}
