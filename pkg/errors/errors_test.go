package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ErrorTypeUnknown},
		{name: "plain", err: fmt.Errorf("boom"), want: ErrorTypeUnknown},
		{name: "validation", err: NewValidationError("bad"), want: ErrorTypeValidation},
		{name: "not found", err: NewNotFoundError("missing"), want: ErrorTypeNotFound},
		{name: "conflict", err: NewConflictError("stale"), want: ErrorTypeConflict},
		{name: "unavailable", err: NewUnavailableErrorf("down: %d", 1), want: ErrorTypeUnavailable},
		{name: "internal", err: NewInternalError("oops"), want: ErrorTypeInternal},
		{name: "wrapped", err: fmt.Errorf("ctx: %w", NewNotFoundError("missing")), want: ErrorTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "conflict", ErrorTypeConflict.String())
	assert.Equal(t, "unknown", ErrorType(42).String())
}

func TestUnavailableErrorf(t *testing.T) {
	err := NewUnavailableErrorf("yt-dlp exited with %d", 2)
	assert.Equal(t, "yt-dlp exited with 2", err.Error())
	assert.True(t, IsUnavailableError(fmt.Errorf("wrap: %w", err)))
	assert.False(t, IsInternalError(err))
}
