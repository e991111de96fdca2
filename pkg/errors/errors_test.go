package errors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/toolhub/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("tool", "42")
		assert.Equal(t, "tool with ID 42 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("joined", func(t *testing.T) {
		wrapped := errors.Join(errors.New("lookup failed"), pkgerrors.NewNotFoundError("guide", "7"))
		assert.True(t, pkgerrors.IsNotFound(wrapped))
		assert.False(t, pkgerrors.IsUnavailable(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  *pkgerrors.ValidationError
		want string
	}{
		{"with field", pkgerrors.NewValidationError("website", "nope", "must be a valid URL"), "validation failed for field website: must be a valid URL"},
		{"without field", &pkgerrors.ValidationError{Message: "empty row"}, "validation failed: empty row"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, pkgerrors.IsValidationError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := fmt.Errorf("bolt: timeout")
	err := pkgerrors.WrapStore("fetch", "tools", cause)
	require.Error(t, err)

	assert.Equal(t, "store fetch on tools failed: bolt: timeout", err.Error())
	assert.True(t, pkgerrors.IsUnavailable(err))
	assert.ErrorIs(t, err, cause)

	var storeErr *pkgerrors.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "tools", storeErr.Collection)

	assert.NoError(t, pkgerrors.WrapStore("fetch", "tools", nil))
}

func TestStoreErrorKeepsContextCancellation(t *testing.T) {
	err := pkgerrors.WrapStore("get", "guides", context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseError(t *testing.T) {
	t.Run("row", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "xlsx", File: "tools.xlsx", Row: 4, Message: "bad price"}
		assert.Equal(t, "parse error in xlsx at tools.xlsx row 4: bad price", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("file", func(t *testing.T) {
		err := pkgerrors.NewParseError("csv", "seed.csv", "unexpected EOF", nil)
		assert.Equal(t, "parse error in csv file seed.csv: unexpected EOF", err.Error())
	})

	t.Run("wrap", func(t *testing.T) {
		cause := errors.New("mapping value not allowed")
		err := pkgerrors.WrapParse("yaml", "", cause)
		assert.Equal(t, "yaml parse error: mapping value not allowed", err.Error())
		assert.ErrorIs(t, err, cause)
		assert.NoError(t, pkgerrors.WrapParse("yaml", "", nil))
	})
}

func TestIOError(t *testing.T) {
	cause := errors.New("permission denied")
	err := pkgerrors.WrapIO("open", "/tmp/toolhub.db", cause)
	assert.Equal(t, "IO error during open of /tmp/toolhub.db: permission denied", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := pkgerrors.NewIOError("write", "", cause)
	assert.Equal(t, "IO error during write: permission denied", bare.Error())
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("server", "port out of range", nil)
	assert.Equal(t, "configuration error in server: port out of range", err.Error())
	assert.Equal(t, "configuration error: missing key", pkgerrors.NewConfigError("", "missing key", nil).Error())
}

func TestSentinels(t *testing.T) {
	assert.True(t, pkgerrors.IsAlreadyExists(fmt.Errorf("put: %w", pkgerrors.ErrAlreadyExists)))
	assert.ErrorIs(t, fmt.Errorf("load: %w", pkgerrors.ErrBusy), pkgerrors.ErrBusy)
}
