package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfFollowsWrapping(t *testing.T) {
	base := TransportError("network request failed: %w", errors.New("dial tcp: timeout"))
	wrapped := fmt.Errorf("download failed: %w", base)

	assert.Equal(t, KindTransport, KindOf(wrapped))
	assert.Equal(t, 3, KindOf(wrapped).ExitCode())
	assert.Contains(t, wrapped.Error(), "dial tcp: timeout")
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, 1, KindUnknown.ExitCode())
}

func TestExitCodesAreDistinct(t *testing.T) {
	seen := map[int]Kind{}
	for _, k := range []Kind{KindUnknown, KindUsage, KindTransport, KindParse, KindFilesystem} {
		code := k.ExitCode()
		_, dup := seen[code]
		assert.False(t, dup, "exit code %d reused by %s", code, k)
		seen[code] = k
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := FilesystemError("failed to write: %w", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "filesystem error", KindOf(err).String())
}
