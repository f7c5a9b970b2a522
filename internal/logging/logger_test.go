package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrNop(t *testing.T) {
	l := New(slog.LevelWarn)
	assert.Same(t, l, OrNop(l))

	nop := OrNop(nil)
	assert.NotNil(t, nop)
	assert.Same(t, nop, OrNop(nil))
	nop.Info("dropped")
}

func TestNewLevel(t *testing.T) {
	l := New(slog.LevelWarn)
	ctx := context.Background()
	assert.False(t, l.Enabled(ctx, slog.LevelInfo))
	assert.True(t, l.Enabled(ctx, slog.LevelError))
}
