package gstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waavs-go/pslang/internal/geom"
	"github.com/waavs-go/pslang/internal/gstate"
)

func TestNewStackStartsAtDepthOne(t *testing.T) {
	s := gstate.NewStack(geom.Identity())
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, 1.0, s.Current().LineWidth)
}

func TestSaveRestoreTracksDepth(t *testing.T) {
	s := gstate.NewStack(geom.Identity())
	s.Save()
	s.Save()
	assert.Equal(t, 3, s.Depth())

	require.True(t, s.Restore())
	assert.Equal(t, 2, s.Depth())
	require.True(t, s.Restore())
	assert.Equal(t, 1, s.Depth())
}

func TestRestoreRefusesToPopInitialFrame(t *testing.T) {
	s := gstate.NewStack(geom.Identity())
	assert.False(t, s.Restore())
	assert.Equal(t, 1, s.Depth())
}

func TestSaveClonesMutationsDoNotLeak(t *testing.T) {
	s := gstate.NewStack(geom.Identity())
	s.Save()
	s.Current().LineWidth = 5
	s.Restore()
	assert.Equal(t, 1.0, s.Current().LineWidth, "mutating the saved frame must not affect the restored one")
}

func TestSaveReusesFreedFrames(t *testing.T) {
	s := gstate.NewStack(geom.Identity())
	s.Save()
	s.Current().LineWidth = 9
	s.Restore()
	s.Save()
	assert.Equal(t, 1.0, s.Current().LineWidth, "a recycled frame must be reset to a clone of the current state, not left dirty")
}
