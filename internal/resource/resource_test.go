package resource_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waavs-go/pslang/internal/name"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/internal/resource"
)

func TestDefineAndFindResource(t *testing.T) {
	s := resource.NewStack()
	key := name.Intern("Helvetica")
	s.DefineResource(resource.Font, key, object.NewInteger(1))

	v, err := s.FindResource(resource.Font, key)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v.Int)
}

func TestFindResourceUndefined(t *testing.T) {
	s := resource.NewStack()
	_, err := s.FindResource(resource.Font, name.Intern("NoSuchFont"))
	assert.Error(t, err)
}

func TestResourceShadowingAcrossLevels(t *testing.T) {
	s := resource.NewStack()
	key := name.Intern("Courier")
	s.DefineResource(resource.Font, key, object.NewInteger(1))

	s.Push()
	s.DefineResource(resource.Font, key, object.NewInteger(2))

	v, err := s.FindResource(resource.Font, key)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v.Int, "find must prefer the top level's definition")

	idx, ok := s.ResourceStatus(resource.Font, key)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	require.True(t, s.Pop())

	v, err = s.FindResource(resource.Font, key)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v.Int, "popping the level must reveal the base definition again")
}

func TestPopRefusesToDropBaseLevel(t *testing.T) {
	s := resource.NewStack()
	assert.False(t, s.Pop())
}

func TestResourceForAllVisitsEveryLevel(t *testing.T) {
	s := resource.NewStack()
	s.DefineResource(resource.Font, name.Intern("A"), object.NewInteger(1))
	s.Push()
	s.DefineResource(resource.Font, name.Intern("B"), object.NewInteger(2))

	seen := map[string]bool{}
	s.ResourceForAll(resource.Font, func(k name.Name, v object.Object) bool {
		seen[k.String()] = true
		return true
	})
	assert.True(t, seen["A"])
	assert.True(t, seen["B"])
}
