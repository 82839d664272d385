package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waavs-go/pslang/internal/geom"
)

func TestIdentityTransformsPointUnchanged(t *testing.T) {
	x, y := geom.Identity().TransformPoint(3, 4)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)
}

func TestTranslationMovesPoint(t *testing.T) {
	m := geom.Translation(10, -5)
	x, y := m.TransformPoint(1, 1)
	assert.Equal(t, 11.0, x)
	assert.Equal(t, -4.0, y)
}

func TestScalingScalesVectorButNotTranslation(t *testing.T) {
	m := geom.Scaling(2, 3)
	dx, dy := m.DTransformPoint(1, 1)
	assert.Equal(t, 2.0, dx)
	assert.Equal(t, 3.0, dy)
}

func TestRotation90DegreesMapsXAxisToYAxis(t *testing.T) {
	m := geom.Rotation(90)
	x, y := m.TransformPoint(1, 0)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, 1.0, y, 1e-9)
}

func TestInvertRoundTrips(t *testing.T) {
	m := geom.Translation(5, 7).Scale(2, 4).Rotate(30)
	inv, ok := m.Invert()
	require.True(t, ok)

	x, y := m.TransformPoint(3, 2)
	bx, by := inv.TransformPoint(x, y)
	assert.InDelta(t, 3.0, bx, 1e-9)
	assert.InDelta(t, 2.0, by, 1e-9)
}

func TestInvertSingularReportsFalse(t *testing.T) {
	_, ok := geom.Matrix{}.Invert()
	assert.False(t, ok)
}

func TestMultiplyComposesTransforms(t *testing.T) {
	translate := geom.Translation(10, 0)
	scale := geom.Scaling(2, 2)
	combined := scale.Multiply(translate)

	x, y := combined.TransformPoint(1, 1)
	// scale first (1,1)->(2,2), then translate (2,2)->(12,2).
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 2.0, y)
}

func TestArrayOrderMatchesPostScriptOperandOrder(t *testing.T) {
	m := geom.NewMatrix(1, 2, 3, 4, 5, 6)
	arr := m.Array()
	assert.Equal(t, [6]float64{1, 2, 3, 4, 5, 6}, arr)
}

func TestDeterminant(t *testing.T) {
	m := geom.Scaling(2, 5)
	assert.Equal(t, 10.0, m.Determinant())
}

func TestRotationIsUnitary(t *testing.T) {
	m := geom.Rotation(37)
	// a rotation matrix's linear part has determinant 1.
	assert.InDelta(t, 1.0, m.Determinant(), 1e-9)
}
