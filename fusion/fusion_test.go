package fusion

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"text2phenotype.com/postagger/types"
)

func TestFuseAdditive(t *testing.T) {
	fused := Fuse(
		types.TagDistribution{"a": 2.0, "b": 1.0},
		types.TagDistribution{"a": 1.0, "c": 3.0},
	)
	expected := types.TagDistribution{"a": 3.0, "b": 1.0, "c": 3.0}
	if diff := cmp.Diff(expected, fused.Dist); diff != "" {
		t.Errorf("fused distribution mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 7.0, fused.Sum)
}

func TestFuseNoInputs(t *testing.T) {
	fused := Fuse()
	require.Empty(t, fused.Dist)
	require.Zero(t, fused.Sum)

	fused = Fuse(types.TagDistribution{}, types.TagDistribution{})
	require.Empty(t, fused.Dist)
	require.Zero(t, fused.Sum)
}

func TestFuseDoesNotModifyInputs(t *testing.T) {
	a := types.TagDistribution{"NN": 0.5}
	Fuse(a, types.TagDistribution{"NN": 0.25})
	require.Equal(t, types.TagDistribution{"NN": 0.5}, a)
}

func TestFuseIsBitReproducible(t *testing.T) {
	// values chosen so that the summation order changes the low bits
	a := types.TagDistribution{}
	b := types.TagDistribution{}
	for i, tag := range []string{"NN", "NNS", "VB", "VBD", "JJ", "RB", "DT", "IN"} {
		a[tag] = 0.1 * float64(i+1) / 3
		b[tag] = 1e-17 * float64(i+7)
	}

	first := Fuse(a, b)
	for i := 0; i < 50; i++ {
		again := Fuse(a, b)
		require.Equal(t, math.Float64bits(first.Sum), math.Float64bits(again.Sum))
		for tag, p := range first.Dist {
			require.Equal(t, math.Float64bits(p), math.Float64bits(again.Dist[tag]))
		}
	}
}

func TestFuseOutputs(t *testing.T) {
	primary := types.SourceOutput{{"DT": 0.9, "NN": 0.1}, {"NN": 1}}
	secondary := types.EmptyOutput(2)
	fused := FuseOutputs(2, primary, secondary)
	require.Len(t, fused, 2)
	require.Equal(t, types.TagDistribution{"DT": 0.9, "NN": 0.1}, fused[0].Dist)
	require.InDelta(t, 1.0, fused[0].Sum, 1e-12)
	require.Equal(t, 1.0, fused[1].Sum)
}
