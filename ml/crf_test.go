package ml

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func transition(weights []float64, def float64) *TransitionData {
	return &TransitionData{Weights: weights, DefaultWeight: def}
}

// two states; "x" favours A, "y" favours B, A->B is cheap, B->B is penalized
func testCRF() *CRF {
	return &CRF{
		Features:       map[string]int{"w_x": 0, "w_y": 1, "bias": 2},
		States:         []string{"A", "B"},
		InitialWeights: []float64{0.5, 0},
		FinalWeights:   []float64{0, 0.25},
		Transitions: [][]*TransitionData{
			{transition([]float64{2, 0, 0.1}, 0), transition([]float64{0, 2, 0}, 0.3)},
			{transition([]float64{2, 0, 0}, 0), transition([]float64{0, 2, 0}, -1)},
		},
	}
}

func bruteForceMarginals(crf *CRF, features [][]Feature) [][]float64 {
	n := len(features)
	states := len(crf.States)
	trans := make([][][]float64, n)
	for t, feats := range features {
		trans[t] = crf.transitionScores(crf.ToFeatureIdxVector(feats))
	}

	res := make([][]float64, n)
	for t := range res {
		res[t] = make([]float64, states)
	}
	z := 0.0
	labels := make([]int, n)
	var walk func(t int)
	walk = func(t int) {
		if t == n {
			for start := 0; start < states; start++ {
				score := crf.InitialWeights[start]
				prev := start
				for k, l := range labels {
					score += trans[k][prev][l]
					prev = l
				}
				score += crf.finalWeight(labels[n-1])
				w := math.Exp(score)
				z += w
				for k, l := range labels {
					res[k][l] += w
				}
			}
			return
		}
		for s := 0; s < states; s++ {
			labels[t] = s
			walk(t + 1)
		}
	}
	walk(0)
	for t := range res {
		for s := range res[t] {
			res[t][s] /= z
		}
	}
	return res
}

func TestMarginalsMatchBruteForce(t *testing.T) {
	crf := testCRF()
	for _, words := range [][]string{{"x"}, {"x", "y"}, {"y", "y", "x"}, {"x", "z", "y", "x"}} {
		features := SentenceFeatures(words)
		got := crf.Marginals(features)
		expected := bruteForceMarginals(crf, features)
		require.Len(t, got, len(words))
		for i := range got {
			sum := 0.0
			for s := range got[i] {
				require.InDelta(t, expected[i][s], got[i][s], 1e-9, "words %v token %d state %d", words, i, s)
				sum += got[i][s]
			}
			require.InDelta(t, 1.0, sum, 1e-9)
		}
	}
}

func TestMarginalsWithoutAdmissiblePath(t *testing.T) {
	crf := testCRF()
	crf.InitialWeights = []float64{math.Inf(-1), math.Inf(-1)}
	got := crf.Marginals(SentenceFeatures([]string{"x", "y"}))
	require.Equal(t, [][]float64{{0, 0}, {0, 0}}, got)
}

func TestCRFOracleScore(t *testing.T) {
	oracle := NewCRFOracle("crf", testCRF())
	require.Equal(t, "crf", oracle.Name())

	out, err := oracle.Score(context.Background(), []string{"x", "y"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Greater(t, out[0]["A"], out[0]["B"])
	require.Greater(t, out[1]["B"], out[1]["A"])

	out, err = oracle.Score(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestLoadCRFFromFile(t *testing.T) {
	model := testCRF()
	model.InitialWeights = []float64{0.5}
	buf, err := json.Marshal(model)
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "crf.json")
	require.NoError(t, os.WriteFile(p, buf, 0o600))

	loaded, err := LoadCRFFromFile(p)
	require.NoError(t, err)
	require.Len(t, loaded.InitialWeights, 2)
	require.True(t, math.IsInf(loaded.InitialWeights[1], -1))

	_, err = LoadCRFOracle("crf", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadCRFFromFileRejectsMismatchedTransitions(t *testing.T) {
	model := testCRF()
	model.Transitions = model.Transitions[:1]
	buf, err := json.Marshal(model)
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "crf.json")
	require.NoError(t, os.WriteFile(p, buf, 0o600))

	_, err = LoadCRFFromFile(p)
	require.Error(t, err)
}

func TestTokenFeatures(t *testing.T) {
	feats := TokenFeatures([]string{"The", "X-ray", "2"}, 1)
	names := make(map[string]bool)
	for _, f := range feats {
		names[f.String()] = true
	}
	for _, expected := range []string{"bias", "w_x-ray", "shape_Xx", "suf_y", "pre_x", "p_the", "n_2", "hyphen", "cap"} {
		require.True(t, names[expected], expected)
	}
	require.False(t, names["digit"])
}
