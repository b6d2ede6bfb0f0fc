package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

type TransitionData struct {
	Weights       []float64 `json:"weights"`
	DefaultWeight float64   `json:"default_weight"`
}

// CRF is a linear-chain model. The label of token t is the target state of the
// transition taken at t; InitialWeights score the start state before token 0.
type CRF struct {
	Features       map[string]int      `json:"features"`
	States         []string            `json:"states"`
	InitialWeights []float64           `json:"initial_weights"`
	FinalWeights   []float64           `json:"final_weights"`
	Transitions    [][]*TransitionData `json:"transitions"`
}

func (crf *CRF) DotProduct(transition *TransitionData, featureIdxVector []int) float64 {
	sort.Ints(featureIdxVector)
	transitionWeights := transition.Weights
	ret := 0.0
	for _, fIdx := range featureIdxVector {
		if fIdx < len(transitionWeights) {
			ret += transitionWeights[fIdx]
		}
	}
	return ret
}

func (crf *CRF) ToFeatureIdxVector(features []Feature) []int {

	set := make(map[int]bool)
	for _, feat := range features {
		fIdx, isOk := crf.Features[feat.String()]
		if isOk {
			set[fIdx] = true
		}
	}

	result := make([]int, 0, len(set))
	for k := range set {
		result = append(result, k)
	}
	sort.Ints(result)
	return result
}

// transitionScores returns score[from][to] for one observation.
func (crf *CRF) transitionScores(fIdxVector []int) [][]float64 {
	n := len(crf.States)
	scores := make([][]float64, n)
	for from := 0; from < n; from++ {
		scores[from] = make([]float64, n)
		for to := 0; to < n; to++ {
			var transition *TransitionData
			if to < len(crf.Transitions[from]) {
				transition = crf.Transitions[from][to]
			}
			if transition == nil {
				scores[from][to] = math.Inf(-1)
				continue
			}
			scores[from][to] = crf.DotProduct(transition, fIdxVector) + transition.DefaultWeight
		}
	}
	return scores
}

func (crf *CRF) finalWeight(state int) float64 {
	if state < len(crf.FinalWeights) {
		return crf.FinalWeights[state]
	}
	return 0
}

// Marginals computes P(label_t = state | sentence) for every token with the
// forward-backward algorithm in log space. A sentence without any admissible
// path gets all-zero rows.
func (crf *CRF) Marginals(features [][]Feature) [][]float64 {
	n := len(features)
	states := len(crf.States)
	res := make([][]float64, n)
	for t := range res {
		res[t] = make([]float64, states)
	}
	if n == 0 {
		return res
	}

	trans := make([][][]float64, n)
	for t, feats := range features {
		trans[t] = crf.transitionScores(crf.ToFeatureIdxVector(feats))
		if t == n-1 {
			for from := range trans[t] {
				for to := range trans[t][from] {
					trans[t][from][to] += crf.finalWeight(to)
				}
			}
		}
	}

	alpha := make([][]float64, n+1)
	alpha[0] = make([]float64, states)
	copy(alpha[0], crf.InitialWeights)
	buf := make([]float64, states)
	for t := 0; t < n; t++ {
		alpha[t+1] = make([]float64, states)
		for to := 0; to < states; to++ {
			for from := 0; from < states; from++ {
				buf[from] = alpha[t][from] + trans[t][from][to]
			}
			alpha[t+1][to] = logSumExp(buf)
		}
	}

	beta := make([][]float64, n+1)
	beta[n] = make([]float64, states)
	for t := n - 1; t >= 1; t-- {
		beta[t] = make([]float64, states)
		for from := 0; from < states; from++ {
			for to := 0; to < states; to++ {
				buf[to] = trans[t][from][to] + beta[t+1][to]
			}
			beta[t][from] = logSumExp(buf)
		}
	}

	z := logSumExp(alpha[n])
	if math.IsInf(z, -1) || math.IsNaN(z) {
		return res
	}
	for t := 0; t < n; t++ {
		for s := 0; s < states; s++ {
			res[t][s] = math.Exp(alpha[t+1][s] + beta[t+1][s] - z)
		}
	}
	return res
}

func logSumExp(xs []float64) float64 {
	max := math.Inf(-1)
	for _, x := range xs {
		if x > max {
			max = x
		}
	}
	if math.IsInf(max, -1) {
		return max
	}
	sum := 0.0
	for _, x := range xs {
		sum += math.Exp(x - max)
	}
	return max + math.Log(sum)
}

func (crf *CRF) validate() error {
	if len(crf.States) == 0 {
		return fmt.Errorf("crf model has no states")
	}
	if len(crf.Transitions) != len(crf.States) {
		return fmt.Errorf("crf model has %d states but %d transition rows", len(crf.States), len(crf.Transitions))
	}
	return nil
}

func LoadCRFFromFile(modelPath string) (*CRF, error) {
	buf, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, err
	}

	var m CRF
	err = json.Unmarshal(buf, &m)
	if err != nil {
		return nil, err
	}

	// fill absent initial weights to Infinity values
	for len(m.InitialWeights) < len(m.States) {
		m.InitialWeights = append(m.InitialWeights, math.Inf(-1))
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
