package pos

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Context holds the weights one predicate contributes to each listed outcome.
type Context struct {
	Outcomes   []int     `json:"outcomes"`
	Parameters []float64 `json:"parameters"`
}

type EvalParameters struct {
	Params        []Context `json:"params"`
	NumOfOutcomes int       `json:"numOfOutcomes"`
}

// Model is a maximum entropy model over string contexts.
type Model struct {
	Probs      []float64      `json:"probs"`
	Outcomes   []string       `json:"outcomes"`
	PMap       map[string]int `json:"pmap"`
	EvalParams EvalParameters `json:"evalParams"`
	// TagDictionary optionally restricts the tags a known word may take.
	TagDictionary map[string][]string `json:"tagDictionary,omitempty"`
}

// Eval returns the probability of every outcome given the active contexts.
// Unknown predicates are ignored.
func (m Model) Eval(context []string) []float64 {
	n := m.EvalParams.NumOfOutcomes
	sums := make([]float64, n)
	copy(sums, m.Probs)

	for _, c := range context {
		ci, ok := m.PMap[c]
		if !ok {
			continue
		}
		pred := m.EvalParams.Params[ci]
		for k, oid := range pred.Outcomes {
			sums[oid] += pred.Parameters[k]
		}
	}

	maxSum := math.Inf(-1)
	for _, s := range sums {
		maxSum = math.Max(maxSum, s)
	}
	normal := 0.0
	for oid := range sums {
		sums[oid] = math.Exp(sums[oid] - maxSum)
		normal += sums[oid]
	}
	for oid := range sums {
		sums[oid] /= normal
	}
	return sums
}

func (m Model) validate() error {
	n := m.EvalParams.NumOfOutcomes
	if len(m.Outcomes) == 0 || n != len(m.Outcomes) {
		return fmt.Errorf("model has %d outcomes but declares %d", len(m.Outcomes), n)
	}
	if len(m.Probs) > n {
		return fmt.Errorf("model has %d priors for %d outcomes", len(m.Probs), n)
	}
	for pred, ci := range m.PMap {
		if ci < 0 || ci >= len(m.EvalParams.Params) {
			return fmt.Errorf("predicate %q points to missing parameters %d", pred, ci)
		}
	}
	for ci, c := range m.EvalParams.Params {
		if len(c.Outcomes) != len(c.Parameters) {
			return fmt.Errorf("parameters %d: %d outcomes for %d weights", ci, len(c.Outcomes), len(c.Parameters))
		}
		for _, oid := range c.Outcomes {
			if oid < 0 || oid >= n {
				return fmt.Errorf("parameters %d: outcome %d out of range", ci, oid)
			}
		}
	}
	return nil
}

func LoadModelFromFile(modelFilePath string) (Model, error) {
	var m Model
	buf, err := os.ReadFile(modelFilePath)
	if err != nil {
		return m, err
	}
	if err = json.Unmarshal(buf, &m); err != nil {
		return m, fmt.Errorf("failed to parse maxent model %s: %w", modelFilePath, err)
	}
	return m, nil
}
