package pos

import "math"

// Sequence is a partial tag history with its log probability.
type Sequence struct {
	Score    float64
	Outcomes []string
}

// extend returns a copy of seq with one more tag of probability prob.
func (seq Sequence) extend(tag string, prob float64) Sequence {
	outcomes := make([]string, len(seq.Outcomes)+1)
	copy(outcomes, seq.Outcomes)
	outcomes[len(seq.Outcomes)] = tag
	return Sequence{
		Score:    seq.Score + math.Log(prob),
		Outcomes: outcomes,
	}
}

// Less orders sequences best first.
func (seq Sequence) Less(o interface{}) bool {
	c, isOk := o.(Sequence)
	if isOk {
		return seq.Score > c.Score
	}
	return false
}
