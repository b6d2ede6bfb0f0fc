// Package fusion merges per-token tag distributions coming from several scoring
// sources and turns the merged distribution into a single tag decision.
//
// Merging is additive: a tag reported by several sources accumulates the sum of
// its scores. Sources are visited in the order they are given and the entries of
// one distribution in lexicographic tag order, so that the floating point
// summation order, and therefore every bit of the result, is the same on every run.
package fusion

import "text2phenotype.com/postagger/types"

type Fused struct {
	Dist types.TagDistribution
	// Sum is the total mass of every input distribution.
	Sum float64
}

func Fuse(dists ...types.TagDistribution) Fused {
	res := Fused{Dist: make(types.TagDistribution)}
	for _, dist := range dists {
		for _, tag := range dist.Tags() {
			score := dist[tag]
			if prev, ok := res.Dist[tag]; ok {
				res.Dist[tag] = prev + score
			} else {
				res.Dist[tag] = score
			}
			res.Sum += score
		}
	}
	return res
}

// FuseOutputs merges aligned source outputs position by position. All outputs
// must have length n.
func FuseOutputs(n int, outputs ...types.SourceOutput) []Fused {
	res := make([]Fused, n)
	dists := make([]types.TagDistribution, len(outputs))
	for k := 0; k < n; k++ {
		for s, out := range outputs {
			dists[s] = out[k]
		}
		res[k] = Fuse(dists...)
	}
	return res
}
