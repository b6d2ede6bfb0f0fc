package fusion

import "text2phenotype.com/postagger/types"

// Prune drops the tags whose score is below threshold*Sum. A zero-mass input
// produces an empty distribution.
func Prune(fused Fused, threshold float64) types.TagDistribution {
	res := make(types.TagDistribution)
	if fused.Sum == 0 {
		return res
	}
	th := threshold * fused.Sum
	for tag, score := range fused.Dist {
		if score >= th {
			res[tag] = score
		}
	}
	return res
}

// Best returns the tag with the strictly greatest score. Equal maxima go to the
// lexicographically smallest label. An empty distribution gives an unresolved tag.
func Best(dist types.TagDistribution) types.Tag {
	var best types.Tag
	maxp := -1.0
	for _, tag := range dist.Tags() {
		if p := dist[tag]; p > maxp {
			maxp = p
			best = types.NewTag(tag)
		}
	}
	return best
}

func Decide(fused Fused, threshold float64) (types.TagDistribution, types.Tag) {
	pruned := Prune(fused, threshold)
	return pruned, Best(pruned)
}

// DecideSentence resolves the tag of every token and returns the pruned
// distributions aligned with the tokens.
func DecideSentence(sent *types.Sentence, fused []Fused, threshold float64) []types.TagDistribution {
	res := make([]types.TagDistribution, len(fused))
	for k, f := range fused {
		pruned, tag := Decide(f, threshold)
		sent.Tokens[k].Resolve(tag)
		res[k] = pruned
	}
	return res
}
