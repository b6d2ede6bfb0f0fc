package types

import "sort"

// TagDistribution maps a tag label to a non-negative score.
type TagDistribution map[string]float64

// SourceOutput holds one distribution per token, aligned with the sentence.
type SourceOutput []TagDistribution

type TagProb struct {
	Tag  string  `json:"tag"`
	Prob float64 `json:"prob"`
}

// Tags returns the labels in lexicographic order.
func (dist TagDistribution) Tags() []string {
	tags := make([]string, 0, len(dist))
	for tag := range dist {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (dist TagDistribution) Sum() float64 {
	sum := 0.0
	for _, tag := range dist.Tags() {
		sum += dist[tag]
	}
	return sum
}

func (dist TagDistribution) Clone() TagDistribution {
	res := make(TagDistribution, len(dist))
	for tag, p := range dist {
		res[tag] = p
	}
	return res
}

// Sorted lists the entries by descending score, ties by tag label.
func (dist TagDistribution) Sorted() []TagProb {
	res := make([]TagProb, 0, len(dist))
	for _, tag := range dist.Tags() {
		res = append(res, TagProb{Tag: tag, Prob: dist[tag]})
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Prob > res[j].Prob
	})
	return res
}

// EmptyOutput returns n empty distributions.
func EmptyOutput(n int) SourceOutput {
	out := make(SourceOutput, n)
	for i := range out {
		out[i] = TagDistribution{}
	}
	return out
}
