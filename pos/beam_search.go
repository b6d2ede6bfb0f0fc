package pos

import (
	"container/heap"
	"sort"

	"text2phenotype.com/postagger/utils"
)

const minSequenceScore = -100000

type BeamSearch func(words []string, contextGen ContextGenerator, validator SequenceValidator) (Sequence, bool)

// NewBeamSearch keeps the size best partial tag sequences at every position.
func NewBeamSearch(model Model, size int) BeamSearch {

	return func(words []string, contextGen ContextGenerator, validator SequenceValidator) (Sequence, bool) {
		prev := make(utils.PriorityQueue, 0, size)
		heap.Init(&prev)
		next := make(utils.PriorityQueue, 0, size)
		heap.Init(&next)
		heap.Push(&prev, Sequence{})

		for i := 0; i < len(words); i++ {
			sz := len(prev)
			if size < sz {
				sz = size
			}

			for sc := 0; len(prev) > 0 && sc < sz; sc++ {
				top := heap.Pop(&prev).(Sequence)

				contexts := contextGen.GetContext(i, words, top.Outcomes)
				scores := model.Eval(contexts)

				tempScores := make([]float64, len(scores))
				copy(tempScores, scores)
				sort.Float64s(tempScores)

				idx := len(scores) - size
				if idx < 0 {
					idx = 0
				}
				min := tempScores[idx]

				for p := 0; p < len(scores); p++ {
					if scores[p] < min {
						continue
					}
					expand(&next, model, top, i, words, validator, p, scores[p])
				}

				if len(next) == 0 {
					for p := 0; p < len(scores); p++ {
						expand(&next, model, top, i, words, validator, p, scores[p])
					}
				}
			}

			prev = utils.PriorityQueue{}
			heap.Init(&prev)
			prev, next = next, prev
		}

		if len(prev) == 0 {
			return Sequence{}, false
		}
		return heap.Pop(&prev).(Sequence), true
	}
}

func expand(next *utils.PriorityQueue, model Model, top Sequence, i int, words []string, validator SequenceValidator, p int, score float64) {
	out := model.Outcomes[p]
	if !validator.ValidSequence(i, words, out) {
		return
	}
	ns := top.extend(out, score)
	if ns.Score > minSequenceScore {
		heap.Push(next, ns)
	}
}
