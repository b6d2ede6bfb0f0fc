package pipeline

import (
	"context"
	"errors"
	"sync"

	"text2phenotype.com/postagger/types"
)

// fakeOracle tags every word with fixed scores and records what it was given.
type fakeOracle struct {
	name   string
	scores func(word string) types.TagDistribution

	mu    sync.Mutex
	calls [][]string
}

func newFakeOracle(name string, scores func(word string) types.TagDistribution) *fakeOracle {
	return &fakeOracle{name: name, scores: scores}
}

func (o *fakeOracle) Name() string {
	return o.name
}

func (o *fakeOracle) Score(_ context.Context, words []string) (types.SourceOutput, error) {
	o.mu.Lock()
	o.calls = append(o.calls, append([]string(nil), words...))
	o.mu.Unlock()

	out := make(types.SourceOutput, len(words))
	for i, w := range words {
		out[i] = o.scores(w)
	}
	return out, nil
}

func (o *fakeOracle) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.calls)
}

// wordTagger tags a word with its own text, so tags are easy to check
func wordTagger(word string) types.TagDistribution {
	return types.TagDistribution{"T-" + word: 0.9, "X": 0.1}
}

type shortOracle struct{}

func (shortOracle) Name() string { return "short" }

func (shortOracle) Score(_ context.Context, words []string) (types.SourceOutput, error) {
	if len(words) == 3 {
		return types.EmptyOutput(2), nil
	}
	return types.EmptyOutput(len(words)), nil
}

type failingOracle struct{}

func (failingOracle) Name() string { return "failing" }

func (failingOracle) Score(context.Context, []string) (types.SourceOutput, error) {
	return nil, errors.New("model crashed")
}

type panickingOracle struct{}

func (panickingOracle) Name() string { return "panicking" }

func (panickingOracle) Score(context.Context, []string) (types.SourceOutput, error) {
	panic("index out of range")
}
