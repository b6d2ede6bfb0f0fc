package pos

import (
	"context"
	"fmt"

	"text2phenotype.com/postagger/types"
)

// Oracle scores a sentence with a maxent model. The beam search picks the best
// history of prior tags; the distribution at each position is the model's
// outcome probabilities given that history.
type Oracle struct {
	name      string
	model     Model
	search    BeamSearch
	contexts  ContextGenerator
	validator SequenceValidator
}

func NewOracle(name string, model Model, beamSize int) (*Oracle, error) {
	if err := model.validate(); err != nil {
		return nil, fmt.Errorf("maxent model %q: %w", name, err)
	}
	if beamSize <= 0 {
		beamSize = types.DefaultBeamSize
	}
	return &Oracle{
		name:      name,
		model:     model,
		search:    NewBeamSearch(model, beamSize),
		contexts:  NewContextGenerator(model),
		validator: NewSequenceValidator(model.TagDictionary),
	}, nil
}

func LoadOracle(name string, modelPath string, beamSize int) (*Oracle, error) {
	model, err := LoadModelFromFile(modelPath)
	if err != nil {
		return nil, err
	}
	return NewOracle(name, model, beamSize)
}

func (o *Oracle) Name() string {
	return o.name
}

func (o *Oracle) Score(_ context.Context, words []string) (types.SourceOutput, error) {
	if len(words) == 0 {
		return types.SourceOutput{}, nil
	}

	best, isOk := o.search(words, o.contexts, o.validator)
	if !isOk {
		// every tag sequence was rejected by the tag dictionary
		return types.EmptyOutput(len(words)), nil
	}

	out := make(types.SourceOutput, len(words))
	for i := range words {
		probs := o.model.Eval(o.contexts.GetContext(i, words, best.Outcomes))
		dist := make(types.TagDistribution, len(probs))
		for p, prob := range probs {
			tag := o.model.Outcomes[p]
			if prob > 0 && o.validator.ValidSequence(i, words, tag) {
				dist[tag] = prob
			}
		}
		out[i] = dist
	}
	return out, nil
}
