package ml

import (
	"context"

	"text2phenotype.com/postagger/types"
)

// CRFOracle reports the per-token marginal label probabilities of a CRF.
type CRFOracle struct {
	name string
	crf  *CRF
}

func NewCRFOracle(name string, crf *CRF) *CRFOracle {
	return &CRFOracle{name: name, crf: crf}
}

func LoadCRFOracle(name string, modelPath string) (*CRFOracle, error) {
	crf, err := LoadCRFFromFile(modelPath)
	if err != nil {
		return nil, err
	}
	return NewCRFOracle(name, crf), nil
}

func (o *CRFOracle) Name() string {
	return o.name
}

func (o *CRFOracle) Score(_ context.Context, words []string) (types.SourceOutput, error) {
	marginals := o.crf.Marginals(SentenceFeatures(words))
	out := make(types.SourceOutput, len(words))
	for t, row := range marginals {
		dist := make(types.TagDistribution)
		for s, p := range row {
			if p > 0 {
				dist[o.crf.States[s]] = p
			}
		}
		out[t] = dist
	}
	return out, nil
}
