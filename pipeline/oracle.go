package pipeline

import (
	"context"
	"fmt"

	"text2phenotype.com/postagger/types"
)

// Oracle produces one tag distribution per word of a sentence, in order.
// Implementations used with more than one worker must be safe for concurrent use.
type Oracle interface {
	Name() string
	Score(ctx context.Context, words []string) (types.SourceOutput, error)
}

// Sources lists the oracles in fusion order. Secondary sources are best-effort
// and only consulted when enabled in the configuration.
type Sources struct {
	Primary   []Oracle
	Secondary []Oracle
}

func score(ctx context.Context, oracle Oracle, sent *types.Sentence) (types.SourceOutput, error) {
	if sent.IsEmpty() {
		return types.SourceOutput{}, nil
	}
	out, err := oracle.Score(ctx, sent.NormalizedWords())
	if err != nil {
		return nil, fmt.Errorf("source %s failed: %w", oracle.Name(), err)
	}
	if len(out) != sent.Len() {
		return nil, &types.OracleContractViolation{
			Source:   oracle.Name(),
			Expected: sent.Len(),
			Got:      len(out),
		}
	}
	return out, nil
}
