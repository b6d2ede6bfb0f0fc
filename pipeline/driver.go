package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"text2phenotype.com/postagger/fusion"
	"text2phenotype.com/postagger/logger"
	"text2phenotype.com/postagger/normalizer"
	"text2phenotype.com/postagger/types"
	"text2phenotype.com/postagger/utils"
)

type State int

const (
	StateReceived State = iota
	StateNormalized
	StateGuarded
	StateScored
	StateFused
	StateDecided
	StateEmitted
)

var stateNames = [...]string{"received", "normalized", "guarded", "scored", "fused", "decided", "emitted"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Result struct {
	Index  int
	Tokens []*types.Token
	// Distributions are the pruned fused distributions, kept only when the
	// configuration asks for tag probabilities.
	Distributions []types.TagDistribution
	Truncated     bool
	// State is the last state reached; anything but StateEmitted comes with Err.
	State State
	Err   error
}

type Driver struct {
	cfg     types.Configuration
	sources Sources
	log     zerolog.Logger
}

func NewDriver(cfg types.Configuration, sources Sources) (*Driver, error) {
	if len(sources.Primary) == 0 {
		return nil, types.ErrModelUnavailable
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.EnableSecondarySource {
		sources.Secondary = nil
	}
	return &Driver{
		cfg:     cfg,
		sources: sources,
		log:     logger.NewLogger("Driver"),
	}, nil
}

func (d *Driver) Config() types.Configuration {
	return d.cfg
}

// Process tags every sentence. Results are aligned with the input; a failure
// is confined to the result of the sentence it happened in.
func (d *Driver) Process(ctx context.Context, sentences []types.Sentence) []Result {
	results := make([]Result, len(sentences))
	if d.cfg.Workers <= 1 {
		for i := range sentences {
			results[i] = d.processSentence(ctx, sentences[i])
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Workers)
	for i := range sentences {
		i := i
		g.Go(func() error {
			results[i] = d.processSentence(gctx, sentences[i])
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (d *Driver) processSentence(ctx context.Context, sent types.Sentence) (res Result) {
	res = Result{Index: sent.Index, State: StateReceived}
	defer utils.RecoverWithError(&res.Err)

	if sent.IsEmpty() {
		res.Tokens = []*types.Token{}
		res.State = StateEmitted
		return res
	}

	// the caller's tokens are never written to, so a batch can go through
	// any number of drivers
	tokens := make([]*types.Token, len(sent.Tokens))
	for i, token := range sent.Tokens {
		tokens[i] = types.NewToken(token.Surface)
	}
	sent.Tokens = tokens

	normalizer.NormalizeSentence(&sent)
	res.State = StateNormalized

	res.Truncated = Guard(&sent, d.cfg.MaxSentenceLength, &d.log)
	res.Tokens = sent.Tokens
	res.State = StateGuarded

	outputs := make([]types.SourceOutput, 0, len(d.sources.Primary)+len(d.sources.Secondary))
	for _, oracle := range d.sources.Primary {
		out, err := score(ctx, oracle, &sent)
		if err != nil {
			d.log.Err(err).Int("sentence", sent.Index).Msg("Failed to score sentence")
			res.Err = err
			return res
		}
		outputs = append(outputs, out)
	}
	for _, oracle := range d.sources.Secondary {
		out, err := score(ctx, oracle, &sent)
		var violation *types.OracleContractViolation
		switch {
		case errors.As(err, &violation):
			d.log.Err(err).Int("sentence", sent.Index).Msg("Failed to score sentence")
			res.Err = err
			return res
		case err != nil:
			d.log.Warn().Err(err).Int("sentence", sent.Index).Str("source", oracle.Name()).
				Msg("Secondary source failed, using empty distributions")
			out = types.EmptyOutput(sent.Len())
		}
		outputs = append(outputs, out)
	}
	res.State = StateScored

	fused := fusion.FuseOutputs(sent.Len(), outputs...)
	res.State = StateFused

	dists := fusion.DecideSentence(&sent, fused, d.cfg.PruneThreshold)
	if d.cfg.OutputTagProbs {
		res.Distributions = dists
	}
	res.State = StateDecided

	res.State = StateEmitted
	return res
}
