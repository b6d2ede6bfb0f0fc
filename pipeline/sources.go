package pipeline

import (
	"fmt"
	"path/filepath"

	"text2phenotype.com/postagger/lexicon"
	"text2phenotype.com/postagger/logger"
	"text2phenotype.com/postagger/ml"
	"text2phenotype.com/postagger/pos"
	"text2phenotype.com/postagger/types"
)

// LoadSources loads every configured model. Any failure is reported as
// ErrModelUnavailable so that no sentence gets processed with a partial model set.
// The lexicon store may be nil; the lexicon then yields empty distributions.
func LoadSources(cfg types.Configuration, modelDir string, lexiconStore lexicon.Store) (Sources, error) {
	sourcesLogger := logger.NewLogger("Sources")
	var sources Sources

	if len(cfg.Models) == 0 {
		return sources, fmt.Errorf("%w: no models configured", types.ErrModelUnavailable)
	}

	for _, m := range cfg.Models {
		modelPath := m.Path
		if !filepath.IsAbs(modelPath) {
			modelPath = filepath.Join(modelDir, modelPath)
		}

		var oracle Oracle
		var err error
		switch m.Type {
		case types.MaxentModel:
			oracle, err = pos.LoadOracle(m.Name, modelPath, m.BeamSize)
		case types.CRFModel:
			oracle, err = ml.LoadCRFOracle(m.Name, modelPath)
		default:
			err = fmt.Errorf("wrong model type %q", m.Type)
		}
		if err != nil {
			sourcesLogger.Err(err).
				Str("model", m.Name).
				Str("model_location", modelPath).
				Msg("Failed to load model")
			return Sources{}, fmt.Errorf("%w: model %s: %w", types.ErrModelUnavailable, m.Name, err)
		}
		sourcesLogger.Info().Str("model", m.Name).Str("type", m.Type).Msg("Loaded model")
		sources.Primary = append(sources.Primary, oracle)
	}

	if cfg.EnableSecondarySource {
		sources.Secondary = append(sources.Secondary, lexicon.NewOracle(cfg.Lexicon.KeyPrefix, lexiconStore))
	}
	return sources, nil
}
