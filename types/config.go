package types

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxSentenceLength = 990
	DefaultPruneThreshold    = 0.001
	DefaultBeamSize          = 3
	DefaultLexiconKeyPrefix  = "lexicon"

	// model types
	MaxentModel = "maxent"
	CRFModel    = "crf"
)

type ModelConfig struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Path     string `yaml:"path" json:"path"`
	BeamSize int    `yaml:"beam_size" json:"beam_size"`
}

type LexiconConfig struct {
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix"`
}

type Configuration struct {
	MaxSentenceLength     int           `yaml:"max_sentence_length" json:"max_sentence_length"`
	PruneThreshold        float64       `yaml:"probability_prune_threshold" json:"probability_prune_threshold"`
	EnableSecondarySource bool          `yaml:"enable_secondary_source" json:"enable_secondary_source"`
	OutputTagProbs        bool          `yaml:"output_tag_probs" json:"output_tag_probs"`
	Workers               int           `yaml:"workers" json:"workers"`
	Models                []ModelConfig `yaml:"models" json:"models"`
	Lexicon               LexiconConfig `yaml:"lexicon" json:"lexicon"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		MaxSentenceLength: DefaultMaxSentenceLength,
		PruneThreshold:    DefaultPruneThreshold,
		Workers:           1,
		Lexicon:           LexiconConfig{KeyPrefix: DefaultLexiconKeyPrefix},
	}
}

// LoadConfiguration reads a YAML file on top of DefaultConfiguration.
func LoadConfiguration(filePath string) (Configuration, error) {
	cfg := DefaultConfiguration()
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse configuration %s: %w", filePath, err)
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func (cfg *Configuration) applyDefaults() {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Lexicon.KeyPrefix == "" {
		cfg.Lexicon.KeyPrefix = DefaultLexiconKeyPrefix
	}
	for i := range cfg.Models {
		if cfg.Models[i].BeamSize <= 0 {
			cfg.Models[i].BeamSize = DefaultBeamSize
		}
		if cfg.Models[i].Name == "" {
			cfg.Models[i].Name = fmt.Sprintf("%s-%d", cfg.Models[i].Type, i)
		}
	}
}

func (cfg Configuration) Validate() error {
	if cfg.MaxSentenceLength <= 0 {
		return errors.New("max_sentence_length must be positive")
	}
	if cfg.PruneThreshold < 0 || cfg.PruneThreshold > 1 {
		return errors.New("probability_prune_threshold must be within [0, 1]")
	}
	for _, m := range cfg.Models {
		if m.Type != MaxentModel && m.Type != CRFModel {
			return fmt.Errorf("model %q: wrong model type %q", m.Name, m.Type)
		}
		if m.Path == "" {
			return fmt.Errorf("model %q: path is empty", m.Name)
		}
	}
	return nil
}
