package pipeline

import (
	"github.com/rs/zerolog"
	"text2phenotype.com/postagger/types"
)

// Guard truncates a sentence longer than maxLen to its first maxLen tokens and
// logs a warning. It reports whether the sentence was cut.
func Guard(sent *types.Sentence, maxLen int, log *zerolog.Logger) bool {
	if sent.Len() <= maxLen {
		return false
	}
	log.Warn().
		Int("sentence", sent.Index).
		Int("length", sent.Len()).
		Int("max_sentence_length", maxLen).
		Msg("The sentence is too long. It has been truncated")
	sent.Tokens = sent.Tokens[:maxLen]
	return true
}
