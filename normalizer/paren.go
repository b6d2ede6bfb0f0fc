// Package normalizer canonicalizes token text before it reaches the scoring sources.
// Bracket characters are rewritten to the Penn Treebank escapes the models were
// trained on; the surface form of a token is never modified.
package normalizer

import "text2phenotype.com/postagger/types"

var ptbBrackets = map[string]string{
	"(": "-LRB-",
	")": "-RRB-",
	"[": "-LSB-",
	"]": "-RSB-",
	"{": "-LCB-",
	"}": "-RCB-",
}

var ptbBracketsReverse = reverse(ptbBrackets)

func reverse(m map[string]string) map[string]string {
	res := make(map[string]string, len(m))
	for k, v := range m {
		res[v] = k
	}
	return res
}

// Normalize maps a token to its scoring-time form. Unknown text passes through.
func Normalize(text string) string {
	if n, ok := ptbBrackets[text]; ok {
		return n
	}
	return text
}

// Restore is the inverse of Normalize.
func Restore(text string) string {
	if r, ok := ptbBracketsReverse[text]; ok {
		return r
	}
	return text
}

func NormalizeSentence(sent *types.Sentence) {
	for _, token := range sent.Tokens {
		token.Normalized = Normalize(token.Surface)
	}
}
