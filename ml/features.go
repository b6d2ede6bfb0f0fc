package ml

import (
	"strings"
	"unicode"

	"text2phenotype.com/postagger/types"
)

const (
	affixLength = 3

	boundaryBegin = "<s>"
	boundaryEnd   = "</s>"
)

// TokenFeatures builds the observation features of the word at index i.
// Boolean features are only emitted when they hold.
func TokenFeatures(words []string, i int) []Feature {
	word := words[i]
	lower := strings.ToLower(word)

	feats := []Feature{
		BoolFeature{Name: "bias", Value: true},
		StrFeature{Name: "w", Value: lower},
		StrFeature{Name: "shape", Value: compressShape(types.GetShape(word))},
	}

	runes := []rune(lower)
	for l := 1; l <= affixLength && l <= len(runes); l++ {
		feats = append(feats,
			StrFeature{Name: "suf", Value: string(runes[len(runes)-l:])},
			StrFeature{Name: "pre", Value: string(runes[:l])},
		)
	}

	prev, next := boundaryBegin, boundaryEnd
	if i > 0 {
		prev = strings.ToLower(words[i-1])
	}
	if i < len(words)-1 {
		next = strings.ToLower(words[i+1])
	}
	feats = append(feats,
		StrFeature{Name: "p", Value: prev},
		StrFeature{Name: "n", Value: next},
	)

	if strings.ContainsRune(word, '-') {
		feats = append(feats, BoolFeature{Name: "hyphen", Value: true})
	}
	if hasRune(word, unicode.IsDigit) {
		feats = append(feats, BoolFeature{Name: "digit", Value: true})
	}
	if first := []rune(word); len(first) > 0 && unicode.IsUpper(first[0]) {
		feats = append(feats, BoolFeature{Name: "cap", Value: true})
	}
	return feats
}

func SentenceFeatures(words []string) [][]Feature {
	res := make([][]Feature, len(words))
	for i := range words {
		res[i] = TokenFeatures(words, i)
	}
	return res
}

// compressShape collapses runs of the same shape class, "Xxxxdd" -> "Xxd".
func compressShape(shape string) string {
	var sb strings.Builder
	var last rune
	for _, r := range shape {
		if r != last {
			sb.WriteRune(r)
			last = r
		}
	}
	return sb.String()
}

func hasRune(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if pred(r) {
			return true
		}
	}
	return false
}
