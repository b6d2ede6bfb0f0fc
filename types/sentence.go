package types

type Sentence struct {
	// Index is the position of the sentence in its batch.
	Index  int
	Tokens []*Token
}

func NewSentence(index int, words []string) Sentence {
	tokens := make([]*Token, len(words))
	for i, w := range words {
		tokens[i] = NewToken(w)
	}
	return Sentence{Index: index, Tokens: tokens}
}

func (sent *Sentence) Len() int {
	return len(sent.Tokens)
}

func (sent *Sentence) IsEmpty() bool {
	return len(sent.Tokens) == 0
}

// NormalizedWords returns the scoring-time form of every token, in order.
func (sent *Sentence) NormalizedWords() []string {
	words := make([]string, len(sent.Tokens))
	for i, token := range sent.Tokens {
		words[i] = token.Normalized
	}
	return words
}
