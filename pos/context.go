package pos

import (
	"strings"

	"text2phenotype.com/postagger/types"
)

const (
	prefixLength = 4
	suffixLength = 4

	sentenceBegin = "*SB*"
	sentenceEnd   = "*SE*"
)

type ContextGenerator interface {
	GetContext(index int, words []string, priorDecisions []string) []string
}

type defaultContextGenerator struct {
	// known reports whether a word has its own w= feature; unknown words get
	// affix and shape features instead.
	known func(word string) bool
}

func (g *defaultContextGenerator) GetContext(index int, words []string, tags []string) []string {
	var nextnext, prevprev string
	var tagprev, tagprevprev string

	next := sentenceEnd
	prev := sentenceBegin

	lex := words[index]
	if len(words) > index+1 {
		next = words[index+1]
		nextnext = sentenceEnd
		if len(words) > index+2 {
			nextnext = words[index+2]
		}
	}

	if index > 0 {
		prev = words[index-1]
		prevprev = sentenceBegin
		tagprev = tags[index-1]

		if index >= 2 {
			prevprev = words[index-2]
			tagprevprev = tags[index-2]
		}
	}

	contexts := []string{"default", "w=" + lex}

	if !g.known(lex) {
		for _, suf := range getSuffixes(lex) {
			contexts = append(contexts, "suf="+suf)
		}

		for _, pref := range getPrefixes(lex) {
			contexts = append(contexts, "pre="+pref)
		}

		if strings.ContainsRune(lex, '-') {
			contexts = append(contexts, "h")
		}

		shape := types.GetShape(lex)
		if strings.ContainsRune(shape, 'X') {
			contexts = append(contexts, "c")
		}

		if strings.ContainsRune(shape, 'd') {
			contexts = append(contexts, "d")
		}
	}

	contexts = append(contexts, "p="+prev)

	if len(tagprev) > 0 {
		contexts = append(contexts, "t="+tagprev)
	}

	if prevprev != "" {
		contexts = append(contexts, "pp="+prevprev)

		if len(tagprevprev) > 0 {
			contexts = append(contexts, "t2="+tagprevprev+","+tagprev)
		}
	}

	contexts = append(contexts, "n="+next)
	if nextnext != "" {
		contexts = append(contexts, "nn="+nextnext)
	}

	return contexts
}

func getPrefixes(lex string) []string {
	prefs := make([]string, prefixLength)
	for li := 0; li < prefixLength; li++ {
		idx := len(lex)
		if idx > li+1 {
			idx = li + 1
		}
		prefs[li] = lex[:idx]
	}
	return prefs
}

func getSuffixes(lex string) []string {
	suffs := make([]string, suffixLength)
	for li := 0; li < suffixLength; li++ {
		idx := len(lex) - li - 1
		if idx < 0 {
			idx = 0
		}

		suffs[li] = lex[idx:]
	}
	return suffs
}

func NewContextGenerator(model Model) ContextGenerator {
	return &defaultContextGenerator{
		known: func(word string) bool {
			_, ok := model.PMap["w="+word]
			return ok
		},
	}
}
