package pos

type SequenceValidator interface {
	ValidSequence(i int, words []string, outcome string) bool
}

type defaultSequenceValidator struct {
	tagDictionary map[string]map[string]bool
}

func (g defaultSequenceValidator) ValidSequence(i int, words []string, outcome string) bool {
	if g.tagDictionary == nil {
		return true
	}
	tags, res := g.tagDictionary[words[i]]
	if !res {
		return true
	}
	return tags[outcome]
}

func NewSequenceValidator(tagDictionary map[string][]string) SequenceValidator {
	if len(tagDictionary) == 0 {
		return defaultSequenceValidator{}
	}
	dict := make(map[string]map[string]bool, len(tagDictionary))
	for word, tags := range tagDictionary {
		set := make(map[string]bool, len(tags))
		for _, tag := range tags {
			set[tag] = true
		}
		dict[word] = set
	}
	return defaultSequenceValidator{tagDictionary: dict}
}
