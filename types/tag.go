package types

// UnknownTag is how an unresolved tag is rendered.
const UnknownTag = "unknown"

// Tag is either unresolved (the zero value) or holds a label from the tagset.
type Tag struct {
	label    string
	resolved bool
}

func NewTag(label string) Tag {
	return Tag{label: label, resolved: true}
}

func (tag Tag) IsResolved() bool {
	return tag.resolved
}

// Label returns the tag label and whether the tag is resolved.
func (tag Tag) Label() (string, bool) {
	return tag.label, tag.resolved
}

func (tag Tag) String() string {
	if !tag.resolved {
		return UnknownTag
	}
	return tag.label
}

func (tag Tag) MarshalText() ([]byte, error) {
	return []byte(tag.String()), nil
}

// UnmarshalText reads the sentinel back as an unresolved tag.
func (tag *Tag) UnmarshalText(text []byte) error {
	if string(text) == UnknownTag {
		*tag = Tag{}
		return nil
	}
	*tag = NewTag(string(text))
	return nil
}
