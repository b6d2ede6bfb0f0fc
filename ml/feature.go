package ml

// Feature is an observation feature; its string form is the key looked up in
// the CRF feature index.
type Feature interface {
	String() string
}

// StrFeature renders as "name_value".
type StrFeature struct {
	Name  string
	Value string
}

func (f StrFeature) String() string {
	return f.Name + "_" + f.Value
}

// BoolFeature renders as its name; a false feature should not be emitted.
type BoolFeature struct {
	Name  string
	Value bool
}

func (f BoolFeature) String() string {
	return f.Name
}
