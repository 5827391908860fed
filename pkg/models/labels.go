package models

import (
	"fmt"
	"strings"
)

// EntityType is one of the address components the model is trained to tag.
type EntityType string

const (
	EntityNumber   EntityType = "NUMBER"
	EntityStreet   EntityType = "STREET"
	EntityWard     EntityType = "WARD"
	EntityDistrict EntityType = "DISTRICT"
	EntityCity     EntityType = "CITY"
)

// EntityTypes is the closed set of entity types, in canonical order.
var EntityTypes = []EntityType{
	EntityNumber,
	EntityStreet,
	EntityWard,
	EntityDistrict,
	EntityCity,
}

// ParseEntityType validates s against the closed entity type set.
func ParseEntityType(s string) (EntityType, error) {
	for _, et := range EntityTypes {
		if s == string(et) {
			return et, nil
		}
	}
	return "", NewUnknownLabelError(s)
}

// LabelPrefix is the BIO position marker of a label.
type LabelPrefix int

const (
	PrefixOutside LabelPrefix = iota
	PrefixBegin
	PrefixInside
)

// Label is a decoded BIO tag: O, or B-/I- plus an entity type.
// The zero value is the outside label.
type Label struct {
	Prefix LabelPrefix
	Type   EntityType
}

// LabelOutside is the O tag.
var LabelOutside = Label{Prefix: PrefixOutside}

// ParseLabel parses a tag name such as "O", "B-STREET" or "I-CITY".
func ParseLabel(s string) (Label, error) {
	if s == "O" {
		return LabelOutside, nil
	}
	prefix, name, found := strings.Cut(s, "-")
	if !found {
		return Label{}, NewUnknownLabelError(s)
	}
	et, err := ParseEntityType(name)
	if err != nil {
		return Label{}, NewUnknownLabelError(s)
	}
	switch prefix {
	case "B":
		return Label{Prefix: PrefixBegin, Type: et}, nil
	case "I":
		return Label{Prefix: PrefixInside, Type: et}, nil
	default:
		return Label{}, NewUnknownLabelError(s)
	}
}

func (l Label) String() string {
	switch l.Prefix {
	case PrefixOutside:
		return "O"
	case PrefixBegin:
		return "B-" + string(l.Type)
	case PrefixInside:
		return "I-" + string(l.Type)
	}
	return fmt.Sprintf("invalid(%d)", l.Prefix)
}

// IsOutside reports whether the label is the O tag.
func (l Label) IsOutside() bool {
	return l.Prefix == PrefixOutside
}

// LabelSet is the ordered label enumeration shared by the tag decoder and the
// entity assembler. The order must match the class order of the model's output
// layer; it is the single source of truth for class index <-> label mapping.
type LabelSet struct {
	labels []Label
	names  []string
}

// NewLabelSet builds a LabelSet from class names in model output order.
// It fails with an UnknownLabelError if any name falls outside the closed
// label enumeration.
func NewLabelSet(names []string) (*LabelSet, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("label set must not be empty")
	}
	labels := make([]Label, len(names))
	for i, name := range names {
		label, err := ParseLabel(name)
		if err != nil {
			return nil, err
		}
		labels[i] = label
	}
	return &LabelSet{labels: labels, names: names}, nil
}

// DefaultLabelSet returns the compiled-in label order used when the model
// directory carries no config.json: O first, then B-/I- pairs in canonical
// entity type order.
func DefaultLabelSet() *LabelSet {
	names := []string{"O"}
	for _, et := range EntityTypes {
		names = append(names, "B-"+string(et), "I-"+string(et))
	}
	ls, err := NewLabelSet(names)
	if err != nil {
		// The canonical names always parse.
		panic(err)
	}
	return ls
}

// Size returns the number of classes, i.e. the expected score vector length.
func (s *LabelSet) Size() int {
	return len(s.labels)
}

// At returns the label for class index i.
func (s *LabelSet) At(i int) Label {
	return s.labels[i]
}

// Names returns the class names in model output order.
func (s *LabelSet) Names() []string {
	return s.names
}
