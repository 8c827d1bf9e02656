package configurator

import (
	"errors"
	"fmt"
)

// ErrUnknownMode is returned for an unrecognised view mode name.
var ErrUnknownMode = errors.New("configurator: unknown view mode")

// Group is one of the customizable partitions of the model. Its string
// value doubles as the Config field name.
type Group string

const (
	GroupChasis  Group = "chasis"
	GroupButtons Group = "buttons"
	GroupKnobs   Group = "knobs"
)

// Groups lists every group in display order.
var Groups = []Group{GroupChasis, GroupButtons, GroupKnobs}

// ParseGroup maps a group name to a Group.
func ParseGroup(s string) (Group, error) {
	switch Group(s) {
	case GroupChasis, GroupButtons, GroupKnobs:
		return Group(s), nil
	}
	return "", fmt.Errorf("configurator: unknown group %q", s)
}

// Class is the result of matching a node name against the classifier
// tokens.
type Class int

const (
	Unclassified Class = iota
	ClassChasis
	ClassButton
	ClassKnob
)

func (c Class) String() string {
	switch c {
	case ClassChasis:
		return "chasis"
	case ClassButton:
		return "button"
	case ClassKnob:
		return "knob"
	default:
		return "unclassified"
	}
}

// Group returns the group a class populates.
func (c Class) Group() (Group, bool) {
	switch c {
	case ClassChasis:
		return GroupChasis, true
	case ClassButton:
		return GroupButtons, true
	case ClassKnob:
		return GroupKnobs, true
	}
	return "", false
}

// ViewMode gates which group is editable.
type ViewMode int

const (
	Overview ViewMode = iota
	ModeChasis
	ModeButtons
	ModeKnobs
)

func (m ViewMode) String() string {
	switch m {
	case Overview:
		return "overview"
	case ModeChasis:
		return "chasis"
	case ModeButtons:
		return "buttons"
	case ModeKnobs:
		return "knobs"
	default:
		return fmt.Sprintf("ViewMode(%d)", int(m))
	}
}

// Group returns the editable group of m. Overview has none.
func (m ViewMode) Group() (Group, bool) {
	switch m {
	case ModeChasis:
		return GroupChasis, true
	case ModeButtons:
		return GroupButtons, true
	case ModeKnobs:
		return GroupKnobs, true
	}
	return "", false
}

// ParseViewMode maps a mode name ("overview", "chasis", "buttons",
// "knobs") to a ViewMode.
func ParseViewMode(s string) (ViewMode, error) {
	for _, m := range []ViewMode{Overview, ModeChasis, ModeButtons, ModeKnobs} {
		if m.String() == s {
			return m, nil
		}
	}
	return Overview, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
