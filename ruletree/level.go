package ruletree

import (
	"cmp"
	"fmt"

	"github.com/npillmayer/cascade/dom/style"
)

// ShadowCascadeOrder distinguishes author rules coming from different shadow
// trees. Rules of the element's own tree have order 0; rules from inner
// shadow trees have negative orders. For normal declarations a higher order
// wins; the important author level is stored with the order negated, so
// that inner trees win there.
type ShadowCascadeOrder int32

// LevelKind enumerates the variants of CascadeLevel.
type LevelKind uint8

// Cascade level variants.
const (
	KindUANormal LevelKind = iota
	KindUserNormal
	KindPresHints
	KindAuthorNormal
	KindStyleAttributeNormal
	KindSMILOverride
	KindAnimations
	KindAuthorImportant
	KindStyleAttributeImportant
	KindUserImportant
	KindUAImportant
	KindTransitions
	kindCount
)

// Origin is the cascade origin of a level.
type Origin uint8

// Cascade origins.
const (
	OriginUserAgent Origin = iota
	OriginUser
	OriginAuthor
)

func (o Origin) String() string {
	switch o {
	case OriginUserAgent:
		return "user-agent"
	case OriginUser:
		return "user"
	}
	return "author"
}

// Importance is the importance class of declarations.
type Importance uint8

// Importance classes.
const (
	Normal Importance = iota
	Important
)

// levelProps is one row of the cascade level table.
type levelProps struct {
	name      string
	rank      int
	important bool
	origin    Origin
	uaOrUser  bool // read with the user-agent/user guard
	animation bool
	unique    bool // at most one rule per element
}

// levelTable is the total order of cascade levels, in ascending priority.
// Rank values are what comparisons use; the order of the LevelKind
// constants does not matter.
var levelTable = [kindCount]levelProps{
	KindUANormal:                {"UANormal", 0, false, OriginUserAgent, true, false, false},
	KindUserNormal:              {"UserNormal", 1, false, OriginUser, true, false, false},
	KindPresHints:               {"PresHints", 2, false, OriginAuthor, false, false, false},
	KindAuthorNormal:            {"AuthorNormal", 3, false, OriginAuthor, false, false, false},
	KindStyleAttributeNormal:    {"StyleAttributeNormal", 4, false, OriginAuthor, false, false, true},
	KindSMILOverride:            {"SMILOverride", 5, false, OriginAuthor, false, true, true},
	KindAnimations:              {"Animations", 6, false, OriginAuthor, false, true, true},
	KindAuthorImportant:         {"AuthorImportant", 7, true, OriginAuthor, false, false, false},
	KindStyleAttributeImportant: {"StyleAttributeImportant", 8, true, OriginAuthor, false, false, true},
	KindUserImportant:           {"UserImportant", 9, true, OriginUser, true, false, false},
	KindUAImportant:             {"UAImportant", 10, true, OriginUserAgent, true, false, false},
	KindTransitions:             {"Transitions", 11, false, OriginAuthor, false, true, true},
}

// CascadeLevel is the position of a rule in the cascade. The two author
// levels carry a shadow cascade order, all other levels are plain.
//
// CascadeLevel is comparable and may be used as a map key. Ordering has to
// use Compare (or Less).
type CascadeLevel struct {
	kind  LevelKind
	order ShadowCascadeOrder
}

// Plain cascade levels.
var (
	UANormal                = CascadeLevel{kind: KindUANormal}
	UserNormal              = CascadeLevel{kind: KindUserNormal}
	PresHints               = CascadeLevel{kind: KindPresHints}
	StyleAttributeNormal    = CascadeLevel{kind: KindStyleAttributeNormal}
	SMILOverride            = CascadeLevel{kind: KindSMILOverride}
	Animations              = CascadeLevel{kind: KindAnimations}
	StyleAttributeImportant = CascadeLevel{kind: KindStyleAttributeImportant}
	UserImportant           = CascadeLevel{kind: KindUserImportant}
	UAImportant             = CascadeLevel{kind: KindUAImportant}
	Transitions             = CascadeLevel{kind: KindTransitions}
)

// AuthorNormal is the level of normal author declarations from a tree with
// the given shadow cascade order.
func AuthorNormal(order ShadowCascadeOrder) CascadeLevel {
	return CascadeLevel{kind: KindAuthorNormal, order: order}
}

// AuthorImportant is the level of important author declarations. Note that
// the rule tree stores important author rules with their shadow cascade
// order negated.
func AuthorImportant(order ShadowCascadeOrder) CascadeLevel {
	return CascadeLevel{kind: KindAuthorImportant, order: order}
}

// Kind returns the variant of the level.
func (l CascadeLevel) Kind() LevelKind {
	return l.kind
}

// ShadowCascadeOrder returns the shadow cascade order of author levels and
// 0 for all other levels.
func (l CascadeLevel) ShadowCascadeOrder() ShadowCascadeOrder {
	return l.order
}

func (l CascadeLevel) props() levelProps {
	assertThat(l.kind < kindCount, "invalid cascade level kind %d", l.kind)
	return levelTable[l.kind]
}

// Rank returns the position of the level's variant in the cascade order.
func (l CascadeLevel) Rank() int {
	return l.props().rank
}

// Compare returns -1, 0 or +1, depending on whether l has lower, equal or
// higher priority than other.
func (l CascadeLevel) Compare(other CascadeLevel) int {
	if c := cmp.Compare(l.Rank(), other.Rank()); c != 0 {
		return c
	}
	return cmp.Compare(l.order, other.order)
}

// Less is true if l has lower priority than other.
func (l CascadeLevel) Less(other CascadeLevel) bool {
	return l.Compare(other) < 0
}

// IsImportant is true for the levels of !important declarations.
func (l CascadeLevel) IsImportant() bool {
	return l.props().important
}

// Importance returns the class of declarations which are effective at this level.
func (l CascadeLevel) Importance() Importance {
	if l.IsImportant() {
		return Important
	}
	return Normal
}

// Origin returns the cascade origin of the level.
func (l CascadeLevel) Origin() Origin {
	return l.props().origin
}

// IsAnimation is true for levels driven by animations and transitions.
func (l CascadeLevel) IsAnimation() bool {
	return l.props().animation
}

// IsUniquePerElement is true for levels where at most one rule may exist on
// a path. Only these levels are eligible for UpdateRuleAtLevel.
func (l CascadeLevel) IsUniquePerElement() bool {
	return l.props().unique
}

// Guard selects the read guard for declaration blocks at this level.
func (l CascadeLevel) Guard(guards *style.Guards) *style.ReadGuard {
	if guards == nil {
		return nil
	}
	if l.props().uaOrUser {
		return guards.UAOrUser
	}
	return guards.Author
}

func (l CascadeLevel) String() string {
	switch l.kind {
	case KindAuthorNormal, KindAuthorImportant:
		return fmt.Sprintf("%s(%d)", l.props().name, l.order)
	}
	return l.props().name
}
