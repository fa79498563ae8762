// Package classify derives the content lane and length tier of a timeline from its title.
package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

type Lane string

const (
	Money   Lane = "money"
	MV      Lane = "mv"
	Fashion Lane = "fashion"
	Talking Lane = "talking"
	DIL     Lane = "dil"
	Cook    Lane = "cook"

	UnknownLane Lane = "unknown"
)

type Tier string

const (
	Short Tier = "12s"
	Mid   Tier = "22s"
	Upper Tier = "30s"

	UnknownTier Tier = "unknown"
)

const (
	DefaultLane = Money
	DefaultTier = Upper
)

// Lanes lists every lane in classification priority order.
var Lanes = []Lane{Money, MV, Fashion, Talking, DIL, Cook}

// Tiers lists every tier, shortest first.
var Tiers = []Tier{Short, Mid, Upper}

// Context is recomputed from the title every time it is needed.
type Context struct {
	Lane Lane
	Tier Tier
}

func (c Context) String() string {
	return string(c.Lane) + "/" + string(c.Tier)
}

type keyword[T any] struct {
	token string
	value T
}

// Lane keywords are tried in the same order as the principle packs.
var laneKeywords = []keyword[Lane]{
	{"money", Money},
	{"mv master", MV},
	{"music video", MV},
	{"music-video", MV},
	{"segment", MV},
	{"th master", Talking},
	{"talking", Talking},
	{"interview", Talking},
	{"fashion", Fashion},
	{"look", Fashion},
	{"dil master", DIL},
	{"day in the life", DIL},
	{"chapter", DIL},
	{"cook-up", Cook},
	{"cook up", Cook},
	{"section", Cook},
}

// Explicit length tokens win over the inferred format hints.
var tierKeywords = []keyword[Tier]{
	{"12s", Short},
	{"22s", Mid},
	{"30s", Upper},
}

var tierHints = []keyword[Tier]{
	{"(ig short", Short},
	{"(ig mid", Mid},
	{"(ig upper", Upper},
}

var folder = cases.Fold()

var dashes = strings.NewReplacer("—", "-", "–", "-", "‒", "-", "−", "-")

// Normalize case-folds a title, maps dash glyphs to '-' and collapses whitespace.
func Normalize(title string) string {
	t := folder.String(title)
	t = dashes.Replace(t)
	return strings.Join(strings.Fields(t), " ")
}

// Classify returns the (lane, tier) for a timeline title. Titles without a lane or tier
// keyword fall back to DefaultLane and DefaultTier; a blank title yields unknown for both.
func Classify(title string) Context {
	t := Normalize(title)
	if t == "" {
		return Context{Lane: UnknownLane, Tier: UnknownTier}
	}
	return Context{Lane: lane(t), Tier: tier(t)}
}

func lane(t string) Lane {
	if l, ok := match(t, laneKeywords); ok {
		return l
	}
	return DefaultLane
}

func tier(t string) Tier {
	if tr, ok := match(t, tierKeywords); ok {
		return tr
	}
	if tr, ok := match(t, tierHints); ok {
		return tr
	}
	return DefaultTier
}

func match[T any](t string, kws []keyword[T]) (T, bool) {
	for _, kw := range kws {
		if strings.Contains(t, kw.token) {
			return kw.value, true
		}
	}
	var zero T
	return zero, false
}

// IsMaster reports whether a title names a lane master timeline ("Money Master — 12s").
// Only the whole word counts, so "Mastering pass" is a working timeline.
func IsMaster(title string) bool {
	words := strings.FieldsFunc(Normalize(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if w == "master" {
			return true
		}
	}
	return false
}
