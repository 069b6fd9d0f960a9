package symbols

import (
	"fmt"
	"sort"
	"time"
)

// Variant describes one product configuration of the test.
type Variant struct {
	Name             string
	Entries          []Entry
	PlaySubset       int
	PracticeSubset   int
	Duration         time.Duration
	TutorialRequired int
}

var classicEntries = []Entry{
	{Symbol: "SEMBOL1", Glyph: "◆", Digit: 5},
	{Symbol: "SEMBOL2", Glyph: "▲", Digit: 6},
	{Symbol: "SEMBOL3", Glyph: "●", Digit: 3},
	{Symbol: "SEMBOL4", Glyph: "■", Digit: 1},
	{Symbol: "SEMBOL5", Glyph: "★", Digit: 7},
	{Symbol: "SEMBOL6", Glyph: "✚", Digit: 4},
	{Symbol: "SEMBOL7", Glyph: "◐", Digit: 2},
}

var extendedEntries = append(append([]Entry(nil), classicEntries...),
	Entry{Symbol: "SEMBOL8", Glyph: "♠", Digit: 9},
	Entry{Symbol: "SEMBOL9", Glyph: "♣", Digit: 0},
	Entry{Symbol: "SEMBOL10", Glyph: "♥", Digit: 8},
)

var variants = map[string]Variant{
	"classic": {
		Name:             "classic",
		Entries:          classicEntries,
		PlaySubset:       7,
		PracticeSubset:   7,
		Duration:         60 * time.Second,
		TutorialRequired: 10,
	},
	"extended": {
		Name:             "extended",
		Entries:          extendedEntries,
		PlaySubset:       8,
		PracticeSubset:   8,
		Duration:         90 * time.Second,
		TutorialRequired: 10,
	},
}

// DefaultVariant is used when no variant is configured.
const DefaultVariant = "classic"

// LookupVariant returns a built-in variant by name.
func LookupVariant(name string) (Variant, error) {
	v, ok := variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("unknown variant %q (available: %v)", name, VariantNames())
	}
	v.Entries = append([]Entry(nil), v.Entries...)
	return v, nil
}

// VariantNames lists built-in variant names.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Key builds the variant's key.
func (v Variant) Key() (Key, error) {
	return NewKey(v.Entries)
}

// WithEntries replaces the alphabet and clamps subsets to the new size.
func (v Variant) WithEntries(entries []Entry) Variant {
	v.Entries = append([]Entry(nil), entries...)
	if v.PlaySubset > len(entries) {
		v.PlaySubset = len(entries)
	}
	if v.PracticeSubset > len(entries) {
		v.PracticeSubset = len(entries)
	}
	return v
}
