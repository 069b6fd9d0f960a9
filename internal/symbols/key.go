// Package symbols defines the symbol alphabet and its fixed digit key.
package symbols

import (
	"errors"
	"fmt"
)

// ErrInvalidSymbol is returned for symbols outside the configured alphabet.
var ErrInvalidSymbol = errors.New("invalid symbol")

// Symbol is an opaque token from the alphabet.
type Symbol string

// Entry binds a symbol to its display glyph and digit.
type Entry struct {
	Symbol Symbol
	Glyph  string
	Digit  int
}

// Key is the immutable symbol to digit bijection shared by tutorial and session.
type Key struct {
	entries []Entry
	index   map[Symbol]int
}

// NewKey validates entries and builds a Key.
func NewKey(entries []Entry) (Key, error) {
	if len(entries) == 0 {
		return Key{}, fmt.Errorf("key must contain at least one symbol")
	}
	index := make(map[Symbol]int, len(entries))
	seenDigits := make(map[int]Symbol, len(entries))
	for i, e := range entries {
		if e.Symbol == "" {
			return Key{}, fmt.Errorf("entry %d: symbol is empty", i)
		}
		if e.Digit < 0 || e.Digit > 9 {
			return Key{}, fmt.Errorf("symbol %s: digit %d out of range 0-9", e.Symbol, e.Digit)
		}
		if _, ok := index[e.Symbol]; ok {
			return Key{}, fmt.Errorf("symbol %s: defined twice", e.Symbol)
		}
		if other, ok := seenDigits[e.Digit]; ok {
			return Key{}, fmt.Errorf("symbol %s: digit %d already mapped to %s", e.Symbol, e.Digit, other)
		}
		index[e.Symbol] = i
		seenDigits[e.Digit] = e.Symbol
	}
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	for i := range copied {
		if copied[i].Glyph == "" {
			copied[i].Glyph = string(copied[i].Symbol)
		}
	}
	return Key{entries: copied, index: index}, nil
}

// DigitFor returns the digit mapped to a symbol.
func (k Key) DigitFor(s Symbol) (int, error) {
	i, ok := k.index[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, string(s))
	}
	return k.entries[i].Digit, nil
}

// Glyph returns the display glyph for a symbol, or the token itself if unknown.
func (k Key) Glyph(s Symbol) string {
	i, ok := k.index[s]
	if !ok {
		return string(s)
	}
	return k.entries[i].Glyph
}

// Len returns the alphabet size.
func (k Key) Len() int {
	return len(k.entries)
}

// Entries returns a copy of the key entries in alphabet order.
func (k Key) Entries() []Entry {
	out := make([]Entry, len(k.entries))
	copy(out, k.entries)
	return out
}

// Subset returns the first n symbols of the alphabet.
func (k Key) Subset(n int) ([]Symbol, error) {
	if n < 1 || n > len(k.entries) {
		return nil, fmt.Errorf("subset size %d out of range 1-%d", n, len(k.entries))
	}
	out := make([]Symbol, n)
	for i := 0; i < n; i++ {
		out[i] = k.entries[i].Symbol
	}
	return out, nil
}

// Digits returns the digits mapped by the first n symbols, in alphabet order.
func (k Key) Digits(n int) []int {
	if n > len(k.entries) {
		n = len(k.entries)
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, k.entries[i].Digit)
	}
	return out
}
