// Package trial draws symbols for trials and evaluates answers.
package trial

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/symdigit/internal/symbols"
)

// ErrEmptySubset is returned when there is nothing to draw from.
var ErrEmptySubset = errors.New("alphabet subset is empty")

// ErrDuplicateSymbol is returned when a subset lists a symbol twice.
var ErrDuplicateSymbol = errors.New("alphabet subset repeats a symbol")

// ValidateSubset checks that subset is non-empty, free of duplicates and
// fully mapped by key.
func ValidateSubset(key symbols.Key, subset []symbols.Symbol) error {
	if len(subset) == 0 {
		return ErrEmptySubset
	}
	seen := make(map[symbols.Symbol]struct{}, len(subset))
	for _, s := range subset {
		if _, dup := seen[s]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSymbol, s)
		}
		seen[s] = struct{}{}
		if _, err := key.DigitFor(s); err != nil {
			return err
		}
	}
	return nil
}

// Trial is one symbol shown and awaiting a digit.
type Trial struct {
	Current  symbols.Symbol
	Previous *symbols.Symbol
}

// Sequencer picks the next symbol to display.
type Sequencer struct {
	rnd *rand.Rand
}

// New returns a Sequencer seeded with the current time.
func New() *Sequencer {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Sequencer drawing from src.
func NewWithSource(src rand.Source) *Sequencer {
	return &Sequencer{rnd: rand.New(src)}
}

// Next samples uniformly from subset, excluding prev.
// A repeat is only possible when prev is the only symbol in the subset.
func (s *Sequencer) Next(subset []symbols.Symbol, prev *symbols.Symbol) (symbols.Symbol, error) {
	if len(subset) == 0 {
		return "", ErrEmptySubset
	}
	if prev == nil {
		return subset[s.rnd.Intn(len(subset))], nil
	}
	candidates := make([]symbols.Symbol, 0, len(subset))
	for _, sym := range subset {
		if sym != *prev {
			candidates = append(candidates, sym)
		}
	}
	if len(candidates) == 0 {
		return *prev, nil
	}
	return candidates[s.rnd.Intn(len(candidates))], nil
}

// First draws the opening trial, which has no repeat constraint.
func (s *Sequencer) First(subset []symbols.Symbol) (Trial, error) {
	sym, err := s.Next(subset, nil)
	if err != nil {
		return Trial{}, err
	}
	return Trial{Current: sym}, nil
}

// Advance replaces the current trial with a fresh draw.
func (s *Sequencer) Advance(subset []symbols.Symbol, current Trial) (Trial, error) {
	prev := current.Current
	sym, err := s.Next(subset, &prev)
	if err != nil {
		return Trial{}, err
	}
	return Trial{Current: sym, Previous: &prev}, nil
}
