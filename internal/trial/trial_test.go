package trial

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/symdigit/internal/symbols"
)

func classicKey(t *testing.T) symbols.Key {
	t.Helper()
	v, err := symbols.LookupVariant("classic")
	require.NoError(t, err)
	key, err := v.Key()
	require.NoError(t, err)
	return key
}

func TestNextNeverRepeats(t *testing.T) {
	key := classicKey(t)
	for n := 2; n <= key.Len(); n++ {
		subset, err := key.Subset(n)
		require.NoError(t, err)
		seq := NewWithSource(rand.NewSource(int64(n)))
		cur, err := seq.First(subset)
		require.NoError(t, err)
		for i := 0; i < 2000; i++ {
			next, err := seq.Advance(subset, cur)
			require.NoError(t, err)
			if next.Current == cur.Current {
				t.Fatalf("subset %d: repeated %s at draw %d", n, cur.Current, i)
			}
			require.NotNil(t, next.Previous)
			assert.Equal(t, cur.Current, *next.Previous)
			cur = next
		}
	}
}

func TestNextCoversSubset(t *testing.T) {
	key := classicKey(t)
	subset, err := key.Subset(7)
	require.NoError(t, err)
	seq := NewWithSource(rand.NewSource(42))
	counts := map[symbols.Symbol]int{}
	var prev *symbols.Symbol
	for i := 0; i < 7000; i++ {
		sym, err := seq.Next(subset, prev)
		require.NoError(t, err)
		counts[sym]++
		p := sym
		prev = &p
	}
	assert.Len(t, counts, 7)
	for sym, c := range counts {
		assert.Greater(t, c, 700, "symbol %s drawn too rarely", sym)
	}
}

func TestNextSingleSymbolRepeats(t *testing.T) {
	seq := NewWithSource(rand.NewSource(1))
	subset := []symbols.Symbol{"ONLY"}
	prev := symbols.Symbol("ONLY")
	sym, err := seq.Next(subset, &prev)
	require.NoError(t, err)
	assert.Equal(t, prev, sym)
}

func TestNextEmptySubset(t *testing.T) {
	seq := NewWithSource(rand.NewSource(1))
	_, err := seq.Next(nil, nil)
	assert.True(t, errors.Is(err, ErrEmptySubset))
}

func TestEvaluateIsPure(t *testing.T) {
	key := classicKey(t)
	tr := Trial{Current: "SEMBOL1"}

	first, err := Evaluate(key, tr, 5)
	require.NoError(t, err)
	second, err := Evaluate(key, tr, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, first.Correct)
	assert.Equal(t, 5, first.Expected)

	wrong, err := Evaluate(key, tr, 4)
	require.NoError(t, err)
	assert.False(t, wrong.Correct)
	assert.Equal(t, 5, wrong.Expected)
	assert.Equal(t, 4, wrong.Submitted)
}

func TestEvaluateInvalidSymbol(t *testing.T) {
	key := classicKey(t)
	_, err := Evaluate(key, Trial{Current: "NOPE"}, 1)
	assert.True(t, errors.Is(err, symbols.ErrInvalidSymbol))
}

func TestNextSubsetOfOnlyPreviousTerminates(t *testing.T) {
	seq := NewWithSource(rand.NewSource(1))
	prev := symbols.Symbol("A")
	sym, err := seq.Next([]symbols.Symbol{"A", "A"}, &prev)
	require.NoError(t, err)
	assert.Equal(t, prev, sym)

	for i := 0; i < 100; i++ {
		sym, err = seq.Next([]symbols.Symbol{"A", "A", "B"}, &prev)
		require.NoError(t, err)
		assert.Equal(t, symbols.Symbol("B"), sym)
	}
}

func TestValidateSubset(t *testing.T) {
	key := classicKey(t)
	subset, err := key.Subset(3)
	require.NoError(t, err)
	assert.NoError(t, ValidateSubset(key, subset))

	assert.ErrorIs(t, ValidateSubset(key, nil), ErrEmptySubset)
	assert.ErrorIs(t, ValidateSubset(key, []symbols.Symbol{subset[0], subset[1], subset[0]}), ErrDuplicateSymbol)
	assert.ErrorIs(t, ValidateSubset(key, []symbols.Symbol{"NOPE"}), symbols.ErrInvalidSymbol)
}
