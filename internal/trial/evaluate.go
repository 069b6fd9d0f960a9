package trial

import "github.com/verte-zerg/symdigit/internal/symbols"

// Verdict is the correctness result of one submitted digit.
type Verdict struct {
	Symbol    symbols.Symbol
	Correct   bool
	Expected  int
	Submitted int
}

// Evaluate compares a submitted digit with the key's digit for the trial symbol.
func Evaluate(key symbols.Key, t Trial, digit int) (Verdict, error) {
	expected, err := key.DigitFor(t.Current)
	if err != nil {
		return Verdict{}, err
	}
	return Verdict{
		Symbol:    t.Current,
		Correct:   digit == expected,
		Expected:  expected,
		Submitted: digit,
	}, nil
}
