package dice

import (
	"fmt"
	"math"
	"strconv"

	apperrors "github.com/louisbranch/dicebot/internal/platform/errors"
)

// FixSign selects whether a fix adds to or subtracts from a die.
type FixSign int

const (
	// FixAdd adds the magnitude to the raw value.
	FixAdd FixSign = iota + 1
	// FixSub subtracts the magnitude from the raw value.
	FixSub
)

// Symbol returns "+" or "-".
func (s FixSign) Symbol() string {
	if s == FixSub {
		return "-"
	}
	return "+"
}

// Fix is a signed adjustment applied to a die's raw value.
type Fix struct {
	Sign      FixSign
	Magnitude int
}

// Add returns a fix that adds n.
func Add(n int) Fix { return Fix{Sign: FixAdd, Magnitude: n} }

// Sub returns a fix that subtracts n.
func Sub(n int) Fix { return Fix{Sign: FixSub, Magnitude: n} }

func (f Fix) String() string {
	return f.Sign.Symbol() + strconv.Itoa(f.Magnitude)
}

// Apply returns raw adjusted by the fix. The result is not clamped and may
// be negative; it fails only when the sum does not fit in an int.
func (f Fix) Apply(raw int) (int, error) {
	switch f.Sign {
	case FixAdd:
		if raw > 0 && f.Magnitude > math.MaxInt-raw {
			return 0, apperrors.New(apperrors.CodeDiceResolution, fmt.Sprintf("fix %s overflows %d", f, raw))
		}
		return raw + f.Magnitude, nil
	case FixSub:
		if raw < 0 && f.Magnitude > raw-math.MinInt {
			return 0, apperrors.New(apperrors.CodeDiceResolution, fmt.Sprintf("fix %s overflows %d", f, raw))
		}
		return raw - f.Magnitude, nil
	default:
		return 0, apperrors.New(apperrors.CodeDiceResolution, fmt.Sprintf("fix has no sign: %d", f.Sign))
	}
}

// ParseFix parses one token such as "+3" or "-50".
func ParseFix(token string) (Fix, error) {
	if token == "" {
		return Fix{}, invalidFix(token, "empty fix")
	}
	var sign FixSign
	switch token[0] {
	case '+':
		sign = FixAdd
	case '-':
		sign = FixSub
	default:
		return Fix{}, invalidFix(token, fmt.Sprintf("invalid sign character %q", token[0]))
	}
	digits := token[1:]
	if digits == "" {
		return Fix{}, invalidFix(token, "missing number after sign")
	}
	for _, r := range digits {
		if r == '+' || r == '-' {
			return Fix{}, invalidFix(token, "sign inside number")
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Fix{}, apperrors.WrapWithMetadata(apperrors.CodeDiceInvalidFix, fmt.Sprintf("parse fix %q", token), map[string]string{"Fix": token}, err)
	}
	return Fix{Sign: sign, Magnitude: n}, nil
}

// ParseFixes splits a concatenated suffix like "+30-50+40" at each sign and
// parses every token in order. A sign with no digits after it is rejected.
func ParseFixes(suffix string) ([]Fix, error) {
	tokens, err := splitFixes(suffix)
	if err != nil {
		return nil, err
	}
	return parseFixTokens(tokens)
}

func parseFixTokens(tokens []string) ([]Fix, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	fixes := make([]Fix, 0, len(tokens))
	for _, token := range tokens {
		fix, err := ParseFix(token)
		if err != nil {
			return nil, err
		}
		fixes = append(fixes, fix)
	}
	return fixes, nil
}

// splitFixes scans left to right, starting a new token at every sign.
func splitFixes(suffix string) ([]string, error) {
	var tokens []string
	start := -1
	for i, r := range suffix {
		switch {
		case r == '+' || r == '-':
			if start >= 0 {
				if i-start == 1 {
					return nil, invalidFix(suffix[start:i], "missing number after sign")
				}
				tokens = append(tokens, suffix[start:i])
			}
			start = i
		case isDigit(r):
			if start < 0 {
				return nil, invalidFix(suffix, "fix must start with a sign")
			}
		default:
			return nil, invalidFix(suffix, fmt.Sprintf("unexpected character %q", r))
		}
	}
	if start >= 0 {
		if len(suffix)-start == 1 {
			return nil, invalidFix(suffix[start:], "missing number after sign")
		}
		tokens = append(tokens, suffix[start:])
	}
	return tokens, nil
}

func invalidFix(token, reason string) error {
	return apperrors.WithMetadata(apperrors.CodeDiceInvalidFix, fmt.Sprintf("fix %q: %s", token, reason), map[string]string{"Fix": token})
}
