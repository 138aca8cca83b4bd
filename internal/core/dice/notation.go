package dice

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/louisbranch/dicebot/internal/platform/errors"
)

const (
	// DefaultCount is used when the notation omits the dice count.
	DefaultCount = 1
	// DefaultDimension is used when the dimension digits cannot be read.
	DefaultDimension = 10
	// MaxCount is the largest number of dice one request may roll.
	MaxCount = 100
)

var (
	// ErrTooManyDice indicates a count above MaxCount.
	ErrTooManyDice = apperrors.New(apperrors.CodeDiceTooMany, "too many dice")
	// ErrFixMismatch indicates a fix list that is neither one fix nor one per die.
	ErrFixMismatch = apperrors.New(apperrors.CodeDiceFixMismatch, "fix count does not match dice count")
	// ErrInvalidFix indicates a fix token that cannot be parsed.
	ErrInvalidFix = apperrors.New(apperrors.CodeDiceInvalidFix, "invalid fix")
)

// Request is a parsed roll request.
type Request struct {
	Count     int
	Dimension int
	Fixes     []Fix
	Comment   string
}

// FixFor returns the fix for the 1-based die index, or nil when the request
// has no fixes. A single fix applies to every die.
func (r Request) FixFor(index int) *Fix {
	switch {
	case len(r.Fixes) == 0:
		return nil
	case len(r.Fixes) == 1:
		return &r.Fixes[0]
	case index >= 1 && index <= len(r.Fixes):
		return &r.Fixes[index-1]
	default:
		return nil
	}
}

// Validate checks the count limit and the fix-count rule.
func (r Request) Validate() error {
	if r.Count > MaxCount {
		return apperrors.WithMetadata(apperrors.CodeDiceTooMany,
			fmt.Sprintf("count %d exceeds %d", r.Count, MaxCount),
			map[string]string{"Max": strconv.Itoa(MaxCount), "Count": strconv.Itoa(r.Count)})
	}
	return checkFixCount(len(r.Fixes), r.Count)
}

func checkFixCount(fixes, count int) error {
	if fixes == 0 || fixes == 1 || fixes == count {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeDiceFixMismatch,
		fmt.Sprintf("%d fixes for %d dice", fixes, count),
		map[string]string{"Fixes": strconv.Itoa(fixes), "Count": strconv.Itoa(count)})
}

// Parse reads dice notation of the form
//
//	[count]d<dimension>[+n|-n]...[ comment]
//
// The die marker is case-insensitive and digits may be any Unicode decimal
// digit. ok is false, with a nil error, when text is not dice notation at
// all. A non-nil error is a validation failure meant for the requester.
//
// Count and dimension digits that cannot be read as an int (too large, or
// not ASCII) fall back to DefaultCount and DefaultDimension. Fix tokens get
// no such fallback: one bad fix fails the whole parse.
func Parse(text string) (Request, bool, error) {
	n, ok := scan(text)
	if !ok {
		return Request{}, false, nil
	}

	req := Request{
		Count:     atoiOr(n.count, DefaultCount),
		Dimension: atoiOr(n.dimension, DefaultDimension),
		Comment:   strings.TrimSpace(n.comment),
	}
	if req.Count > MaxCount {
		return Request{}, true, req.Validate()
	}

	tokens, err := splitFixes(n.fixes)
	if err != nil {
		return Request{}, true, err
	}
	if err := checkFixCount(len(tokens), req.Count); err != nil {
		return Request{}, true, err
	}
	req.Fixes, err = parseFixTokens(tokens)
	if err != nil {
		return Request{}, true, err
	}
	return req, true, nil
}

// notation holds the raw groups found by scan.
type notation struct {
	count     string
	dimension string
	fixes     string
	comment   string
}

// scan matches ^(\d*)[dD](\d+)((?:[+-]\d+)*)(?: +(.*))?$ where . excludes
// a newline. Every group is greedy and no group can give characters back to
// its neighbour, so a single left-to-right pass is enough.
func scan(text string) (notation, bool) {
	var n notation
	i := skipDigits(text, 0)
	n.count = text[:i]

	if i >= len(text) || (text[i] != 'd' && text[i] != 'D') {
		return notation{}, false
	}
	i++

	start := i
	i = skipDigits(text, i)
	if i == start {
		return notation{}, false
	}
	n.dimension = text[start:i]

	start = i
	for i < len(text) && (text[i] == '+' || text[i] == '-') {
		end := skipDigits(text, i+1)
		if end == i+1 {
			break
		}
		i = end
	}
	n.fixes = text[start:i]

	if i == len(text) {
		return n, true
	}
	if text[i] != ' ' {
		return notation{}, false
	}
	for i < len(text) && text[i] == ' ' {
		i++
	}
	n.comment = text[i:]
	if strings.ContainsRune(n.comment, '\n') {
		return notation{}, false
	}
	return n, true
}

func skipDigits(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isDigit(r) {
			break
		}
		i += size
	}
	return i
}

func isDigit(r rune) bool {
	return unicode.IsDigit(r)
}

func atoiOr(digits string, fallback int) int {
	if digits == "" {
		return fallback
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return fallback
	}
	return n
}
