package dice

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/dicebot/internal/platform/errors"
	"github.com/louisbranch/dicebot/internal/random"
)

// ErrResolution indicates a roll that could not be drawn or computed.
var ErrResolution = apperrors.New(apperrors.CodeDiceResolution, "cannot resolve roll")

// Outcome is one rolled die.
type Outcome struct {
	Index int
	Raw   int
	Fix   *Fix
	Final int
}

// Result holds every outcome of a request and the rendered reply.
type Result struct {
	Request  Request
	Outcomes []Outcome
	Text     string
}

// Resolve rolls every die in request using src and renders the reply.
//
// # Draws
//
// Each die draws exactly one value from src in the inclusive range
// [1, Dimension]. Dice are drawn in order; Outcomes[i].Index is i+1.
//
// # Fixes
//
// With one fix, it applies to every die. With Count fixes, die i uses
// Fixes[i-1]. Final is Raw plus or minus the fix magnitude and is never
// clamped, so it may be negative or exceed Dimension.
//
// # Rendering
//
// A single die renders as "7" or "7 + 3 = 10". With more than one die each
// line is prefixed by renderer.Ordinal. A non-empty comment becomes a
// renderer.Title line followed by a blank line. The comment is HTML-escaped
// before it reaches the renderer.
//
// # Errors
//
//   - Count above MaxCount or a broken fix-count rule returns the same
//     validation errors Parse does.
//   - Count below 1, or a draw the source rejects (Dimension below 1), is a
//     resolution error matching ErrResolution.
func Resolve(request Request, src random.Source, renderer Renderer) (Result, error) {
	if src == nil {
		return Result{}, errors.New("random source is required")
	}
	if renderer == nil {
		renderer = Plain{}
	}
	if err := request.Validate(); err != nil {
		return Result{}, err
	}
	if request.Count < 1 {
		return Result{}, apperrors.WithMetadata(apperrors.CodeDiceResolution,
			fmt.Sprintf("nothing to roll: count %d", request.Count),
			map[string]string{"Count": strconv.Itoa(request.Count)})
	}

	outcomes := make([]Outcome, 0, request.Count)
	lines := make([]string, 0, request.Count)
	for i := 1; i <= request.Count; i++ {
		raw, err := src.IntRange(1, request.Dimension)
		if err != nil {
			return Result{}, apperrors.WrapWithMetadata(apperrors.CodeDiceResolution,
				fmt.Sprintf("draw die %d of d%d", i, request.Dimension),
				map[string]string{"Dimension": strconv.Itoa(request.Dimension)}, err)
		}

		outcome := Outcome{Index: i, Raw: raw, Final: raw}
		if fix := request.FixFor(i); fix != nil {
			final, err := fix.Apply(raw)
			if err != nil {
				return Result{}, err
			}
			applied := *fix
			outcome.Fix = &applied
			outcome.Final = final
		}
		outcomes = append(outcomes, outcome)

		line := formatOutcome(outcome)
		if request.Count > 1 {
			line = renderer.Ordinal(i) + line
		}
		lines = append(lines, line)
	}

	text := strings.Join(lines, "\n")
	if request.Comment != "" {
		text = renderer.Title(html.EscapeString(request.Comment)) + "\n\n" + text
	}
	return Result{
		Request:  request,
		Outcomes: outcomes,
		Text:     text,
	}, nil
}

func formatOutcome(o Outcome) string {
	if o.Fix == nil {
		return strconv.Itoa(o.Raw)
	}
	return fmt.Sprintf("%d %s %d = %d", o.Raw, o.Fix.Sign.Symbol(), o.Fix.Magnitude, o.Final)
}

// Locker grants exclusive use of a random source for one request.
type Locker interface {
	Do(func(random.Source) error) error
}

// Roll parses text and, when it is dice notation, resolves it while holding
// src for the whole request. ok reports whether text was dice notation.
func Roll(text string, src Locker, renderer Renderer) (Result, bool, error) {
	request, ok, err := Parse(text)
	if !ok || err != nil {
		return Result{}, ok, err
	}
	if src == nil {
		return Result{}, true, errors.New("random source is required")
	}

	var result Result
	err = src.Do(func(s random.Source) error {
		var resolveErr error
		result, resolveErr = Resolve(request, s, renderer)
		return resolveErr
	})
	if err != nil {
		return Result{}, true, err
	}
	return result, true, nil
}
