package app

import (
	"context"
	"errors"
	"strings"

	"github.com/louisbranch/dicebot/internal/core/dice"
	apperrors "github.com/louisbranch/dicebot/internal/platform/errors"
	"github.com/louisbranch/dicebot/internal/platform/i18n/catalog"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RollDiceInput is the roll_dice tool input.
type RollDiceInput struct {
	Notation string `json:"notation" jsonschema:"dice notation such as 2d10+3+5 attack"`
	Locale   string `json:"locale,omitempty" jsonschema:"reply locale, en-US or zh-CN"`
}

// RollRequest describes the parsed notation.
type RollRequest struct {
	Count     int      `json:"count" jsonschema:"number of dice rolled"`
	Dimension int      `json:"dimension" jsonschema:"faces per die"`
	Fixes     []string `json:"fixes" jsonschema:"signed fixes in order, such as +3"`
	Comment   string   `json:"comment,omitempty" jsonschema:"free-text label"`
}

// RollOutcome is one die of a roll.
type RollOutcome struct {
	Index int    `json:"index" jsonschema:"1-based die position"`
	Raw   int    `json:"raw" jsonschema:"value rolled"`
	Fix   string `json:"fix,omitempty" jsonschema:"fix applied to this die"`
	Final int    `json:"final" jsonschema:"raw value after the fix"`
}

// RollDiceResult is the roll_dice tool output.
type RollDiceResult struct {
	Request  RollRequest   `json:"request" jsonschema:"parsed notation"`
	Outcomes []RollOutcome `json:"outcomes" jsonschema:"per-die results"`
	Text     string        `json:"text" jsonschema:"rendered HTML reply"`
}

// RollDiceTool defines the roll_dice tool.
func RollDiceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_dice",
		Description: "Rolls dice written in notation like d10, 2d100, or 3d10+30-50+40, with an optional comment after a space",
	}
}

// RollDiceHandler resolves notation against src. Notation that does not
// parse, and validation or resolution failures, come back as tool errors
// carrying the localized message.
func RollDiceHandler(src dice.Locker, defaultLocale string) mcp.ToolHandlerFor[RollDiceInput, RollDiceResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RollDiceInput) (*mcp.CallToolResult, RollDiceResult, error) {
		locale := strings.TrimSpace(input.Locale)
		if locale == "" {
			locale = defaultLocale
		}
		renderer := dice.NewCatalogRenderer(locale)

		result, ok, err := dice.Roll(input.Notation, src, renderer)
		if !ok {
			text, _ := catalog.Default().Message(renderer.Locale(), "bot.syntax_error")
			return nil, RollDiceResult{}, errors.New(text)
		}
		if err != nil {
			return nil, RollDiceResult{}, errors.New(apperrors.UserMessage(err, renderer.Locale()))
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result.Text}},
		}, toRollDiceResult(result), nil
	}
}

func toRollDiceResult(result dice.Result) RollDiceResult {
	req := result.Request
	fixes := make([]string, 0, len(req.Fixes))
	for _, fix := range req.Fixes {
		fixes = append(fixes, fix.String())
	}
	outcomes := make([]RollOutcome, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		outcome := RollOutcome{Index: o.Index, Raw: o.Raw, Final: o.Final}
		if o.Fix != nil {
			outcome.Fix = o.Fix.String()
		}
		outcomes = append(outcomes, outcome)
	}
	return RollDiceResult{
		Request: RollRequest{
			Count:     req.Count,
			Dimension: req.Dimension,
			Fixes:     fixes,
			Comment:   req.Comment,
		},
		Outcomes: outcomes,
		Text:     result.Text,
	}
}
