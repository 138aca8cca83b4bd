// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Dice notation errors
	CodeDiceTooMany     Code = "DICE_TOO_MANY"
	CodeDiceFixMismatch Code = "DICE_FIX_MISMATCH"
	CodeDiceInvalidFix  Code = "DICE_INVALID_FIX"

	// Dice resolution errors
	CodeDiceResolution Code = "DICE_RESOLUTION"

	// Random/seed errors
	CodeSeedUnavailable Code = "SEED_UNAVAILABLE"
)

// Kind groups codes by how a host should react to them.
type Kind int

const (
	// KindInternal is a failure the requester cannot fix.
	KindInternal Kind = iota
	// KindValidation is input that matched the notation but broke a rule.
	KindValidation
	// KindResolution is a failure while drawing or computing a roll.
	KindResolution
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindResolution:
		return "resolution"
	default:
		return "internal"
	}
}

// Kind maps domain codes to their error kind.
func (c Code) Kind() Kind {
	switch c {
	case CodeDiceTooMany,
		CodeDiceFixMismatch,
		CodeDiceInvalidFix:
		return KindValidation

	case CodeDiceResolution:
		return KindResolution

	default:
		return KindInternal
	}
}
