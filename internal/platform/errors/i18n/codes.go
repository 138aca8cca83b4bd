package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown         = "UNKNOWN"
	CodeDiceTooMany     = "DICE_TOO_MANY"
	CodeDiceFixMismatch = "DICE_FIX_MISMATCH"
	CodeDiceInvalidFix  = "DICE_INVALID_FIX"
	CodeDiceResolution  = "DICE_RESOLUTION"
	CodeSeedUnavailable = "SEED_UNAVAILABLE"
)

// Codes lists every code a locale catalog is expected to translate.
var Codes = []Code{
	CodeUnknown,
	CodeDiceTooMany,
	CodeDiceFixMismatch,
	CodeDiceInvalidFix,
	CodeDiceResolution,
	CodeSeedUnavailable,
}
