package errors

import (
	"github.com/louisbranch/dicebot/internal/platform/errors/i18n"
)

// UserMessage renders err for the requester in locale.
// Domain errors use their code template and metadata; anything else is
// reported with the generic UNKNOWN message so internal detail stays in logs.
func UserMessage(err error, locale string) string {
	catalog := i18n.GetCatalog(locale)
	if domainErr, ok := As(err); ok {
		return catalog.Format(string(domainErr.Code), domainErr.Metadata)
	}
	return catalog.Format(string(CodeUnknown), nil)
}
