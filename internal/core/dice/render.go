package dice

import (
	"fmt"

	"github.com/louisbranch/dicebot/internal/platform/i18n/catalog"
	"golang.org/x/text/message"
)

// Renderer supplies the localized pieces of a reply.
type Renderer interface {
	// Ordinal prefixes a die line when more than one die is rolled.
	Ordinal(index int) string
	// Title wraps an already escaped comment.
	Title(comment string) string
}

// Plain renders English labels without a catalog.
type Plain struct{}

// Ordinal returns "die #index: ".
func (Plain) Ordinal(index int) string {
	return fmt.Sprintf("die #%d: ", index)
}

// Title bolds comment and appends a colon.
func (Plain) Title(comment string) string {
	return "<b>" + comment + ":</b>"
}

// CatalogRenderer renders labels from the embedded locale catalogs.
type CatalogRenderer struct {
	locale  string
	printer *message.Printer
}

// NewCatalogRenderer returns a renderer for locale, falling back to the
// base locale when the catalogs do not define it.
func NewCatalogRenderer(locale string) *CatalogRenderer {
	bundle := catalog.Default()
	resolved := bundle.Resolve(locale)
	return &CatalogRenderer{
		locale:  resolved,
		printer: bundle.Printer(resolved),
	}
}

// Locale returns the resolved locale.
func (r *CatalogRenderer) Locale() string {
	return r.locale
}

func (r *CatalogRenderer) Ordinal(index int) string {
	return r.printer.Sprintf("dice.ordinal", index)
}

func (r *CatalogRenderer) Title(comment string) string {
	return r.printer.Sprintf("dice.title", comment)
}
