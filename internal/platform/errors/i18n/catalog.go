// Package i18n renders error codes as localized text/template messages.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/dicebot/internal/platform/i18n/catalog"
)

// Code is a machine-readable error code. It is a plain string here so the
// errors package can depend on this one.
type Code = string

// Catalog holds the parsed error templates of one locale.
type Catalog struct {
	locale    string
	templates map[Code]*template.Template
	raw       map[Code]string
}

var catalogs sync.Map // resolved locale -> *Catalog

// GetCatalog returns the catalog for locale, or the base-locale catalog when
// locale has no error messages.
func GetCatalog(locale string) *Catalog {
	resolved, messages := i18ncatalog.Default().Namespace(strings.TrimSpace(locale), "errors")
	if cached, ok := catalogs.Load(resolved); ok {
		return cached.(*Catalog)
	}
	cat, _ := catalogs.LoadOrStore(resolved, NewCatalog(resolved, messages))
	return cat.(*Catalog)
}

// NewCatalog parses messages into a catalog. Templates that fail to parse are
// kept as literal text.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cat := &Catalog{
		locale:    locale,
		templates: make(map[Code]*template.Template, len(messages)),
		raw:       make(map[Code]string, len(messages)),
	}
	for code, text := range messages {
		cat.raw[code] = text
		if tmpl, err := template.New(code).Option("missingkey=zero").Parse(text); err == nil {
			cat.templates[code] = tmpl
		}
	}
	return cat
}

// Locale returns the locale the catalog was built for.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders code with metadata. Unknown codes render as the code itself
// and templates that fail render as their raw text.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	raw, ok := c.raw[code]
	if !ok {
		return code
	}
	tmpl, ok := c.templates[code]
	if !ok {
		return raw
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, metadata); err != nil {
		return raw
	}
	return sb.String()
}
