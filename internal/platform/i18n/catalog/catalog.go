// Package catalog loads the embedded locale catalogs that back every
// user-facing reply and exposes them as x/text printers.
//
// Catalogs live at locales/<locale>/<namespace>.yaml. Each file repeats its
// locale and namespace, and every key outside the errors namespace starts
// with "<namespace>.".
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	textcatalog "golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other locale falls back to.
const BaseLocale = "en-US"

// errorsNamespace holds error-code templates keyed by bare code.
const errorsNamespace = "errors"

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

type localeMessages struct {
	tag        language.Tag
	namespaces map[string]map[string]string
	messages   map[string]string
}

// Bundle holds every locale catalog and the x/text catalog built from it.
type Bundle struct {
	locales map[string]*localeMessages
	text    *textcatalog.Builder
}

//go:embed locales/*/*.yaml
var embedded embed.FS

var defaultBundle = mustLoad(embedded)

// Default returns the process-wide embedded bundle.
func Default() *Bundle {
	return defaultBundle
}

// Load reads locales/*/*.yaml from fsys. The base locale is required.
func Load(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("no catalog files found")
	}
	slices.Sort(paths)

	bundle := &Bundle{
		locales: map[string]*localeMessages{},
		text:    textcatalog.NewBuilder(textcatalog.Fallback(language.MustParse(BaseLocale))),
	}
	for _, p := range paths {
		file, err := decodeFile(fsys, p)
		if err != nil {
			return nil, err
		}
		if err := bundle.add(p, file); err != nil {
			return nil, err
		}
	}
	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	if err := bundle.backfill(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// backfill registers base locale text under every other locale for the keys
// that locale does not define.
func (b *Bundle) backfill() error {
	base := b.locales[BaseLocale]
	for locale, entry := range b.locales {
		if locale == BaseLocale {
			continue
		}
		for key, value := range base.messages {
			if _, ok := entry.messages[key]; ok {
				continue
			}
			if err := b.text.SetString(entry.tag, key, value); err != nil {
				return fmt.Errorf("backfill %s for %s: %w", key, locale, err)
			}
		}
	}
	return nil
}

func decodeFile(fsys fs.FS, p string) (catalogFile, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return catalogFile{}, fmt.Errorf("read catalog %s: %w", p, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var file catalogFile
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return catalogFile{}, fmt.Errorf("parse catalog %s: %w", p, err)
	}
	return file, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	dirLocale := path.Base(path.Dir(p))
	fileNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))

	locale := strings.TrimSpace(file.Locale)
	switch {
	case locale == "":
		return fmt.Errorf("catalog %s: locale is required", p)
	case locale != dirLocale:
		return fmt.Errorf("catalog %s: locale %q does not match directory %q", p, locale, dirLocale)
	}
	namespace := strings.TrimSpace(file.Namespace)
	switch {
	case namespace == "":
		return fmt.Errorf("catalog %s: namespace is required", p)
	case namespace != fileNamespace:
		return fmt.Errorf("catalog %s: namespace %q does not match file name %q", p, namespace, fileNamespace)
	case len(file.Messages) == 0:
		return fmt.Errorf("catalog %s: no messages", p)
	}

	entry, ok := b.locales[locale]
	if !ok {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("catalog %s: locale tag %q: %w", p, locale, err)
		}
		entry = &localeMessages{
			tag:        tag,
			namespaces: map[string]map[string]string{},
			messages:   map[string]string{},
		}
		b.locales[locale] = entry
	}
	if _, exists := entry.namespaces[namespace]; exists {
		return fmt.Errorf("catalog %s: namespace %q already loaded for %s", p, namespace, locale)
	}

	messages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: blank message key", p)
		}
		if namespace != errorsNamespace && !strings.HasPrefix(key, namespace+".") {
			return fmt.Errorf("catalog %s: key %q must start with %q", p, key, namespace+".")
		}
		if _, exists := entry.messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in %s", p, key, locale)
		}
		if err := b.text.SetString(entry.tag, key, value); err != nil {
			return fmt.Errorf("catalog %s: register %q: %w", p, key, err)
		}
		entry.messages[key] = value
		messages[key] = value
	}
	entry.namespaces[namespace] = messages
	return nil
}

// HasLocale reports whether locale has a catalog.
func (b *Bundle) HasLocale(locale string) bool {
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// localeNames lists the loaded locales in order.
func (b *Bundle) localeNames() []string {
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	slices.Sort(out)
	return out
}

// Resolve returns locale when it has a catalog, BaseLocale otherwise.
func (b *Bundle) Resolve(locale string) string {
	locale = strings.TrimSpace(locale)
	if b.HasLocale(locale) {
		return locale
	}
	return BaseLocale
}

// Printer formats catalog keys for locale. Keys missing from locale fall
// back to BaseLocale.
func (b *Bundle) Printer(locale string) *message.Printer {
	entry := b.locales[b.Resolve(locale)]
	return message.NewPrinter(entry.tag, message.Catalog(b.text))
}

// keys lists every key the locale's own files define.
func (b *Bundle) keys(locale string) []string {
	entry, ok := b.locales[strings.TrimSpace(locale)]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(entry.messages))
	for key := range entry.messages {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Message returns the raw text for key, falling back to BaseLocale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	for _, candidate := range []string{strings.TrimSpace(locale), BaseLocale} {
		if entry, ok := b.locales[candidate]; ok {
			if value, ok := entry.messages[key]; ok {
				return value, true
			}
		}
	}
	return "", false
}

// Namespace returns a copy of one namespace and the locale that supplied it,
// falling back to BaseLocale when locale lacks the namespace.
func (b *Bundle) Namespace(locale, namespace string) (string, map[string]string) {
	resolved := b.Resolve(locale)
	messages, ok := b.locales[resolved].namespaces[namespace]
	if !ok {
		resolved = BaseLocale
		messages = b.locales[BaseLocale].namespaces[namespace]
	}
	out := make(map[string]string, len(messages))
	for key, value := range messages {
		out[key] = value
	}
	return resolved, out
}

func mustLoad(fsys fs.FS) *Bundle {
	bundle, err := Load(fsys)
	if err != nil {
		panic(err)
	}
	return bundle
}
