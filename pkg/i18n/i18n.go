// Package i18n provides the immutable translation catalogs used on the
// generated pages.
//
// Catalogs are loaded once from the embedded TOML files and handed to
// the renderer through its context. Nothing here is global mutable
// state: a [Bundle] is read-only after [Load].
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Fallback is the language every other catalog falls back to.
var Fallback = language.English

// Catalog resolves message keys for one language.
type Catalog struct {
	tag      language.Tag
	messages map[string]string
	fallback map[string]string
}

// Tag returns the catalog language.
func (c Catalog) Tag() language.Tag { return c.tag }

// T returns the message for key formatted with args. Missing keys fall
// back to English and then to the key itself, so a gap in a translation
// is visible on the page instead of failing the render.
func (c Catalog) T(key string, args ...any) string {
	msg, ok := c.messages[key]
	if !ok {
		msg, ok = c.fallback[key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Has reports whether the catalog itself (not the fallback) defines key.
func (c Catalog) Has(key string) bool {
	_, ok := c.messages[key]
	return ok
}

// Bundle holds all loaded catalogs.
type Bundle struct {
	catalogs map[language.Tag]Catalog
	tags     []language.Tag
	matcher  language.Matcher
}

// Load parses the embedded locale files.
func Load() (*Bundle, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	raw := make(map[language.Tag]map[string]string)
	for _, e := range entries {
		name := e.Name()
		tag, err := language.Parse(strings.TrimSuffix(name, path.Ext(name)))
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", name, err)
		}
		data, err := localeFS.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var msgs map[string]string
		if _, err := toml.Decode(string(data), &msgs); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		raw[tag] = msgs
	}

	fallback, ok := raw[Fallback]
	if !ok {
		return nil, fmt.Errorf("missing fallback locale %s", Fallback)
	}

	b := &Bundle{catalogs: make(map[language.Tag]Catalog, len(raw))}
	b.tags = append(b.tags, Fallback)
	for tag := range raw {
		if tag != Fallback {
			b.tags = append(b.tags, tag)
		}
	}
	sort.Slice(b.tags[1:], func(i, j int) bool { return b.tags[i+1].String() < b.tags[j+1].String() })
	for tag, msgs := range raw {
		b.catalogs[tag] = Catalog{tag: tag, messages: msgs, fallback: fallback}
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Languages returns the available languages, fallback first.
func (b *Bundle) Languages() []language.Tag {
	return append([]language.Tag(nil), b.tags...)
}

// Catalog returns the best catalog for a language code such as "nl",
// "nl-BE" or "en_US". Unknown or empty codes get the fallback.
func (b *Bundle) Catalog(code string) Catalog {
	tag, _ := language.MatchStrings(b.matcher, strings.ReplaceAll(code, "_", "-"))
	base, _ := tag.Base()
	for _, t := range b.tags {
		if tb, _ := t.Base(); tb == base {
			return b.catalogs[t]
		}
	}
	return b.catalogs[Fallback]
}

// Supported reports whether code resolves to a language other than the
// fallback, or is the fallback itself.
func (b *Bundle) Supported(code string) bool {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return false
	}
	_, _, conf := b.matcher.Match(tag)
	return conf != language.No
}
