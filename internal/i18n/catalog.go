// Package i18n loads the fixed UI strings and renders them per language.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source locale every other locale must cover.
const BaseLocale = "en"

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

//go:embed locales/*.yaml
var embeddedFS embed.FS

// Catalog holds the messages of all locales.
type Catalog struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
	keys    []string
}

// Load loads the catalogs embedded in this package.
func Load() (*Catalog, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/*.yaml from the provided filesystem.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	files := map[string]catalogFile{}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if locale == "" {
			return nil, fmt.Errorf("catalog %s: locale is required", path)
		}
		if _, exists := files[locale]; exists {
			return nil, fmt.Errorf("catalog %s: locale %q defined twice", path, locale)
		}
		files[locale] = file
	}

	base, ok := files[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	keys := make([]string, 0, len(base.Messages))
	for key := range base.Messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	locales := make([]string, 0, len(files))
	for locale := range files {
		if locale != BaseLocale {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales)
	locales = append([]string{BaseLocale}, locales...)

	c := &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
		keys:    keys,
	}
	for _, locale := range locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		msgs := files[locale].Messages
		for _, key := range keys {
			value, ok := msgs[key]
			if !ok {
				return nil, fmt.Errorf("locale %s: missing key %q", locale, key)
			}
			if err := c.builder.SetString(tag, key, value); err != nil {
				return nil, fmt.Errorf("locale %s: set %q: %w", locale, key, err)
			}
		}
		c.tags = append(c.tags, tag)
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Locales lists the loaded locales, base first.
func (c *Catalog) Locales() []string {
	out := make([]string, len(c.tags))
	for i, tag := range c.tags {
		out[i] = tag.String()
	}
	return out
}

// Keys lists the message keys.
func (c *Catalog) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Printer renders messages for one language.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// Printer returns the closest printer for lang, falling back to the base locale.
func (c *Catalog) Printer(lang string) *Printer {
	want, err := language.Parse(lang)
	if err != nil {
		want = c.tags[0]
	}
	_, index, _ := c.matcher.Match(want)
	tag := c.tags[index]
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(c.builder))}
}

// Tag returns the printer's language.
func (p *Printer) Tag() language.Tag {
	return p.tag
}

// T renders the message for key with args.
func (p *Printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}
