package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/language"

	"wty/internal/logging"
)

//go:embed languages.json
var embeddedCatalog []byte

// Sentinel is the pseudo edition for Simple English. It is not a real iso
// code and is excluded from most source/target axes.
const Sentinel = "simple"

// ErrCatalog marks fatal catalog load failures.
var ErrCatalog = errors.New("language catalog error")

// Language is one catalog record. Immutable once loaded.
type Language struct {
	ISO         string `json:"iso"`
	Language    string `json:"language"`
	DisplayName string `json:"displayName"`
	Flag        string `json:"flag"`
	// HasEdition marks languages for which the upstream corpus provider
	// publishes a dedicated dump, usable as a source language.
	HasEdition bool `json:"hasEdition"`
}

// Catalog is the immutable language list for a run, keyed by iso.
type Catalog struct {
	langs []Language
	byISO map[string]Language
}

// Load reads the catalog from path, or the embedded default when path is
// empty. Unknown (non BCP 47) iso codes are reported through logger but do
// not fail the load; the sentinel is exempt.
func Load(path string, logger *slog.Logger) (*Catalog, error) {
	data := embeddedCatalog
	if strings.TrimSpace(path) != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrCatalog, path, err)
		}
	}
	return Parse(data, logger)
}

// Parse decodes and validates a catalog JSON document.
func Parse(data []byte, logger *slog.Logger) (*Catalog, error) {
	log := logging.NewComponentLogger(logger, "catalog")

	var langs []Language
	if err := json.Unmarshal(data, &langs); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrCatalog, err)
	}
	if len(langs) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrCatalog)
	}

	byISO := make(map[string]Language, len(langs))
	for _, lang := range langs {
		iso := strings.TrimSpace(lang.ISO)
		if iso == "" {
			return nil, fmt.Errorf("%w: entry %q has no iso code", ErrCatalog, lang.Language)
		}
		if iso != strings.ToLower(iso) {
			return nil, fmt.Errorf("%w: iso %q must be lowercase", ErrCatalog, iso)
		}
		if _, dup := byISO[iso]; dup {
			return nil, fmt.Errorf("%w: duplicate iso %q", ErrCatalog, iso)
		}
		if iso != Sentinel {
			if _, err := language.Parse(iso); err != nil {
				log.Warn("iso code not a recognized language tag",
					logging.String("iso", iso),
					logging.String("language", lang.Language))
			}
		}
		byISO[iso] = lang
	}

	return &Catalog{langs: langs, byISO: byISO}, nil
}

// Languages returns all records in catalog order.
func (c *Catalog) Languages() []Language {
	out := make([]Language, len(c.langs))
	copy(out, c.langs)
	return out
}

// ISOs returns every iso code in catalog order.
func (c *Catalog) ISOs() []string {
	out := make([]string, 0, len(c.langs))
	for _, lang := range c.langs {
		out = append(out, lang.ISO)
	}
	return out
}

// Editions returns the iso codes of edition languages in catalog order.
func (c *Catalog) Editions() []string {
	out := make([]string, 0, len(c.langs))
	for _, lang := range c.langs {
		if lang.HasEdition {
			out = append(out, lang.ISO)
		}
	}
	return out
}

// Lookup returns the record for iso.
func (c *Catalog) Lookup(iso string) (Language, bool) {
	lang, ok := c.byISO[strings.ToLower(strings.TrimSpace(iso))]
	return lang, ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.langs)
}

// WithoutSentinel filters the sentinel iso out of a list, preserving order.
func WithoutSentinel(isos []string) []string {
	out := make([]string, 0, len(isos))
	for _, iso := range isos {
		if iso != Sentinel {
			out = append(out, iso)
		}
	}
	return out
}
