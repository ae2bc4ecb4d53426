// Package programs maps free-text program names onto the college's catalog URLs.
//
// The catalog tables are data: an embedded JSON document loaded once, or a file
// written by the sync-catalog command. Resolution never fails; names that match
// no table entry get a slug synthesized from the subject.
package programs

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"
)

//go:embed catalog.json
var embeddedCatalog []byte

// Tier names, in lookup priority order.
const (
	TierBachelors        = "bachelors"
	TierAssociateArts    = "associate_arts"
	TierAssociateScience = "associate_science"
)

// Catalog is the read-only set of program tables for one college.
type Catalog struct {
	College     string   `json:"college"`
	ShortName   string   `json:"short_name"`
	BaseURL     string   `json:"base_url"`
	TransferURL string   `json:"transfer_url,omitempty"`
	Bachelors   []string `json:"bachelors"`
	Tiers       []Tier   `json:"tiers"`
}

// Tier is one credential level's table of subjects.
type Tier struct {
	Name    string  `json:"name"`
	Source  string  `json:"source,omitempty"`
	Entries []Entry `json:"entries"`
}

// Entry maps a normalized subject phrase to a catalog slug.
type Entry struct {
	Match string `json:"match"`
	Slug  string `json:"slug"`
}

var (
	defaultCatalog    *Catalog
	defaultCatalogErr error
	defaultOnce       sync.Once
)

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = ParseCatalog(embeddedCatalog)
	})
	return defaultCatalog, defaultCatalogErr
}

// LoadCatalog reads a catalog file, or returns the embedded catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a catalog document. Entry match phrases are normalized.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	for i := range c.Tiers {
		entries := c.Tiers[i].Entries[:0]
		for _, e := range c.Tiers[i].Entries {
			e.Match = normalizeKey(e.Match)
			e.Slug = strings.Trim(strings.TrimSpace(e.Slug), "/")
			if e.Match != "" && e.Slug != "" {
				entries = append(entries, e)
			}
		}
		c.Tiers[i].Entries = entries
	}
	return &c, nil
}

// Validate checks the catalog has a base URL and uniquely named tiers.
func (c *Catalog) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("catalog base_url is required")
	}
	if len(c.Tiers) == 0 {
		return fmt.Errorf("catalog must define at least one tier")
	}
	seen := make(map[string]bool, len(c.Tiers))
	for _, t := range c.Tiers {
		if t.Name == "" {
			return fmt.Errorf("catalog tier name is required")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate catalog tier %q", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// Lookup finds the first entry whose phrase occurs in subject, scanning tiers in order.
// Phrases match on word boundaries after normalization.
func (c *Catalog) Lookup(subject string) (tier string, slug string, ok bool) {
	padded := " " + normalizeKey(subject) + " "
	if strings.TrimSpace(padded) == "" {
		return "", "", false
	}
	for _, t := range c.Tiers {
		for _, e := range t.Entries {
			if strings.Contains(padded, " "+e.Match+" ") {
				return t.Name, e.Slug, true
			}
		}
	}
	return "", "", false
}

// lookupSpanning finds an entry that starts full and is longer than first, i.e. a
// phrase running from the first alternative across an option separator.
func (c *Catalog) lookupSpanning(full, first string) (tier string, slug string, ok bool) {
	padded := " " + normalizeKey(full) + " "
	minLen := len(normalizeKey(first))
	for _, t := range c.Tiers {
		for _, e := range t.Entries {
			if len(e.Match) > minLen && strings.HasPrefix(padded, " "+e.Match+" ") {
				return t.Name, e.Slug, true
			}
		}
	}
	return "", "", false
}

// normalizeKey lowercases s and collapses every run of non-alphanumerics to one space.
func normalizeKey(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}
