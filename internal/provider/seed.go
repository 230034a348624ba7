package provider

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/translation"
)

//go:embed seed/authentic.yaml
var embeddedSeed []byte

const (
	// DefaultAuthoredPopularity applies to seed entries without a popularity.
	DefaultAuthoredPopularity = 60
	// PriorityPopularity is stored for priority references without authored text.
	PriorityPopularity = 40
)

// SeedEntry is one authored reference with text per translation.
type SeedEntry struct {
	Reference  string            `yaml:"reference"`
	Popularity int               `yaml:"popularity"`
	Tags       []string          `yaml:"tags"`
	Text       map[string]string `yaml:"text"`
}

// Seed is the parsed authored-text asset.
type Seed struct {
	Version  int         `yaml:"version"`
	Entries  []SeedEntry `yaml:"entries"`
	Priority []string    `yaml:"priority"`
}

// DefaultSeed parses the embedded seed asset.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(embeddedSeed)
}

// ParseSeed decodes a seed document. References are left as written;
// Compile resolves them against a canon.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &seed, nil
}

// authored is a resolved seed entry.
type authored struct {
	ref        canon.Reference
	popularity int
	tags       []string
	text       map[translation.Code]string
}

// compiledSeed indexes a seed by canonical reference string.
type compiledSeed struct {
	version  int
	entries  map[string]*authored
	order    []canon.Reference // authored then priority, de-duplicated
	priority map[string]bool
}

// compile validates every reference and translation in the seed.
func (s *Seed) compile(c *canon.Canon) (*compiledSeed, error) {
	cs := &compiledSeed{
		version:  s.Version,
		entries:  make(map[string]*authored, len(s.Entries)),
		priority: make(map[string]bool, len(s.Priority)),
	}

	for i, e := range s.Entries {
		ref, err := c.ParseReference(e.Reference)
		if err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i, err)
		}
		key := ref.String()
		if _, dup := cs.entries[key]; dup {
			return nil, fmt.Errorf("seed entry %d: duplicate reference %s", i, key)
		}

		a := &authored{
			ref:        ref,
			popularity: e.Popularity,
			tags:       e.Tags,
			text:       make(map[translation.Code]string, len(e.Text)),
		}
		if a.popularity <= 0 {
			a.popularity = DefaultAuthoredPopularity
		}
		for code, text := range e.Text {
			tr, err := translation.Parse(code)
			if err != nil {
				return nil, fmt.Errorf("seed entry %s: %w", key, err)
			}
			text = strings.TrimSpace(text)
			if text == "" {
				return nil, fmt.Errorf("seed entry %s: empty %s text", key, tr)
			}
			a.text[tr] = text
		}
		if len(a.text) == 0 {
			return nil, fmt.Errorf("seed entry %s: no text", key)
		}

		cs.entries[key] = a
		cs.order = append(cs.order, ref)
	}

	for _, raw := range s.Priority {
		ref, err := c.ParseReference(raw)
		if err != nil {
			return nil, fmt.Errorf("seed priority %q: %w", raw, err)
		}
		key := ref.String()
		if _, isAuthored := cs.entries[key]; isAuthored || cs.priority[key] {
			continue
		}
		cs.priority[key] = true
		cs.order = append(cs.order, ref)
	}

	return cs, nil
}
