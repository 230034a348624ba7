// Package provider supplies verse text. Authored text from the seed asset is
// returned verbatim; every other verse gets a generated placeholder that is
// flagged as not authentic.
package provider

import (
	"fmt"
	"math/rand/v2"

	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/classifier"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/translation"
)

// Text is verse content plus its provenance.
type Text struct {
	Body      string
	Authentic bool
}

// AuthoredVerse is one (reference, translation) with authored text.
type AuthoredVerse struct {
	Reference   canon.Reference
	Translation translation.Code
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	seed *Seed
	src  rand.Source
}

// WithSeed replaces the embedded seed asset.
func WithSeed(seed *Seed) Option {
	return func(o *options) { o.seed = seed }
}

// WithRandSource fixes the placeholder randomness, e.g. for tests.
func WithRandSource(src rand.Source) Option {
	return func(o *options) { o.src = src }
}

// Provider resolves verse text against a canon.
type Provider struct {
	canon *canon.Canon
	seed  *compiledSeed
	gen   *Generator
}

// New builds a provider over c using the embedded seed unless WithSeed is given.
func New(c *canon.Canon, opts ...Option) (*Provider, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.seed == nil {
		seed, err := DefaultSeed()
		if err != nil {
			return nil, err
		}
		o.seed = seed
	}

	compiled, err := o.seed.compile(c)
	if err != nil {
		return nil, err
	}

	return &Provider{
		canon: c,
		seed:  compiled,
		gen:   NewGenerator(o.src),
	}, nil
}

// Canon returns the canon the provider resolves references against.
func (p *Provider) Canon() *canon.Canon {
	return p.canon
}

// SeedVersion returns the version of the loaded seed asset.
func (p *Provider) SeedVersion() int {
	return p.seed.version
}

// VerseText returns the text for a verse. Authored text is returned when the
// seed has it for tr; otherwise a fresh placeholder is generated.
func (p *Provider) VerseText(ref canon.Reference, tr translation.Code) (Text, error) {
	b, err := p.canon.Book(ref.Book)
	if err != nil {
		return Text{}, err
	}
	if !tr.IsValid() {
		return Text{}, fmt.Errorf("%w: %q", translation.ErrUnknownTranslation, tr)
	}

	if a, ok := p.seed.entries[ref.String()]; ok {
		if body, ok := a.text[tr]; ok {
			return Text{Body: body, Authentic: true}, nil
		}
	}

	return Text{Body: p.gen.Generate(b.Category, tr.Style(), ref)}, nil
}

// Lookup is VerseText for unparsed parts, e.g. ("Psalm", 23, "1", "NIV").
func (p *Provider) Lookup(book string, chapter int, verse string, tr translation.Code) (Text, error) {
	ref, err := p.canon.NewReference(book, chapter, verse)
	if err != nil {
		return Text{}, err
	}
	return p.VerseText(ref, tr)
}

// Popularity returns the ranking score stored with ref.
func (p *Provider) Popularity(ref canon.Reference) int {
	key := ref.String()
	if a, ok := p.seed.entries[key]; ok {
		return a.popularity
	}
	if p.seed.priority[key] {
		return PriorityPopularity
	}
	return 0
}

// Build returns a ready-to-store row for (ref, tr).
func (p *Provider) Build(ref canon.Reference, tr translation.Code) (*database.VerseRecord, error) {
	text, err := p.VerseText(ref, tr)
	if err != nil {
		return nil, err
	}
	b, err := p.canon.Book(ref.Book)
	if err != nil {
		return nil, err
	}

	var tags []string
	if text.Authentic {
		tags = classifier.TopicTags(text.Body, b.Category, p.seed.entries[ref.String()].tags...)
	} else {
		tags = classifier.CategoryTopics(b.Category)
	}

	return &database.VerseRecord{
		Reference:       ref.String(),
		Translation:     string(tr),
		Book:            b.Name,
		BookOrder:       b.Order,
		Chapter:         ref.Chapter,
		Verse:           ref.Verse,
		VerseNumber:     ref.FirstVerse(),
		Text:            text.Body,
		Category:        string(b.Category),
		TopicTags:       tags,
		IsActive:        true,
		IsAuthentic:     text.Authentic,
		PopularityScore: p.Popularity(ref),
	}, nil
}

// PriorityReferences returns the authored references followed by the
// priority list, in seed order.
func (p *Provider) PriorityReferences() []canon.Reference {
	out := make([]canon.Reference, len(p.seed.order))
	copy(out, p.seed.order)
	return out
}

// Authored lists every (reference, translation) that has authored text, in
// seed order then translation enumeration order.
func (p *Provider) Authored() []AuthoredVerse {
	var out []AuthoredVerse
	for _, ref := range p.seed.order {
		a, ok := p.seed.entries[ref.String()]
		if !ok {
			continue
		}
		for _, tr := range translation.All() {
			if _, ok := a.text[tr]; ok {
				out = append(out, AuthoredVerse{Reference: ref, Translation: tr})
			}
		}
	}
	return out
}
