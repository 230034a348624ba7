package provider

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/translation"
)

// Placeholder text is NOT scripture. It is recognisable filler that keeps a
// verse row present until authored text replaces it.

var themes = map[canon.Category][]string{
	canon.CategoryLaw: {
		"the commandments of the LORD",
		"the covenant made with the fathers",
		"the statutes given in the wilderness",
		"the offering brought before the tabernacle",
	},
	canon.CategoryHistory: {
		"the deliverance of the people",
		"the kings who walked before the LORD",
		"the land promised to the fathers",
		"the faithfulness shown in battle",
	},
	canon.CategoryWisdom: {
		"the fear of the LORD",
		"the way of the righteous",
		"the praise of his steadfast love",
		"understanding that endures",
	},
	canon.CategoryProphecy: {
		"the word of the LORD to his people",
		"the day of restoration",
		"the hope of return",
		"judgment and mercy together",
	},
	canon.CategoryGospels: {
		"the kingdom of heaven",
		"the good news of the Son",
		"the healing of the sick",
		"the love of the Father",
	},
	canon.CategoryActs: {
		"the power of the Holy Spirit",
		"the witness of the apostles",
		"the growth of the church",
		"the gospel carried to the nations",
	},
	canon.CategoryEpistles: {
		"grace and peace in Christ",
		"faith working through love",
		"the hope of glory",
		"the unity of the body",
	},
	canon.CategoryRevelation: {
		"the victory of the Lamb",
		"the new heaven and the new earth",
		"the throne of God",
		"the faithful witness",
	},
}

var templates = map[translation.Style][]string{
	translation.StyleFormal: {
		"Thus it is written concerning %s.",
		"And they remembered %s, and gave thanks.",
		"Behold, %s endureth for ever.",
	},
	translation.StyleBalanced: {
		"This passage speaks of %s.",
		"Remember %s and hold firmly to it.",
		"God's people are reminded of %s.",
	},
	translation.StyleDynamic: {
		"Here we learn about %s.",
		"This is a reminder of %s for everyone who listens.",
	},
	translation.StyleParaphrase: {
		"Think about it: %s is right here, real and close.",
		"Here's the thing about %s: it changes everything.",
	},
	translation.StyleAmplified: {
		"Consider [carefully and with reverence] %s [which is true and lasting].",
		"Remember [and take to heart] %s.",
	},
	translation.StyleContemporary: {
		"This verse tells us about %s.",
		"God wants us to know about %s.",
	},
}

// Generator synthesizes placeholder text. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a generator drawing from src. A nil src seeds a PCG
// from the runtime's random source.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{rng: rand.New(src)}
}

// Generate builds "<template with theme> (<reference>)".
func (g *Generator) Generate(category canon.Category, style translation.Style, ref canon.Reference) string {
	phrases := themes[category]
	if len(phrases) == 0 {
		phrases = themes[canon.CategoryEpistles]
	}
	forms := templates[style]
	if len(forms) == 0 {
		forms = templates[translation.StyleBalanced]
	}

	g.mu.Lock()
	phrase := phrases[g.rng.IntN(len(phrases))]
	form := forms[g.rng.IntN(len(forms))]
	g.mu.Unlock()

	return fmt.Sprintf(form, phrase) + " (" + ref.String() + ")"
}
