// Package translation enumerates the scripture editions the verse store knows.
package translation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTranslation is returned for codes outside the fixed enumeration.
var ErrUnknownTranslation = errors.New("unknown translation")

// Code is a translation abbreviation such as "KJV".
type Code string

const (
	KJV  Code = "KJV"
	NIV  Code = "NIV"
	NLT  Code = "NLT"
	ESV  Code = "ESV"
	NASB Code = "NASB"
	CSB  Code = "CSB"
	MSG  Code = "MSG"
	AMP  Code = "AMP"
	CEV  Code = "CEV"
	NET  Code = "NET"
	CEB  Code = "CEB"
	GNT  Code = "GNT"
	NKJV Code = "NKJV"
	RSV  Code = "RSV"
	NRSV Code = "NRSV"
	HCSB Code = "HCSB"
	NCV  Code = "NCV"
)

// Default is used when a caller does not name a translation.
const Default = KJV

// Style groups translations by translation philosophy.
type Style string

const (
	StyleFormal       Style = "formal"
	StyleBalanced     Style = "balanced"
	StyleDynamic      Style = "dynamic"
	StyleParaphrase   Style = "paraphrase"
	StyleAmplified    Style = "amplified"
	StyleContemporary Style = "contemporary"
)

type info struct {
	name  string
	style Style
}

var catalog = map[Code]info{
	KJV:  {"King James Version", StyleFormal},
	NIV:  {"New International Version", StyleBalanced},
	NLT:  {"New Living Translation", StyleDynamic},
	ESV:  {"English Standard Version", StyleFormal},
	NASB: {"New American Standard Bible", StyleFormal},
	CSB:  {"Christian Standard Bible", StyleBalanced},
	MSG:  {"The Message", StyleParaphrase},
	AMP:  {"Amplified Bible", StyleAmplified},
	CEV:  {"Contemporary English Version", StyleContemporary},
	NET:  {"New English Translation", StyleBalanced},
	CEB:  {"Common English Bible", StyleBalanced},
	GNT:  {"Good News Translation", StyleDynamic},
	NKJV: {"New King James Version", StyleFormal},
	RSV:  {"Revised Standard Version", StyleFormal},
	NRSV: {"New Revised Standard Version", StyleBalanced},
	HCSB: {"Holman Christian Standard Bible", StyleBalanced},
	NCV:  {"New Century Version", StyleContemporary},
}

// order fixes the enumeration order used by population runs.
var order = []Code{KJV, NIV, NLT, ESV, NASB, CSB, MSG, AMP, CEV, NET, CEB, GNT, NKJV, RSV, NRSV, HCSB, NCV}

// All returns every translation code in enumeration order.
func All() []Code {
	out := make([]Code, len(order))
	copy(out, order)
	return out
}

// IsValid reports whether c belongs to the enumeration.
func (c Code) IsValid() bool {
	_, ok := catalog[c]
	return ok
}

// Name returns the display name, or the code itself when unknown.
func (c Code) Name() string {
	if i, ok := catalog[c]; ok {
		return i.name
	}
	return string(c)
}

// Style returns the style bucket. Unknown codes are treated as balanced.
func (c Code) Style() Style {
	if i, ok := catalog[c]; ok {
		return i.style
	}
	return StyleBalanced
}

func (c Code) String() string {
	return string(c)
}

// Parse parses a code case-insensitively. An empty string yields Default.
func Parse(s string) (Code, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Default, nil
	}
	c := Code(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTranslation, s)
	}
	return c, nil
}

// ParseList parses a comma separated list, returning All for an empty input.
func ParseList(s string) ([]Code, error) {
	if strings.TrimSpace(s) == "" {
		return All(), nil
	}

	seen := make(map[Code]bool)
	var out []Code
	for _, part := range strings.Split(s, ",") {
		c, err := Parse(part)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}
