package handler

import (
	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/translation"
)

// PlaceholderNotice accompanies every verse whose text is not authentic.
const PlaceholderNotice = "Placeholder text: this is not the published wording of this translation."

// formatVerse formats a verse for API response, excluding internal columns.
func formatVerse(v *database.VerseRecord) map[string]any {
	tags := []string(v.TopicTags)
	if tags == nil {
		tags = []string{}
	}
	result := map[string]any{
		"reference":        v.Reference,
		"book":             v.Book,
		"chapter":          v.Chapter,
		"verse":            v.Verse,
		"text":             v.Text,
		"translation":      v.Translation,
		"translation_name": translation.Code(v.Translation).Name(),
		"category":         v.Category,
		"topic_tags":       tags,
		"is_authentic":     v.IsAuthentic,
		"popularity_score": v.PopularityScore,
	}
	if !v.IsAuthentic {
		result["notice"] = PlaceholderNotice
	}
	return result
}

func formatVerses(verses []database.VerseRecord) []map[string]any {
	data := make([]map[string]any, len(verses))
	for i := range verses {
		data[i] = formatVerse(&verses[i])
	}
	return data
}

// formatBook formats a book of c. stored is the number of verses present in
// the database for the requested translation, or -1 to omit it.
func formatBook(c *canon.Canon, b canon.Book, stored int64) map[string]any {
	// Estimated chapters count toward the total as well.
	total := 0
	for ch := 1; ch <= b.Chapters; ch++ {
		n, _, _ := c.VerseCount(b.Name, ch)
		total += n
	}
	result := map[string]any{
		"name":         b.Name,
		"osis":         b.OSIS,
		"order":        b.Order,
		"testament":    b.Testament,
		"category":     b.Category,
		"chapters":     b.Chapters,
		"verses":       total,
		"exact_counts": b.HasExactCounts(),
	}
	if stored >= 0 {
		result["stored_verses"] = stored
	}
	return result
}
