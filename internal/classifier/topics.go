// Package classifier derives coarse labels for verses: topic tags from text
// and category and normalized forms for matching.
package classifier

import (
	"github.com/soapbox/bible-verses/internal/canon"
)

// topicKeywords maps a stem-ish keyword to the topic it signals.
var topicKeywords = map[string]string{
	"love":        "love",
	"loved":       "love",
	"loveth":      "love",
	"loves":       "love",
	"faith":       "faith",
	"believe":     "faith",
	"believes":    "faith",
	"believeth":   "faith",
	"trust":       "faith",
	"hope":        "hope",
	"peace":       "peace",
	"joy":         "joy",
	"rejoice":     "joy",
	"strength":    "strength",
	"strengthens": "strength",
	"strong":      "strength",
	"shepherd":    "guidance",
	"lead":        "guidance",
	"leads":       "guidance",
	"paths":       "guidance",
	"understand":  "wisdom",
	"wisdom":      "wisdom",
	"life":        "eternal-life",
	"everlasting": "eternal-life",
	"eternal":     "eternal-life",
	"perish":      "salvation",
	"saved":       "salvation",
	"salvation":   "salvation",
	"grace":       "grace",
	"mercy":       "mercy",
	"created":     "creation",
	"beginning":   "creation",
	"pray":        "prayer",
	"prayer":      "prayer",
	"fear":        "courage",
	"afraid":      "courage",
	"plans":       "purpose",
	"purpose":     "purpose",
}

// categoryTopics are the default tags for every verse of a category.
var categoryTopics = map[canon.Category][]string{
	canon.CategoryLaw:        {"covenant", "law"},
	canon.CategoryHistory:    {"history", "faithfulness"},
	canon.CategoryWisdom:     {"wisdom", "worship"},
	canon.CategoryProphecy:   {"prophecy", "hope"},
	canon.CategoryGospels:    {"jesus", "gospel"},
	canon.CategoryActs:       {"church", "holy-spirit"},
	canon.CategoryEpistles:   {"faith", "teaching"},
	canon.CategoryRevelation: {"prophecy", "victory"},
}

// CategoryTopics returns the default tags for a category.
func CategoryTopics(category canon.Category) []string {
	tags := categoryTopics[category]
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// TopicTags merges explicit tags, the category defaults and keyword matches
// found in text into one normalized set.
func TopicTags(text string, category canon.Category, explicit ...string) []string {
	tags := append([]string{}, explicit...)
	tags = append(tags, categoryTopics[category]...)
	for _, w := range words(text) {
		if topic, ok := topicKeywords[w]; ok {
			tags = append(tags, topic)
		}
	}
	return NormalizeTags(tags)
}
