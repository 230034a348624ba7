// Package canon holds the canonical structure of the Bible: the 66 books,
// their chapter counts and per-chapter verse counts.
package canon

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultVerseEstimate is used for chapters whose verse count is unknown and
// whose book carries no estimate of its own.
const DefaultVerseEstimate = 25

var (
	ErrUnknownBook        = errors.New("unknown book")
	ErrChapterOutOfRange  = errors.New("chapter out of range")
	ErrVerseOutOfRange    = errors.New("verse out of range")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrDuplicateBookEntry = errors.New("duplicate book")
)

// Testament splits the canon in two.
type Testament string

const (
	OldTestament Testament = "OT"
	NewTestament Testament = "NT"
)

// Category is the coarse thematic label stored with every verse.
type Category string

const (
	CategoryLaw        Category = "Law"
	CategoryHistory    Category = "History"
	CategoryWisdom     Category = "Wisdom"
	CategoryProphecy   Category = "Prophecy"
	CategoryGospels    Category = "Gospels"
	CategoryActs       Category = "Acts"
	CategoryEpistles   Category = "Epistles"
	CategoryRevelation Category = "Revelation"
)

// Book describes one book of the canon.
//
// VerseCounts may be empty or shorter than Chapters; missing chapters fall
// back to DefaultVerses, then to DefaultVerseEstimate.
type Book struct {
	Name          string
	OSIS          string
	Order         int
	Testament     Testament
	Category      Category
	Chapters      int
	VerseCounts   []int
	DefaultVerses int
}

// HasExactCounts reports whether every chapter has a known verse count.
func (b Book) HasExactCounts() bool {
	return len(b.VerseCounts) >= b.Chapters
}

// Canon is an ordered, indexed set of books.
type Canon struct {
	books []Book
	index map[string]int
}

// New builds a canon from the given books, assigning Order by position and
// deriving Chapters from VerseCounts when it is not set.
func New(list []Book) (*Canon, error) {
	c := &Canon{
		books: make([]Book, 0, len(list)),
		index: make(map[string]int, len(list)*3),
	}

	for i, b := range list {
		if strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("book %d has no name", i)
		}
		if b.Chapters == 0 {
			b.Chapters = len(b.VerseCounts)
		}
		if b.Chapters <= 0 {
			return nil, fmt.Errorf("book %s has no chapters", b.Name)
		}
		b.Order = i + 1

		key := normalizeBookKey(b.Name)
		if _, exists := c.index[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBookEntry, b.Name)
		}
		c.index[key] = i
		if b.OSIS != "" {
			c.index[normalizeBookKey(b.OSIS)] = i
		}
		c.books = append(c.books, b)
	}

	for alias, name := range bookAliases {
		if idx, ok := c.index[normalizeBookKey(name)]; ok {
			if _, taken := c.index[alias]; !taken {
				c.index[alias] = idx
			}
		}
	}

	return c, nil
}

var defaultCanon = mustNew(books)

func mustNew(list []Book) *Canon {
	c, err := New(list)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the 66-book Protestant canon.
func Default() *Canon {
	return defaultCanon
}

// Books returns the books in canonical order. The slice is a copy.
func (c *Canon) Books() []Book {
	out := make([]Book, len(c.books))
	copy(out, c.books)
	return out
}

// Len returns the number of books.
func (c *Canon) Len() int {
	return len(c.books)
}

// Book resolves a book by name, OSIS abbreviation or alias.
func (c *Canon) Book(name string) (Book, error) {
	idx, ok := c.index[normalizeBookKey(name)]
	if !ok {
		return Book{}, fmt.Errorf("%w: %q", ErrUnknownBook, name)
	}
	return c.books[idx], nil
}

// ChapterCount returns the number of chapters in a book.
func (c *Canon) ChapterCount(book string) (int, error) {
	b, err := c.Book(book)
	if err != nil {
		return 0, err
	}
	return b.Chapters, nil
}

// VerseCount returns the number of verses in a chapter. exact is false when the
// count comes from an estimate; callers must treat such counts as approximate.
func (c *Canon) VerseCount(book string, chapter int) (count int, exact bool, err error) {
	b, err := c.Book(book)
	if err != nil {
		return 0, false, err
	}
	if chapter < 1 || chapter > b.Chapters {
		return 0, false, fmt.Errorf("%w: %s has %d chapters, got %d", ErrChapterOutOfRange, b.Name, b.Chapters, chapter)
	}

	if chapter <= len(b.VerseCounts) && b.VerseCounts[chapter-1] > 0 {
		return b.VerseCounts[chapter-1], true, nil
	}
	if b.DefaultVerses > 0 {
		return b.DefaultVerses, false, nil
	}
	return DefaultVerseEstimate, false, nil
}

// TotalVerses sums verse counts (exact or estimated) across the canon.
func (c *Canon) TotalVerses() int {
	total := 0
	for _, b := range c.books {
		for ch := 1; ch <= b.Chapters; ch++ {
			n, _, _ := c.VerseCount(b.Name, ch)
			total += n
		}
	}
	return total
}

// Subset returns a canon restricted to the named books, keeping canonical order.
func (c *Canon) Subset(names []string) (*Canon, error) {
	if len(names) == 0 {
		return c, nil
	}

	want := make(map[int]bool, len(names))
	for _, name := range names {
		b, err := c.Book(name)
		if err != nil {
			return nil, err
		}
		want[b.Order-1] = true
	}

	list := make([]Book, 0, len(want))
	for i, b := range c.books {
		if want[i] {
			list = append(list, b)
		}
	}

	sub, err := New(list)
	if err != nil {
		return nil, err
	}
	// Keep the canonical order numbers of the parent canon.
	for i := range sub.books {
		sub.books[i].Order = c.index[normalizeBookKey(sub.books[i].Name)] + 1
	}
	return sub, nil
}

// Walk calls fn for every (book, chapter, verse) in canonical order, stopping
// at the first error fn returns.
func (c *Canon) Walk(fn func(b Book, chapter, verse int) error) error {
	for _, b := range c.books {
		for ch := 1; ch <= b.Chapters; ch++ {
			n, _, err := c.VerseCount(b.Name, ch)
			if err != nil {
				return err
			}
			for v := 1; v <= n; v++ {
				if err := fn(b, ch, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func normalizeBookKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, ".")
	return strings.Join(strings.Fields(name), " ")
}

// bookAliases maps normalized alternate spellings to canonical names.
var bookAliases = map[string]string{
	"psalm":           "Psalms",
	"ps":              "Psalms",
	"song of songs":   "Song of Solomon",
	"canticles":       "Song of Solomon",
	"revelations":     "Revelation",
	"apocalypse":      "Revelation",
	"gen":             "Genesis",
	"ex":              "Exodus",
	"deut":            "Deuteronomy",
	"prov":            "Proverbs",
	"eccles":          "Ecclesiastes",
	"isa":             "Isaiah",
	"jer":             "Jeremiah",
	"matt":            "Matthew",
	"mt":              "Matthew",
	"mk":              "Mark",
	"lk":              "Luke",
	"jn":              "John",
	"rom":             "Romans",
	"1 jn":            "1 John",
	"2 jn":            "2 John",
	"3 jn":            "3 John",
	"first john":      "1 John",
	"1st john":        "1 John",
	"phil":            "Philippians",
	"heb":             "Hebrews",
	"rev":             "Revelation",
	"i samuel":        "1 Samuel",
	"ii samuel":       "2 Samuel",
	"i kings":         "1 Kings",
	"ii kings":        "2 Kings",
	"i corinthians":   "1 Corinthians",
	"ii corinthians":  "2 Corinthians",
	"i thessalonians": "1 Thessalonians",
	"i timothy":       "1 Timothy",
	"ii timothy":      "2 Timothy",
	"i peter":         "1 Peter",
	"ii peter":        "2 Peter",
	"i john":          "1 John",
}
