package canon

import (
	"fmt"
	"strconv"
	"strings"
)

// Reference identifies a passage as "<Book> <chapter>:<verse>". Verse is kept
// as a string so ranges such as "2-3" survive round trips.
type Reference struct {
	Book    string
	Chapter int
	Verse   string
}

// String renders the canonical form, e.g. "John 3:16".
func (r Reference) String() string {
	return fmt.Sprintf("%s %d:%s", r.Book, r.Chapter, r.Verse)
}

// FirstVerse returns the first verse number of the range.
func (r Reference) FirstVerse() int {
	n, err := firstNumber(r.Verse)
	if err != nil {
		return 0
	}
	return n
}

// NewReference builds a canonical reference, resolving the book name and
// checking chapter and verse bounds. Verse bounds are only enforced when the
// chapter's verse count is exact.
func (c *Canon) NewReference(book string, chapter int, verse string) (Reference, error) {
	b, err := c.Book(book)
	if err != nil {
		return Reference{}, err
	}

	count, exact, err := c.VerseCount(b.Name, chapter)
	if err != nil {
		return Reference{}, err
	}

	verse = strings.ReplaceAll(strings.TrimSpace(verse), " ", "")
	start, end, err := parseRange(verse)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: verse %q", ErrInvalidReference, verse)
	}
	if exact && end > count {
		return Reference{}, fmt.Errorf("%w: %s %d has %d verses, got %d", ErrVerseOutOfRange, b.Name, chapter, count, end)
	}

	if start == end {
		verse = strconv.Itoa(start)
	} else {
		verse = fmt.Sprintf("%d-%d", start, end)
	}
	return Reference{Book: b.Name, Chapter: chapter, Verse: verse}, nil
}

// ParseReference parses strings like "John 3:16", "1 John 4:8" or
// "Psalm 23:1-3" against the canon.
func (c *Canon) ParseReference(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	sep := strings.LastIndex(s, " ")
	if sep <= 0 {
		return Reference{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}

	bookPart, locPart := s[:sep], s[sep+1:]
	chapterStr, verseStr, ok := strings.Cut(locPart, ":")
	if !ok {
		return Reference{}, fmt.Errorf("%w: %q missing verse", ErrInvalidReference, s)
	}

	chapter, err := strconv.Atoi(chapterStr)
	if err != nil || chapter < 1 {
		return Reference{}, fmt.Errorf("%w: chapter %q", ErrInvalidReference, chapterStr)
	}

	return c.NewReference(bookPart, chapter, verseStr)
}

func parseRange(s string) (int, int, error) {
	startStr, endStr, isRange := strings.Cut(s, "-")
	start, err := strconv.Atoi(startStr)
	if err != nil || start < 1 {
		return 0, 0, fmt.Errorf("bad verse start %q", startStr)
	}
	if !isRange {
		return start, start, nil
	}
	end, err := strconv.Atoi(endStr)
	if err != nil || end < start {
		return 0, 0, fmt.Errorf("bad verse end %q", endStr)
	}
	return start, end, nil
}

func firstNumber(s string) (int, error) {
	start, _, err := parseRange(s)
	return start, err
}
