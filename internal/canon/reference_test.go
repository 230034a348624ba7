package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	c := Default()

	tests := []struct {
		name  string
		input string
		want  string
		first int
	}{
		{"simple", "John 3:16", "John 3:16", 16},
		{"numbered book", "1 John 4:8", "1 John 4:8", 8},
		{"alias", "Psalm 23:1", "Psalms 23:1", 1},
		{"range", "Psalm 23:1-3", "Psalms 23:1-3", 1},
		{"osis", "Phil 4:13", "Philippians 4:13", 13},
		{"lower case", "genesis 1:1", "Genesis 1:1", 1},
		{"padded", "  Romans 8:28 ", "Romans 8:28", 28},
		{"multi word", "Song of Solomon 2:4", "Song of Solomon 2:4", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := c.ParseReference(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref.String())
			assert.Equal(t, tt.first, ref.FirstVerse())
		})
	}
}

func TestParseReferenceErrors(t *testing.T) {
	c := Default()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrInvalidReference},
		{"no verse", "John 3", ErrInvalidReference},
		{"bad chapter", "John x:1", ErrInvalidReference},
		{"unknown book", "Hezekiah 1:1", ErrUnknownBook},
		{"chapter too high", "John 22:1", ErrChapterOutOfRange},
		{"verse too high", "John 3:37", ErrVerseOutOfRange},
		{"reversed range", "John 3:17-16", ErrInvalidReference},
		{"zero verse", "John 3:0", ErrInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ParseReference(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewReferenceOnEstimatedChapter(t *testing.T) {
	c, err := New([]Book{{Name: "Tobit", Chapters: 14}})
	require.NoError(t, err)

	// Estimated counts do not reject verses beyond the estimate.
	ref, err := c.NewReference("Tobit", 3, "40")
	require.NoError(t, err)
	assert.Equal(t, "Tobit 3:40", ref.String())
}
