package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/provider"
	"github.com/soapbox/bible-verses/internal/search"
	"github.com/soapbox/bible-verses/internal/testutil"
	"github.com/soapbox/bible-verses/internal/translation"
)

func setupService(t *testing.T, opts Options) (*Service, *database.Repository) {
	t.Helper()
	db, repo := testutil.SetupTestDB(t)
	prov, err := provider.New(canon.Default())
	require.NoError(t, err)
	return NewService(repo, prov, search.NewEngine(db), opts), repo
}

func TestGetVerseInstantBeforeAndAfter(t *testing.T) {
	svc, repo := setupService(t, DefaultOptions())
	ctx := context.Background()

	_, err := repo.GetVerse(ctx, "John 3:16", "NIV")
	require.ErrorIs(t, err, database.ErrNotFound)

	first, err := svc.GetVerseInstant(ctx, "John", 3, "16", "NIV")
	require.NoError(t, err)
	assert.NotEmpty(t, first.Text)
	assert.True(t, first.IsAuthentic)
	assert.Equal(t, "John 3:16", first.Reference)
	assert.Positive(t, first.ID)

	second, err := svc.GetVerseInstant(ctx, "john", 3, "16", "niv")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Text, second.Text)

	n, err := repo.CountVerses(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGetVerseInstantPlaceholder(t *testing.T) {
	svc, _ := setupService(t, DefaultOptions())

	got, err := svc.GetVerseInstant(context.Background(), "Numbers", 7, "12", "NIV")
	require.NoError(t, err)
	assert.False(t, got.IsAuthentic)
	assert.NotEmpty(t, got.Text)
	assert.Equal(t, "Law", got.Category)
}

func TestGetVerseInstantValidation(t *testing.T) {
	svc, repo := setupService(t, DefaultOptions())
	ctx := context.Background()

	tests := []struct {
		name    string
		book    string
		chapter int
		verse   string
		tr      string
		wantErr error
	}{
		{"unknown book", "Hezekiah", 1, "1", "KJV", canon.ErrUnknownBook},
		{"chapter out of range", "Jude", 2, "1", "KJV", canon.ErrChapterOutOfRange},
		{"verse out of range", "John", 3, "99", "KJV", canon.ErrVerseOutOfRange},
		{"bad verse", "John", 3, "x", "KJV", canon.ErrInvalidReference},
		{"unknown translation", "John", 3, "16", "XYZ", translation.ErrUnknownTranslation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetVerseInstant(ctx, tt.book, tt.chapter, tt.verse, tt.tr)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	n, err := repo.CountVerses(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetVerseInstantDefaultTranslation(t *testing.T) {
	svc, _ := setupService(t, DefaultOptions())

	got, err := svc.GetReference(context.Background(), "Psalm 23:1", "")
	require.NoError(t, err)
	assert.Equal(t, "KJV", got.Translation)
	assert.Equal(t, "Psalms 23:1", got.Reference)
	assert.Equal(t, "The LORD is my shepherd; I shall not want.", got.Text)
}

func TestConcurrentMissesConverge(t *testing.T) {
	svc, repo := setupService(t, DefaultOptions())
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetVerseInstant(ctx, "Romans", 8, "28", "ESV")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	n, err := repo.CountVerses(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// cancelOnMissRepo cancels the caller's context as soon as a lookup misses,
// as a client disconnecting mid-request would.
type cancelOnMissRepo struct {
	*database.Repository
	cancel context.CancelFunc
}

func (r *cancelOnMissRepo) GetVerse(ctx context.Context, reference, translation string) (*database.VerseRecord, error) {
	v, err := r.Repository.GetVerse(context.WithoutCancel(ctx), reference, translation)
	if errors.Is(err, database.ErrNotFound) && r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	return v, err
}

func TestMissCompletesAfterCallerCancels(t *testing.T) {
	db, repo := testutil.SetupTestDB(t)
	prov, err := provider.New(canon.Default())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wrapped := &cancelOnMissRepo{Repository: repo, cancel: cancel}
	svc := NewService(wrapped, prov, search.NewEngine(db), DefaultOptions())

	got, err := svc.GetVerseInstant(ctx, "Ruth", 1, "16", "NIV")
	require.NoError(t, err)
	assert.Equal(t, "Ruth 1:16", got.Reference)
	require.ErrorIs(t, ctx.Err(), context.Canceled)

	stored, err := repo.GetVerse(context.Background(), "Ruth 1:16", "NIV")
	require.NoError(t, err)
	assert.Equal(t, got.ID, stored.ID)
}

func TestSearchVersesLove(t *testing.T) {
	svc, repo := setupService(t, DefaultOptions())
	ctx := context.Background()

	for _, ref := range []string{"John 3:16", "1 John 4:8", "Romans 8:28", "Genesis 1:1", "Psalm 23:1"} {
		_, err := svc.GetReference(ctx, ref, "NIV")
		require.NoError(t, err)
	}
	for i := 1; i <= 6; i++ {
		testutil.SeedVerses(t, repo, testutil.Verse("Romans", 45, 13, i, "NIV", fmt.Sprintf("Love fixture %d", i), 0, false))
	}

	verses, err := svc.SearchVerses(ctx, "love", "NIV", 5)
	require.NoError(t, err)
	assert.Len(t, verses, 5)
	for _, v := range verses {
		haystack := strings.ToLower(v.Text + " " + v.Reference + " " + v.Book)
		assert.Contains(t, haystack, "love")
		assert.Equal(t, "NIV", v.Translation)
	}
	// Most popular authored match first.
	assert.Equal(t, "John 3:16", verses[0].Reference)
}

func TestSearchVersesLimits(t *testing.T) {
	svc, repo := setupService(t, Options{DefaultLimit: 2, MaxResults: 3})
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		testutil.SeedVerses(t, repo, testutil.Verse("Jude", 65, 1, i, "KJV", "grace and peace", 0, false))
	}

	tests := []struct {
		limit int
		want  int
	}{
		{0, 2},
		{-1, 2},
		{1, 1},
		{3, 3},
		{500, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.limit), func(t *testing.T) {
			verses, err := svc.SearchVerses(ctx, "grace", "KJV", tt.limit)
			require.NoError(t, err)
			assert.Len(t, verses, tt.want)
		})
	}

	_, err := svc.SearchVerses(ctx, "   ", "KJV", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = svc.SearchVerses(ctx, "grace", "ABC", 5)
	assert.ErrorIs(t, err, translation.ErrUnknownTranslation)
}

func TestRandomVerse(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back when nothing qualifies", func(t *testing.T) {
		svc, _ := setupService(t, DefaultOptions())

		got, err := svc.RandomVerse(ctx, "NIV")
		require.NoError(t, err)
		assert.Equal(t, "John 3:16", got.Reference)
		assert.Equal(t, "NIV", got.Translation)
		assert.True(t, got.IsAuthentic)
	})

	t.Run("custom fallback", func(t *testing.T) {
		opts := DefaultOptions()
		opts.FallbackReference = "Psalm 23:1"
		svc, _ := setupService(t, opts)

		got, err := svc.RandomVerse(ctx, "KJV")
		require.NoError(t, err)
		assert.Equal(t, "Psalms 23:1", got.Reference)
	})

	t.Run("picks popular rows", func(t *testing.T) {
		svc, repo := setupService(t, DefaultOptions())
		testutil.SeedVerses(t, repo,
			testutil.Verse("Romans", 45, 8, 28, "ESV", "all things work together for good", 85, true),
			testutil.Verse("Romans", 45, 8, 29, "ESV", "placeholder", 0, false),
		)

		for range 5 {
			got, err := svc.RandomVerse(ctx, "ESV")
			require.NoError(t, err)
			assert.Equal(t, "Romans 8:28", got.Reference)
		}
	})

	t.Run("unknown translation", func(t *testing.T) {
		svc, _ := setupService(t, DefaultOptions())
		_, err := svc.RandomVerse(ctx, "XYZ")
		assert.ErrorIs(t, err, translation.ErrUnknownTranslation)
	})
}

func TestServiceWithCachedRepository(t *testing.T) {
	db, repo := testutil.SetupTestDB(t)
	cached := database.NewCachedRepository(repo, 32, time.Minute)
	prov, err := provider.New(canon.Default())
	require.NoError(t, err)
	svc := NewService(cached, prov, search.NewEngine(db), DefaultOptions())
	ctx := context.Background()

	first, err := svc.GetVerseInstant(ctx, "Genesis", 1, "1", "KJV")
	require.NoError(t, err)
	assert.Equal(t, 1, cached.CacheLen())

	second, err := svc.GetVerseInstant(ctx, "Genesis", 1, "1", "KJV")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestClampLimit(t *testing.T) {
	svc := NewService(nil, nil, nil, Options{})
	assert.Equal(t, 20, svc.ClampLimit(0))
	assert.Equal(t, 100, svc.ClampLimit(1000))
	assert.Equal(t, 7, svc.ClampLimit(7))
}
