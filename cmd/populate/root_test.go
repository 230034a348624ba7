package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/translation"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestPopulateFixStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "verses.db")

	out, err := execute(t, "--database-url", dbPath, "--books", "Jude", "--translations", "kjv,NIV", "--batch-size", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Run Summary")

	// Rerunning is idempotent.
	_, err = execute(t, "--database-url", dbPath, "--books", "Jude", "--translations", "KJV,NIV")
	require.NoError(t, err)

	_, err = execute(t, "fix", "--database-url", dbPath)
	require.NoError(t, err)

	out, err = execute(t, "stats", "--database-url", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "KJV")
	assert.Contains(t, out, "NIV")
	assert.Contains(t, out, "ALL")

	db, err := database.Open(dbPath, database.DefaultOptions())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	n, err := database.NewRepository(db).CountVerses(t.Context())
	require.NoError(t, err)
	// Jude in two translations plus every authored verse written by fix.
	assert.GreaterOrEqual(t, n, int64(50))

	counts, err := database.NewRepository(db).CountByBook(t.Context(), "KJV")
	require.NoError(t, err)
	assert.Equal(t, int64(25), counts["Jude"])
}

func TestPopulateRejectsBadInput(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "verses.db")

	_, err := execute(t, "--database-url", dbPath, "--translations", "XYZ")
	assert.ErrorIs(t, err, translation.ErrUnknownTranslation)

	_, err = execute(t, "--database-url", dbPath, "--books", "Enoch")
	assert.ErrorIs(t, err, canon.ErrUnknownBook)
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions(&runFlags{books: " ps , 1 jn", translations: "esv", priorityOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Psalms", "1 John"}, opts.Books)
	assert.Equal(t, []translation.Code{translation.ESV}, opts.Translations)
	assert.True(t, opts.PriorityOnly)

	opts, err = parseOptions(&runFlags{})
	require.NoError(t, err)
	assert.Empty(t, opts.Books)
	assert.Len(t, opts.Translations, 17)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "verses.db", redactURL("verses.db"))
	assert.Equal(t, "postgres://***@db:5432/bible", redactURL("postgres://user:secret@db:5432/bible"))
	assert.Equal(t, "postgres", redactURL("host=db user=u password=p"))
}
