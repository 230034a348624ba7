package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/lookup"
	"github.com/soapbox/bible-verses/internal/translation"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   Code
		wantStatus int
	}{
		{"unknown book", fmt.Errorf("wrap: %w", canon.ErrUnknownBook), CodeInvalidReference, http.StatusBadRequest},
		{"chapter", canon.ErrChapterOutOfRange, CodeInvalidReference, http.StatusBadRequest},
		{"verse", canon.ErrVerseOutOfRange, CodeInvalidReference, http.StatusBadRequest},
		{"reference", canon.ErrInvalidReference, CodeInvalidReference, http.StatusBadRequest},
		{"translation", translation.ErrUnknownTranslation, CodeInvalidTranslation, http.StatusBadRequest},
		{"empty query", lookup.ErrEmptyQuery, CodeInvalidRequest, http.StatusBadRequest},
		{"not found", database.ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"unavailable", fmt.Errorf("upsert: %w", database.ErrUnavailable), CodeUnavailable, http.StatusServiceUnavailable},
		{"api error", ErrRateLimited, CodeRateLimited, http.StatusTooManyRequests},
		{"other", fmt.Errorf("disk on fire"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}

	assert.Nil(t, FromError(nil))
	assert.Equal(t, "Internal server error", FromError(fmt.Errorf("secret detail")).Message)
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, "Verse not found", NotFound("Verse").Message)
	assert.Equal(t, http.StatusBadRequest, InvalidNumber("chapter").HTTPStatus)
	assert.Contains(t, InvalidNumber("chapter").Message, "chapter")
	assert.Equal(t, "Internal server error", Internal("").Message)
	assert.Equal(t, "boom", Internal("boom").Error())
}
