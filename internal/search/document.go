// Package search keeps an in-memory Bleve index of watch-list titles so a
// user can find a movie in their own list by a partial or accent-free
// title.
package search

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cinesphere/cinesphere-server/internal/domain"
)

// Document is the indexed form of a watch-list entry.
type Document struct {
	UserID      int64
	MovieID     int64
	Title       string
	TitleFolded string
}

// DocumentID identifies an entry in the index. Movie ids are only unique
// per user.
func DocumentID(userID, movieID int64) string {
	return strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(movieID, 10)
}

// EntryDocument converts a watch-list entry to a Document.
func EntryDocument(e *domain.WatchListEntry) *Document {
	return &Document{
		UserID:      e.UserID,
		MovieID:     e.MovieID,
		Title:       e.Title,
		TitleFolded: Fold(e.Title),
	}
}

// ID returns the document id.
func (d *Document) ID() string {
	return DocumentID(d.UserID, d.MovieID)
}

// ToMap converts the document to a map with the field names used by the
// index mapping.
func (d *Document) ToMap() map[string]any {
	return map[string]any{
		fieldUserID:      strconv.FormatInt(d.UserID, 10),
		fieldMovieID:     d.MovieID,
		fieldTitle:       d.Title,
		fieldTitleFolded: d.TitleFolded,
	}
}

// Fold lower-cases s and strips diacritics: "Amélie" -> "amelie".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.TrimSpace(cases.Lower(language.Und).String(folded))
}
