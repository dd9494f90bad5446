package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// DefaultLimit is used when Search is called with a limit below 1.
const DefaultLimit = 20

// Search returns the movie ids in userID's list whose title matches q,
// best match first. A blank query matches nothing.
func (s *Index) Search(ctx context.Context, userID int64, q string, limit int) ([]int64, error) {
	folded := Fold(q)
	if folded == "" {
		return []int64{}, nil
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildQuery(userID, folded), limit, 0, false)
	req.Fields = []string{fieldMovieID}

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	ids := make([]int64, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if id, ok := hit.Fields[fieldMovieID].(float64); ok {
			ids = append(ids, int64(id))
		}
	}
	return ids, nil
}

// buildQuery scopes a folded title query to one user.
//
// The text part ORs a full match, a fuzzy match for typos, and a prefix
// match on the last word so "matr" finds "Matrix".
func buildQuery(userID int64, folded string) query.Query {
	owner := bleve.NewTermQuery(strconv.FormatInt(userID, 10))
	owner.SetField(fieldUserID)

	match := bleve.NewMatchQuery(folded)
	match.SetField(fieldTitleFolded)
	match.SetBoost(3.0)

	textQueries := []query.Query{match}

	words := strings.Fields(folded)
	last := words[len(words)-1]

	if len(last) >= 3 {
		fuzzy := bleve.NewFuzzyQuery(last)
		fuzzy.SetField(fieldTitleFolded)
		fuzzy.SetFuzziness(1)
		fuzzy.SetBoost(0.8)
		textQueries = append(textQueries, fuzzy)
	}

	if len(last) >= 2 {
		prefix := bleve.NewPrefixQuery(last)
		prefix.SetField(fieldTitleFolded)
		prefix.SetBoost(0.5)
		textQueries = append(textQueries, prefix)
	}

	return bleve.NewConjunctionQuery(owner, bleve.NewDisjunctionQuery(textQueries...))
}
