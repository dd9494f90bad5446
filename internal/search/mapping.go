package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Index field names.
const (
	fieldUserID      = "user_id"
	fieldMovieID     = "movie_id"
	fieldTitle       = "title"
	fieldTitleFolded = "title_folded"
)

// buildIndexMapping creates the mapping for watch-list documents.
//
// user_id is a keyword so every query can be scoped to one user with a
// term query. title_folded is what queries match against; title is only
// stored for display.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	docMapping := bleve.NewDocumentMapping()

	userFieldMapping := bleve.NewTextFieldMapping()
	userFieldMapping.Analyzer = keyword.Name
	userFieldMapping.Store = false
	docMapping.AddFieldMappingsAt(fieldUserID, userFieldMapping)

	movieFieldMapping := bleve.NewNumericFieldMapping()
	movieFieldMapping.Store = true
	docMapping.AddFieldMappingsAt(fieldMovieID, movieFieldMapping)

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = standard.Name
	titleFieldMapping.Store = true
	titleFieldMapping.Index = false
	docMapping.AddFieldMappingsAt(fieldTitle, titleFieldMapping)

	foldedFieldMapping := bleve.NewTextFieldMapping()
	foldedFieldMapping.Analyzer = standard.Name
	foldedFieldMapping.Store = false
	docMapping.AddFieldMappingsAt(fieldTitleFolded, foldedFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
