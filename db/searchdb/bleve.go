package searchdb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/meghashyamc/docsearch/logger"
)

const IndexingBatchSize = 100

const (
	indexFieldContent = "content"
	indexFieldName    = "name"
)

type BleveDB struct {
	indexPath string
	logger    logger.Logger
	index     bleve.Index
}

func New(logger logger.Logger, indexPath string) (*BleveDB, error) {
	index, err := bleve.New(indexPath, createIndexMapping())
	if err != nil {
		if !errors.Is(err, bleve.ErrorIndexPathExists) {
			logger.Error("could not create index", "path", indexPath, "err", err.Error())
			return nil, err
		}
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Error("could not open index", "path", indexPath, "err", err.Error())
			return nil, err
		}
	}
	return &BleveDB{indexPath: indexPath, logger: logger, index: index}, nil
}

func createIndexMapping() mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// Name field - not analyzed (exact match)
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(indexFieldName, nameFieldMapping)

	// Content lives in the key-value store; the index only needs terms and their locations
	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = standard.Name
	contentFieldMapping.Store = false
	contentFieldMapping.Index = true
	contentFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(indexFieldContent, contentFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

func (b *BleveDB) Index(doc Document) error {
	if err := b.index.Index(doc.Name, doc); err != nil {
		b.logger.Error("could not index document", "name", doc.Name, "err", err.Error())
		return fmt.Errorf("could not index document %s: %w", doc.Name, err)
	}
	return nil
}

func (b *BleveDB) IndexBatch(documents []Document) error {

	batch := b.index.NewBatch()

	for i, doc := range documents {

		if err := batch.Index(doc.Name, doc); err != nil {
			b.logger.Error("could not index document", "name", doc.Name, "err", err.Error())
			return err
		}

		// Execute batch when it reaches the batch size
		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index documents", "err", err.Error())
			return err
		}
	}

	return nil
}

func (b *BleveDB) Delete(documentIDs []string) error {
	batch := b.index.NewBatch()

	for i, docID := range documentIDs {
		batch.Delete(docID)

		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not delete documents", "err", err.Error())
			return err
		}
	}

	return nil
}

// Search returns every document matching any analyzed term of queryString,
// together with the byte offsets of each matched occurrence in the content.
func (b *BleveDB) Search(ctx context.Context, queryString string) (*Response, error) {
	total, err := b.index.DocCount()
	if err != nil {
		b.logger.Error("could not count documents", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	searchQuery := b.buildSearchQuery(queryString)
	if searchQuery == nil || total == 0 {
		return &Response{Results: []Result{}}, nil
	}

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, int(total), 0, false)
	searchRequest.Fields = []string{indexFieldName}
	searchRequest.IncludeLocations = true

	searchResult, err := b.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, len(searchResult.Hits))
	for i, hit := range searchResult.Hits {
		results[i] = Result{
			Name:    hit.ID,
			Score:   hit.Score,
			Matches: contentMatches(hit.Locations),
		}
	}

	return &Response{Results: results, Total: searchResult.Total}, nil
}

func (b *BleveDB) buildSearchQuery(queryString string) query.Query {
	queryString = strings.ToLower(strings.TrimSpace(queryString))
	if queryString == "" {
		return nil
	}

	contentQuery := bleve.NewMatchQuery(queryString)
	contentQuery.SetField(indexFieldContent)
	contentQuery.SetOperator(query.MatchQueryOperatorOr)

	return contentQuery
}

func contentMatches(locations search.FieldTermLocationMap) []Match {
	var matches []Match
	for _, termLocations := range locations[indexFieldContent] {
		for _, location := range termLocations {
			if location == nil {
				continue
			}
			matches = append(matches, Match{Start: location.Start, End: location.End})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })
	return matches
}

// Terms lists the indexed content terms starting with prefix, in lexicographic order.
func (b *BleveDB) Terms(prefix string) ([]string, error) {
	dict, err := b.index.FieldDictPrefix(indexFieldContent, []byte(prefix))
	if err != nil {
		b.logger.Error("could not open field dictionary", "prefix", prefix, "err", err.Error())
		return nil, fmt.Errorf("could not read terms: %w", err)
	}
	defer dict.Close()

	terms := []string{}
	for {
		entry, err := dict.Next()
		if err != nil {
			b.logger.Error("could not iterate field dictionary", "prefix", prefix, "err", err.Error())
			return nil, fmt.Errorf("could not read terms: %w", err)
		}
		if entry == nil {
			break
		}
		if entry.Count == 0 {
			continue
		}
		terms = append(terms, entry.Term)
	}

	return terms, nil
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}
