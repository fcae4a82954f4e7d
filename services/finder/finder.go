package finder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/meghashyamc/docsearch/db/kvdb"
	"github.com/meghashyamc/docsearch/db/searchdb"
	"github.com/meghashyamc/docsearch/logger"
)

// Indexer represents the search index operations the finder needs
type Indexer interface {
	Index(doc searchdb.Document) error
	IndexBatch(documents []searchdb.Document) error
	Delete(documentIDs []string) error
	Search(ctx context.Context, queryString string) (*searchdb.Response, error)
	Terms(prefix string) ([]string, error)
}

// ContentStore holds the full text of every document by name
type ContentStore interface {
	Create(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
}

type SearchHit struct {
	Name  string   `json:"name"`
	Score int      `json:"score"`
	Lines []string `json:"lines"`
}

type Service struct {
	logger  logger.Logger
	indexer Indexer
	content ContentStore
}

func New(logger logger.Logger, indexer Indexer, content ContentStore) *Service {
	return &Service{
		logger:  logger,
		indexer: indexer,
		content: content,
	}
}

func (s *Service) AddContent(ctx context.Context, name string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.storeContent(name, content); err != nil {
		return err
	}

	if err := s.indexer.Index(searchdb.Document{Name: name, Content: content}); err != nil {
		if deleteErr := s.content.Delete(kvdb.DocumentsBucket, name); deleteErr != nil {
			s.logger.Error("could not roll back document content", "name", name, "err", deleteErr.Error())
		}
		return fmt.Errorf("could not index document %s: %w", name, err)
	}

	return nil
}

// BatchResult reports which documents of a batch were added. Rejected holds
// the domain outcome of every document that was not.
type BatchResult struct {
	Added    int
	Rejected []*Error
}

// AddContents stores every document whose name is free and indexes them
// together. If indexing fails nothing of the batch is kept.
func (s *Service) AddContents(ctx context.Context, documents []searchdb.Document) (BatchResult, error) {
	result := BatchResult{}
	stored := make([]searchdb.Document, 0, len(documents))

	for _, doc := range documents {
		if err := ctx.Err(); err != nil {
			s.rollback(stored, false)
			return BatchResult{}, err
		}

		if err := s.storeContent(doc.Name, doc.Content); err != nil {
			var domainErr *Error
			if errors.As(err, &domainErr) {
				result.Rejected = append(result.Rejected, domainErr)
				continue
			}
			s.rollback(stored, false)
			return BatchResult{}, err
		}
		stored = append(stored, doc)
	}

	if len(stored) == 0 {
		return result, nil
	}

	if err := s.indexer.IndexBatch(stored); err != nil {
		s.rollback(stored, true)
		return BatchResult{}, fmt.Errorf("could not index batch of %d documents: %w", len(stored), err)
	}

	result.Added = len(stored)
	return result, nil
}

func (s *Service) storeContent(name string, content string) error {
	if err := s.content.Create(kvdb.DocumentsBucket, name, content); err != nil {
		switch {
		case errors.Is(err, kvdb.ErrExists):
			return &Error{Code: CodeExists, Message: fmt.Sprintf("document %s already exists", name)}
		case errors.Is(err, kvdb.ErrInvalidKey):
			return &Error{Code: CodeBadParam, Message: "document name cannot be empty"}
		default:
			s.logger.Error("could not store document content", "name", name, "err", err.Error())
			return fmt.Errorf("could not store document %s: %w", name, err)
		}
	}
	return nil
}

// rollback removes documents from the content store and, when they may have
// been partially indexed, from the index.
func (s *Service) rollback(documents []searchdb.Document, indexed bool) {
	names := make([]string, 0, len(documents))
	for _, doc := range documents {
		names = append(names, doc.Name)
	}

	if indexed && len(names) > 0 {
		if err := s.indexer.Delete(names); err != nil {
			s.logger.Error("could not remove documents from index", "count", len(names), "err", err.Error())
		}
	}

	for _, name := range names {
		if err := s.content.Delete(kvdb.DocumentsBucket, name); err != nil {
			s.logger.Error("could not roll back document content", "name", name, "err", err.Error())
		}
	}
}

func (s *Service) DocContent(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content, err := s.content.Get(kvdb.DocumentsBucket, name)
	if err != nil {
		if errors.Is(err, kvdb.ErrNotFound) || errors.Is(err, kvdb.ErrInvalidKey) {
			return "", &Error{Code: CodeNotFound, Message: fmt.Sprintf("doc %s not found", name)}
		}
		return "", fmt.Errorf("could not read document %s: %w", name, err)
	}

	return content, nil
}

// Complete returns the indexed words which complete the last word of text.
// Nothing is completed once text ends in whitespace.
func (s *Service) Complete(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := strings.Fields(text)
	if len(words) == 0 || unicode.IsSpace(lastRune(text)) {
		return []string{}, nil
	}

	prefix := strings.ToLower(words[len(words)-1])
	completions, err := s.indexer.Terms(prefix)
	if err != nil {
		return nil, fmt.Errorf("could not complete %q: %w", prefix, err)
	}

	return completions, nil
}

// Find returns the documents containing any of the words in query, ordered
// by number of occurrences (descending) and then by name.
func (s *Service) Find(ctx context.Context, query string) ([]SearchHit, error) {
	response, err := s.indexer.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not search for %q: %w", query, err)
	}

	hits := make([]SearchHit, 0, len(response.Results))
	for _, result := range response.Results {
		if len(result.Matches) == 0 {
			continue
		}

		content, err := s.content.Get(kvdb.DocumentsBucket, result.Name)
		if err != nil {
			if errors.Is(err, kvdb.ErrNotFound) {
				s.logger.Warn("indexed document has no content", "name", result.Name)
				continue
			}
			return nil, fmt.Errorf("could not read document %s: %w", result.Name, err)
		}

		hits = append(hits, SearchHit{
			Name:  result.Name,
			Score: len(result.Matches),
			Lines: matchedLines(content, result.Matches),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Name < hits[j].Name
	})

	return hits, nil
}

func lastRune(text string) rune {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0
	}
	return runes[len(runes)-1]
}
