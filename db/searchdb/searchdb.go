package searchdb

import "context"

type DB interface {
	Index(doc Document) error
	IndexBatch(documents []Document) error
	Delete(documentIDs []string) error
	Search(ctx context.Context, queryString string) (*Response, error)
	Terms(prefix string) ([]string, error)
	GetDocCount() (uint64, error)
	Close() error
}
