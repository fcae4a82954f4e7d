package handlers

import (
	"context"

	"github.com/meghashyamc/docsearch/services/finder"
)

//go:generate mockgen -source=finder.go -destination=mocks/finder.go -package=mocks Finder

// Finder is the document collection the handlers serve.
type Finder interface {
	AddContent(ctx context.Context, name string, content string) error
	DocContent(ctx context.Context, name string) (string, error)
	Complete(ctx context.Context, text string) ([]string, error)
	Find(ctx context.Context, query string) ([]finder.SearchHit, error)
}
