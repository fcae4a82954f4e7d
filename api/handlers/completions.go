package handlers

import (
	"context"
	"net/http"
)

// Completions are returned exactly as the finder orders them, without links.
func handleCompletions(docFinder Finder) func(context.Context, RequestContext[CompletionsParams]) (*reply, error) {
	return func(ctx context.Context, rc RequestContext[CompletionsParams]) (*reply, error) {
		completions, err := docFinder.Complete(ctx, rc.Params.Text)
		if err != nil {
			return nil, err
		}
		if completions == nil {
			completions = []string{}
		}

		return &reply{status: http.StatusOK, body: completions}, nil
	}
}
