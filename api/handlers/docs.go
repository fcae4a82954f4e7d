package handlers

import (
	"context"
	"net/http"
)

func handleCreate(docFinder Finder) func(context.Context, RequestContext[CreateParams]) (*reply, error) {
	return func(ctx context.Context, rc RequestContext[CreateParams]) (*reply, error) {
		if err := docFinder.AddContent(ctx, rc.Params.Name, rc.Params.Content); err != nil {
			return nil, err
		}

		href := rc.Links.document(rc.Params.Name)
		return &reply{
			status:  http.StatusCreated,
			headers: map[string]string{"Location": href},
			body:    CreateResponse{Href: href},
		}, nil
	}
}

func handleGet(docFinder Finder) func(context.Context, RequestContext[GetParams]) (*reply, error) {
	return func(ctx context.Context, rc RequestContext[GetParams]) (*reply, error) {
		content, err := docFinder.DocContent(ctx, rc.Params.Name)
		if err != nil {
			return nil, err
		}

		return &reply{
			status: http.StatusOK,
			body: GetResponse{
				Content: content,
				Links:   []Link{{Rel: RelSelf, Href: rc.Links.document(rc.Params.Name)}},
			},
		}, nil
	}
}

func handleSearch(docFinder Finder) func(context.Context, RequestContext[SearchParams]) (*reply, error) {
	return func(ctx context.Context, rc RequestContext[SearchParams]) (*reply, error) {
		params := rc.Params
		hits, err := docFinder.Find(ctx, params.Query)
		if err != nil {
			return nil, err
		}

		lo, hi := window(len(hits), params.Start, params.Count)
		results := make([]SearchResult, 0, hi-lo)
		for _, hit := range hits[lo:hi] {
			results = append(results, SearchResult{SearchHit: hit, Href: rc.Links.document(hit.Name)})
		}

		return &reply{
			status: http.StatusOK,
			body: SearchResponse{
				Results:    results,
				TotalCount: len(hits),
				Links:      pageLinks(rc.Links, params.Query, len(hits), params.Start, params.Count, len(results)),
			},
		}, nil
	}
}
