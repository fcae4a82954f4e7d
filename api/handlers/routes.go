package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/apperror"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/validation"
)

// RequestContext carries everything a route handler may use: the validated
// parameters and the link builder for the current request.
type RequestContext[T any] struct {
	Params T
	Links  linkBuilder
}

type routeHandler func(c *gin.Context, links linkBuilder) (*reply, error)

type route struct {
	method  string
	path    string
	handler routeHandler
}

// bind runs parse (which does all validation) before handle, so a rejected
// request never reaches the finder.
func bind[T any](
	validator *validation.Validator,
	parse func(*gin.Context, *validation.Validator) (T, error),
	handle func(context.Context, RequestContext[T]) (*reply, error),
) routeHandler {
	return func(c *gin.Context, links linkBuilder) (*reply, error) {
		params, err := parse(c, validator)
		if err != nil {
			return nil, err
		}
		return handle(c.Request.Context(), RequestContext[T]{Params: params, Links: links})
	}
}

func routeTable(docFinder Finder, validator *validation.Validator) []route {
	return []route{
		{method: http.MethodPost, path: docsPath, handler: bind(validator, parseCreate, handleCreate(docFinder))},
		{method: http.MethodGet, path: docsPath + "/:name", handler: bind(validator, parseGet, handleGet(docFinder))},
		{method: http.MethodGet, path: completionsPath, handler: bind(validator, parseCompletions, handleCompletions(docFinder))},
		{method: http.MethodGet, path: docsPath, handler: bind(validator, parseSearch, handleSearch(docFinder))},
	}
}

// Setup registers the document routes. The table is built once here and never
// changes afterwards.
func Setup(router gin.IRoutes, logger logger.Logger, docFinder Finder, validator *validation.Validator, port string) {
	mapper := apperror.NewMapper(logger)
	for _, route := range routeTable(docFinder, validator) {
		router.Handle(route.method, route.path, dispatch(route.handler, port, mapper))
	}
}

// dispatch is the single exit point for every route: a reply is written as
// is, any error goes through the mapper.
func dispatch(handler routeHandler, port string, mapper *apperror.Mapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := handler(c, newLinkBuilder(c.Request, port))
		if err != nil {
			writeError(c, mapper.Map(err))
			return
		}
		writeReply(c, result)
	}
}
