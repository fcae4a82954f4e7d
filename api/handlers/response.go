package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/apperror"
	"github.com/meghashyamc/docsearch/services/finder"
)

// reply is what a route handler produces on success.
type reply struct {
	status  int
	headers map[string]string
	body    any
}

type CreateResponse struct {
	Href string `json:"href"`
}

type GetResponse struct {
	Content string `json:"content"`
	Links   []Link `json:"links"`
}

// SearchResult is a copy of a hit with its document link added.
type SearchResult struct {
	finder.SearchHit
	Href string `json:"href"`
}

type SearchResponse struct {
	Results    []SearchResult `json:"results"`
	TotalCount int            `json:"totalCount"`
	Links      []Link         `json:"links"`
}

func writeReply(c *gin.Context, r *reply) {
	for key, value := range r.headers {
		c.Header(key, value)
	}
	c.JSON(r.status, r.body)
}

func writeError(c *gin.Context, mapped apperror.Mapped) {
	c.AbortWithStatusJSON(mapped.Status, mapped.Envelope)
}
