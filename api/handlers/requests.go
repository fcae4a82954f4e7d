package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/meghashyamc/docsearch/apperror"
	"github.com/meghashyamc/docsearch/validation"
)

const defaultSearchCount = 5

const msgMalformedCreateBody = `request body must be a JSON object with string fields "name" and "content"`

// CreateRequest distinguishes absent fields (nil) from empty ones.
type CreateRequest struct {
	Name    *string `json:"name" validate:"present"`
	Content *string `json:"content" validate:"present"`
}

type CompletionsRequest struct {
	Text string `form:"text" validate:"required"`
}

type SearchRequest struct {
	Query string `form:"q" validate:"required"`
	Start string `form:"start" validate:"omitempty,digits"`
	Count string `form:"count" validate:"omitempty,digits"`
}

type CreateParams struct {
	Name    string
	Content string
}

type GetParams struct {
	Name string
}

type CompletionsParams struct {
	Text string
}

type SearchParams struct {
	Query string
	Start int
	Count int
}

func parseCreate(c *gin.Context, validator *validation.Validator) (CreateParams, error) {
	request := CreateRequest{}
	if err := bindOptionalJSON(c, &request); err != nil {
		return CreateParams{}, apperror.Validation(msgMalformedCreateBody)
	}

	if err := validator.ValidateBody(request); err != nil {
		return CreateParams{}, err
	}

	return CreateParams{Name: *request.Name, Content: *request.Content}, nil
}

// parseGet never fails: a request without a name does not match the route.
func parseGet(c *gin.Context, _ *validation.Validator) (GetParams, error) {
	return GetParams{Name: c.Param("name")}, nil
}

func parseCompletions(c *gin.Context, validator *validation.Validator) (CompletionsParams, error) {
	request := CompletionsRequest{}
	if err := c.ShouldBindQuery(&request); err != nil {
		return CompletionsParams{}, err
	}

	if err := validator.ValidateQuery(request); err != nil {
		return CompletionsParams{}, err
	}

	return CompletionsParams{Text: request.Text}, nil
}

func parseSearch(c *gin.Context, validator *validation.Validator) (SearchParams, error) {
	request := SearchRequest{}
	if err := c.ShouldBindQuery(&request); err != nil {
		return SearchParams{}, err
	}

	if err := validator.ValidateQuery(request); err != nil {
		return SearchParams{}, err
	}

	start, err := queryInt(request.Start, "start", 0)
	if err != nil {
		return SearchParams{}, err
	}
	count, err := queryInt(request.Count, "count", defaultSearchCount)
	if err != nil {
		return SearchParams{}, err
	}

	return SearchParams{Query: request.Query, Start: start, Count: count}, nil
}

// bindOptionalJSON treats a missing or empty body, or one not sent as
// application/json, as an empty JSON object.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if c.ContentType() != binding.MIMEJSON {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// queryInt converts an already validated digit string, failing only when it
// does not fit in an int.
func queryInt(value string, field string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, validation.BadParameter(validation.LocationQuery, field)
	}
	return n, nil
}
