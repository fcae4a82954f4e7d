package handlers

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

const (
	docsPath        = "/docs"
	completionsPath = "/completions"
)

const (
	RelSelf     = "self"
	RelNext     = "next"
	RelPrevious = "previous"
)

type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// linkBuilder makes absolute links for one request. The port is the
// service's configured port, not the one the client connected through.
type linkBuilder struct {
	base string
}

func newLinkBuilder(r *http.Request, port string) linkBuilder {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	host := r.Host
	if hostname, _, err := net.SplitHostPort(host); err == nil {
		host = hostname
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	return linkBuilder{base: fmt.Sprintf("%s://%s:%s", scheme, host, port)}
}

func (l linkBuilder) document(name string) string {
	return l.base + docsPath + "/" + name
}

// search only encodes the spaces of query; every other character is kept as is.
func (l linkBuilder) search(query string, start int, count int) string {
	return fmt.Sprintf("%s%s?q=%s&start=%d&count=%d",
		l.base, docsPath, strings.ReplaceAll(query, " ", "%20"), start, count)
}
