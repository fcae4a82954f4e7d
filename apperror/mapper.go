package apperror

import (
	"net/http"

	"github.com/meghashyamc/docsearch/logger"
)

var statusByCode = map[string]int{
	CodeExists:   http.StatusConflict,
	CodeNotFound: http.StatusNotFound,
}

// Envelope is the only error shape clients ever see.
type Envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Mapped struct {
	Status int
	Envelope
}

type Mapper struct {
	logger logger.Logger
}

func NewMapper(logger logger.Logger) *Mapper {
	return &Mapper{logger: logger}
}

func (m *Mapper) Map(err error) Mapped {
	failure := Normalize(err)

	var mapped Mapped
	if failure.Kind == KindInternal {
		mapped = Mapped{
			Status:   http.StatusInternalServerError,
			Envelope: Envelope{Code: CodeInternal, Message: failure.Message},
		}
	} else {
		status, ok := statusByCode[failure.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		mapped = Mapped{
			Status:   status,
			Envelope: Envelope{Code: failure.Code, Message: failure.Message},
		}
	}

	m.log(failure, mapped.Status)

	return mapped
}

// Absent documents are an expected outcome and are not logged.
func (m *Mapper) log(failure *Error, status int) {
	switch {
	case failure.Kind == KindDomain && failure.Code == CodeNotFound:
		return
	case failure.Kind == KindInternal:
		m.logger.Error("request failed", "kind", failure.Kind.String(), "status", status, "err", failure.Err)
	default:
		m.logger.Warn("request rejected", "kind", failure.Kind.String(), "status", status, "code", failure.Code, "message", failure.Message)
	}
}
