package finder

const (
	CodeBadParam = "BAD_PARAM"
	CodeExists   = "EXISTS"
	CodeNotFound = "NOT_FOUND"
)

// Error is a domain outcome reported to callers with a stable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) ErrorCode() string {
	return e.Code
}
