package generate

import "fmt"

// Stable machine-readable failure codes surfaced to callers.
const (
	CodeMissingAPIKey      = "genai_api_key_missing"
	CodeFetchFailed        = "failed_to_fetch_url"
	CodeBadURLStatus       = "bad_url_status"
	CodeUnsupportedType    = "unsupported_content_type"
	CodeTooManyLinks       = "too_many_links"
	CodeNoURLs             = "no_urls_provided"
	CodeEmptyText          = "empty_text"
	CodeGenerationFailed   = "generation_failed"
	CodeInvalidModelOutput = "invalid_model_response"
	CodePersistFailed      = "persist_failed"
)

// Error is a pipeline failure with a stable code and the HTTP status it maps
// to. Err carries the underlying cause, if any.
type Error struct {
	Code   string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code string, status int, err error) *Error {
	return &Error{Code: code, Status: status, Err: err}
}
