package errcodes

import (
	"fmt"
	"net/http"

	"github.com/segmentio/encoding/json"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		http.StatusNotFound,
		resource + " not found.",
		"not_found",
	}
}

func ValidationError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_error",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_type_error",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		fmt.Sprintf("Unknown Parameter %q", param),
		"unknown_parameter",
	}
}

// ServerError returns a 502 error for upstream 5xx and otherwise
// unclassified failures.
func ServerError(msg string) error {
	return &Error{
		http.StatusBadGateway,
		msg,
		"server_error",
	}
}

// NetworkError wraps a transport-level failure: the request never completed
// or the response body wasn't parseable.
func NetworkError(err error) error {
	return &Error{
		http.StatusBadGateway,
		err.Error(),
		"network_error",
	}
}

func MalformedPayload() error {
	return &Error{
		http.StatusBadRequest,
		"Malformed Payload",
		"malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		http.StatusBadRequest,
		"Request body can't be empty.",
		"empty_request_body",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		http.StatusUnsupportedMediaType,
		"Unsupported Media Type",
		"unsupported_media_type",
	}
}

// errorBody is the upstream API's error envelope on non-2xx responses.
type errorBody struct {
	Message string `json:"message"`
}

// FromResponse classifies a non-2xx upstream response. The message prefers
// the server-supplied message field, then the HTTP status text, then a
// generic "HTTP <code>" string.
func FromResponse(statusCode int, body []byte) error {
	msg := ""
	parsed := errorBody{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		msg = parsed.Message
	}
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", statusCode)
	}

	switch {
	case statusCode == http.StatusNotFound:
		return &Error{http.StatusNotFound, msg, "not_found"}
	case statusCode >= 400 && statusCode < 500:
		return &Error{statusCode, msg, "validation_error"}
	default:
		return &Error{statusCode, msg, "server_error"}
	}
}
