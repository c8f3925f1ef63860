package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// RejectedError is returned for HTTP 400. Message is the server's own text.
type RejectedError struct {
	Message string
	Fields  map[string]string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "request rejected"
	}
	return e.Message
}

// StatusError is any other non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden)
}

type errorBody struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

type fieldIssue struct {
	Field   string `json:"field"`
	Param   string `json:"param"`
	Path    string `json:"path"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

func decodeError(code int, data []byte) error {
	var body errorBody
	_ = json.Unmarshal(data, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}

	if code == http.StatusBadRequest {
		return &RejectedError{Message: msg, Fields: decodeFieldIssues(body.Errors)}
	}
	return &StatusError{Code: code, Message: msg}
}

// decodeFieldIssues accepts {"field":"msg"} as well as a list of
// {field|param|path, msg|message} objects.
func decodeFieldIssues(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	var byName map[string]string
	if err := json.Unmarshal(raw, &byName); err == nil {
		if len(byName) == 0 {
			return nil
		}
		return byName
	}

	var list []fieldIssue
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	out := make(map[string]string, len(list))
	for _, it := range list {
		name := firstNonEmpty(it.Field, it.Param, it.Path)
		text := firstNonEmpty(it.Msg, it.Message)
		if name == "" || text == "" {
			continue
		}
		if _, seen := out[name]; !seen {
			out[name] = text
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
