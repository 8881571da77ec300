package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// personal resources: a 403 here means the session is gone, elsewhere it is a plain refusal
var personalPrefixes = []string{"/users/me", "/my"}

// IsAuthFailure reports whether a response status on path invalidates an attached credential.
func IsAuthFailure(status int, path string) bool {
	switch status {
	case http.StatusUnauthorized:
		return true
	case http.StatusForbidden:
		return isPersonalPath(path)
	default:
		return false
	}
}

func isPersonalPath(path string) bool {
	p, _, _ := strings.Cut(path, "?")
	for _, prefix := range personalPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

type errorBody struct {
	Message string          `json:"message"`
	Fields  json.RawMessage `json:"fields"`
	Error   string          `json:"error"`
}

// ErrorMessage picks the user-facing text of a failed response: message, then the first
// field error, then error, then the raw body (status text when empty).
func ErrorMessage(raw []byte, status int) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		if st := http.StatusText(status); st != "" {
			return st
		}
		return fmt.Sprintf("HTTP %d", status)
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return text
	}
	if body.Message != "" {
		return body.Message
	}
	if field, msg, ok := firstField(body.Fields); ok {
		return field + ": " + msg
	}
	if body.Error != "" {
		return body.Error
	}
	return text
}

// firstField returns the first entry of a JSON object in document order.
func firstField(raw json.RawMessage) (string, string, bool) {
	if len(raw) == 0 {
		return "", "", false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return "", "", false
	}
	if !dec.More() {
		return "", "", false
	}
	keyTok, err := dec.Token()
	if err != nil {
		return "", "", false
	}
	key, ok := keyTok.(string)
	if !ok {
		return "", "", false
	}
	var value any
	if err := dec.Decode(&value); err != nil {
		return "", "", false
	}
	switch v := value.(type) {
	case string:
		return key, v, true
	case nil:
		return key, "is invalid", true
	default:
		return key, fmt.Sprint(v), true
	}
}
