package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"moltbook/internal/cli/clierr"
)

const codeCaptchaRequired = "captcha_required"

// APIError is a non-2xx response, or a 2xx response with "success": false.
type APIError struct {
	Status     int
	Message    string
	Hint       string
	RetryAfter string
	Code       string
	Token      string
}

func (e *APIError) Error() string {
	if e.Status == http.StatusTooManyRequests {
		msg := e.Message
		if msg == "" {
			msg = "rate limited"
		}
		if e.RetryAfter != "" {
			return msg + "; retry after " + e.RetryAfter
		}
		return msg + "; wait before retrying"
	}
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Kind() clierr.Kind { return clierr.KindAPI }

func (e *APIError) RateLimited() bool { return e.Status == http.StatusTooManyRequests }

func (e *APIError) CaptchaRequired() bool { return e.Code == codeCaptchaRequired }

func newAPIError(status int, header http.Header, raw []byte) *APIError {
	e := &APIError{Status: status}
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(raw), &payload); err == nil {
		fill(e, payload)
	}
	if status == http.StatusTooManyRequests && e.RetryAfter == "" {
		if s := strings.TrimSpace(header.Get("Retry-After")); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				e.RetryAfter = plural(n, "second")
			}
		}
	}
	return e
}

// unsuccessful reports a 2xx body that carries "success": false.
func unsuccessful(status int, raw []byte) *APIError {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil
	}
	if ok, present := payload["success"].(bool); !present || ok {
		return nil
	}
	e := &APIError{Status: status}
	fill(e, payload)
	if e.Message == "" {
		e.Message = "request was not successful"
	}
	return e
}

func fill(e *APIError, payload map[string]any) {
	code := str(payload["error"])
	e.Code = code
	e.Message = code
	if msg := str(payload["message"]); msg != "" && (code == "" || code == codeCaptchaRequired) {
		e.Message = msg
	}
	if code == codeCaptchaRequired && e.Message == code {
		e.Message = "captcha required"
	}
	e.Hint = str(payload["hint"])
	e.Token = str(payload["token"])
	if n, ok := number(payload["retry_after_minutes"]); ok {
		e.RetryAfter = plural(n, "minute")
	} else if n, ok := number(payload["retry_after_seconds"]); ok {
		e.RetryAfter = plural(n, "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case nil:
		return ""
	case map[string]any:
		if m, ok := t["message"].(string); ok {
			return m
		}
		b, _ := json.Marshal(t)
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

func number(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}
