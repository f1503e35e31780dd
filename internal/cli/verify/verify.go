// Package verify recognises the anti-spam challenges the API attaches to
// write actions and drives the one-shot answer submission.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"moltbook/internal/cli/client"
	"moltbook/internal/cli/clierr"
	"moltbook/internal/models"
)

// Required is returned in place of a result when the server withheld the
// action pending a challenge answer. Challenge is nil when the server flagged
// verification without sending details.
type Required struct {
	Action    string
	Challenge *models.VerificationChallenge
	Token     string
}

func (r *Required) Error() string {
	if r.Challenge != nil && r.Challenge.Code != "" {
		return fmt.Sprintf("verification required to complete %s (code %s)", r.Action, r.Challenge.Code)
	}
	return fmt.Sprintf("verification required to complete %s", r.Action)
}

func (r *Required) Kind() clierr.Kind { return clierr.KindVerificationRequired }

// Detect inspects a write response for a challenge. It returns nil when the
// action went through.
func Detect(raw json.RawMessage, action string) *Required {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	if ch := challengeIn(payload); ch != nil {
		return &Required{Action: action, Challenge: ch}
	}
	for _, key := range []string{"post", "comment", "agent"} {
		if inner, ok := payload[key].(map[string]any); ok {
			if ch := challengeIn(inner); ch != nil {
				return &Required{Action: action, Challenge: ch}
			}
		}
	}
	if required, _ := payload["verification_required"].(bool); required {
		return &Required{Action: action}
	}
	return nil
}

func challengeIn(m map[string]any) *models.VerificationChallenge {
	v, ok := m["verification"].(map[string]any)
	if !ok {
		return nil
	}
	return &models.VerificationChallenge{
		Code:           first(v, "verification_code", "code"),
		Challenge:      first(v, "challenge_text", "challenge"),
		Instructions:   first(v, "instructions"),
		VerifyEndpoint: first(v, "verify_endpoint"),
		ExpiresAt:      first(v, "expires_at"),
	}
}

func first(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// FromError turns a captcha rejection into a Required. Other errors pass
// through unchanged.
func FromError(err error, action string) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.CaptchaRequired() {
		return &Required{Action: action, Token: apiErr.Token}
	}
	return err
}

type State int

const (
	AwaitingChallenge State = iota
	Resolved
)

func (s State) String() string {
	if s == Resolved {
		return "resolved"
	}
	return "awaiting_challenge"
}

// ErrAlreadySubmitted is returned by a second Submit on the same Flow.
var ErrAlreadySubmitted = errors.New("challenge answer already submitted")

// Submitter posts code and answer to the server and returns the raw response.
type Submitter func(ctx context.Context, code, answer string) (json.RawMessage, error)

// Outcome is the result of a submission. AlreadyAnswered is set when the
// server reports the challenge was completed earlier.
type Outcome struct {
	Result          json.RawMessage
	AlreadyAnswered bool
}

// Flow holds one challenge code. The answer is submitted exactly once;
// there is no retry or automatic solving.
type Flow struct {
	code  string
	state State
}

func NewFlow(code string) *Flow {
	return &Flow{code: strings.TrimSpace(code)}
}

func (f *Flow) State() State { return f.state }

func (f *Flow) Submit(ctx context.Context, answer string, send Submitter) (Outcome, error) {
	if f.state == Resolved {
		return Outcome{}, ErrAlreadySubmitted
	}
	if f.code == "" {
		return Outcome{}, clierr.Argument("verification code is required")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Outcome{}, clierr.Argument("solution is required")
	}
	f.state = Resolved
	raw, err := send(ctx, f.code, answer)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && strings.EqualFold(apiErr.Message, "Already answered") {
			return Outcome{AlreadyAnswered: true}, nil
		}
		return Outcome{}, fmt.Errorf("verification failed: %w", err)
	}
	return Outcome{Result: raw}, nil
}
