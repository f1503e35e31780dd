package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"moltbook/internal/cli/clierr"
	"moltbook/internal/cli/verify"
	"moltbook/internal/models"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRenderer(t *testing.T, format Format) (*Renderer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("COLUMNS", "")
	var buf bytes.Buffer
	r := New(&buf, format)
	r.SetNow(func() time.Time { return fixedNow })
	return r, &buf
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, " yaml ": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("table"); clierr.KindOf(err) != clierr.KindArgument {
		t.Fatalf("expected argument error, got %v", err)
	}
}

func TestRelTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{fixedNow.Add(-10 * time.Second).Format(time.RFC3339), "just now"},
		{fixedNow.Add(-5 * time.Minute).Format(time.RFC3339), "5 minutes ago"},
		{fixedNow.Add(-3 * time.Hour).Format(time.RFC3339), "3 hours ago"},
		{fixedNow.Add(-30 * 24 * time.Hour).Format(time.RFC3339), "2026-01-30"},
		{"yesterday", "yesterday"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := RelTime(tc.in, fixedNow); got != tc.want {
			t.Fatalf("RelTime(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWidthFromColumns(t *testing.T) {
	t.Setenv("COLUMNS", "120")
	if got := Width(&bytes.Buffer{}); got != 118 {
		t.Fatalf("Width = %d, want 118", got)
	}
	t.Setenv("COLUMNS", "20")
	if got := Width(&bytes.Buffer{}); got != 40 {
		t.Fatalf("Width = %d, want 40", got)
	}
	t.Setenv("COLUMNS", "")
	if got := Width(&bytes.Buffer{}); got != 80 {
		t.Fatalf("Width = %d, want 80", got)
	}
}

func TestProfileShowsNameAndKarma(t *testing.T) {
	r, buf := newTestRenderer(t, FormatText)
	r.Profile(models.Object[models.Agent]{Value: models.Agent{Name: "a", Karma: 5}}, "Your Profile")
	out := buf.String()
	if !strings.Contains(out, "Name:") || !strings.Contains(out, " a\n") {
		t.Fatalf("missing name:\n%s", out)
	}
	if !strings.Contains(out, "Karma:") || !strings.Contains(out, " 5\n") {
		t.Fatalf("missing karma:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("non-terminal output should not carry escape codes:\n%q", out)
	}
}

func TestProfileSkipsMissingFields(t *testing.T) {
	r, buf := newTestRenderer(t, FormatText)
	r.Profile(models.Object[models.Agent]{Value: models.Agent{Name: "solo"}}, "")
	out := buf.String()
	for _, absent := range []string{"Avatar:", "Owner", "Joined:", "Claimed:"} {
		if strings.Contains(out, absent) {
			t.Fatalf("unexpected %q in:\n%s", absent, out)
		}
	}
}

func TestPostsListingTruncatesContent(t *testing.T) {
	r, buf := newTestRenderer(t, FormatText)
	r.SetWidth(40)
	long := strings.Repeat("lorem ipsum dolor sit amet ", 20)
	posts := models.List[models.Post]{Items: []models.Post{{
		ID: "p1", Title: "Hello", Content: long, Upvotes: 1200,
		Author:    models.Author{Name: "molty"},
		Submolt:   &models.SubmoltBrief{Name: "general"},
		CreatedAt: fixedNow.Add(-2 * time.Hour).Format(time.RFC3339),
	}}}
	r.Posts("Your Feed (hot)", posts)
	out := buf.String()
	bodyLines := 0
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "│  ") {
			bodyLines++
		}
	}
	if bodyLines != 4 || !strings.Contains(out, "│  ...") {
		t.Fatalf("expected 3 content lines plus ellipsis, got %d:\n%s", bodyLines, out)
	}
	for _, want := range []string{"#1", "Title: Hello", "m/general", "upvotes (1,200)", "Post ID: p1 • 2 hours ago"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPostsEmptyShowsHints(t *testing.T) {
	r, buf := newTestRenderer(t, FormatText)
	r.Posts("Your Feed", models.List[models.Post]{}, "moltbook global")
	if !strings.Contains(buf.String(), "No posts found.") || !strings.Contains(buf.String(), "moltbook global") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestLooseListStillRenders(t *testing.T) {
	r, buf := newTestRenderer(t, FormatText)
	l := models.List[models.Post]{Loose: []map[string]any{{"id": "p9", "title": "odd shape", "author": map[string]any{"name": "x"}}}}
	r.Posts("Global Feed", l)
	out := buf.String()
	if !strings.Contains(out, "odd shape") || !strings.Contains(out, "ID: p9") || !strings.Contains(out, "by x") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCommentsRenderReplies(t *testing.T) {
	r, buf := newTestRenderer(t, FormatText)
	l := models.List[models.Comment]{Items: []models.Comment{{
		ID: "c1", Content: "top", Author: models.Author{Name: "a"}, Upvotes: 2,
		Replies: []models.Comment{{ID: "c2", Content: "reply", Author: models.Author{Name: "b"}}},
	}}}
	r.Comments(l)
	out := buf.String()
	if !strings.Contains(out, "Comment ID: c1") || !strings.Contains(out, "    │ reply") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestChallengeShowsVerifyCommand(t *testing.T) {
	r, buf := newTestRenderer(t, FormatText)
	r.Challenge(&verify.Required{Action: "post", Challenge: &models.VerificationChallenge{Code: "v1", Challenge: "2+2", Instructions: "Answer with a number"}})
	out := buf.String()
	for _, want := range []string{"Verification Required", "Challenge: 2+2", "To complete your post", `moltbook verify --code "v1" --solution "<YOUR_ANSWER>"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRawJSONAndYAML(t *testing.T) {
	raw := json.RawMessage(`{"agent":{"name":"a","karma":5}}`)

	r, buf := newTestRenderer(t, FormatJSON)
	if err := r.Raw(raw); err != nil {
		t.Fatalf("Raw json: %v", err)
	}
	if !strings.Contains(buf.String(), `"karma": 5`) {
		t.Fatalf("unexpected json:\n%s", buf.String())
	}

	r, buf = newTestRenderer(t, FormatYAML)
	if err := r.Raw(raw); err != nil {
		t.Fatalf("Raw yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "karma: 5") || !strings.Contains(buf.String(), "name: a") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}
}

func TestDMCheckWithoutActivity(t *testing.T) {
	r, buf := newTestRenderer(t, FormatText)
	r.DMCheck(models.Object[models.DMCheck]{})
	if !strings.Contains(buf.String(), "No new DM activity") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestMessagesMarkOwnMessages(t *testing.T) {
	r, buf := newTestRenderer(t, FormatText)
	l := models.List[models.Message]{Items: []models.Message{
		{FromAgent: models.Author{Name: "Me"}, Message: "hi"},
		{FromAgent: models.Author{Name: "bob"}, Message: "yo", NeedsHumanInput: true},
	}}
	r.Messages(l, "me")
	out := buf.String()
	if !strings.Contains(out, "You") || !strings.Contains(out, "bob") || !strings.Contains(out, "Needs human input") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestErrorWithHint(t *testing.T) {
	r, buf := newTestRenderer(t, FormatText)
	r.Error("Post not found", "Check the id")
	if !strings.Contains(buf.String(), "error: Post not found") || !strings.Contains(buf.String(), "hint: Check the id") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestYAMLValueFollowsJSONTags(t *testing.T) {
	r, buf := newTestRenderer(t, FormatYAML)
	err := r.Value(map[string]any{
		"status":       json.RawMessage(`{"status":"claimed"}`),
		"verification": &models.VerificationChallenge{Code: "v1", VerifyEndpoint: "/verify", ExpiresAt: "x"},
	})
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"status: claimed", "code: v1", "verify_endpoint: /verify", "expires_at: x"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "verifyendpoint") || strings.Contains(out, "- 123") {
		t.Fatalf("yaml ignored json encoding:\n%s", out)
	}
}

func TestVerifyResultRendersAgent(t *testing.T) {
	r, buf := newTestRenderer(t, FormatText)
	r.VerifyResult(json.RawMessage(`{"success":true,"agent":{"name":"molty","karma":12}}`))
	out := buf.String()
	for _, want := range []string{"Verification Successful!", "Profile", " molty\n", " 12\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
