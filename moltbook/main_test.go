package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testAPIKey = "moltbook_test_key_123456"

func TestProfilePrintsNameAndKarma(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/agents/me" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer "+testAPIKey {
			t.Fatalf("unexpected auth header: %q", got)
		}
		_, _ = io.WriteString(w, `{"success":true,"agent":{"name":"a","karma":5}}`)
	}))
	defer srv.Close()
	writeCLIConfig(t, testAPIKey, "a")

	code, stdout, stderr := runCLI(t, "--api-url", srv.URL, "profile")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, " a\n") || !strings.Contains(stdout, " 5\n") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestMissingConfigFails(t *testing.T) {
	setCLIEnv(t)

	code, stdout, stderr := runCLI(t, "profile")
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if stdout != "" {
		t.Fatalf("unexpected stdout: %q", stdout)
	}
	if !strings.Contains(stderr, "moltbook init") {
		t.Fatalf("expected setup hint, got: %s", stderr)
	}
}

func TestEnvironmentKeyWinsOverFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer moltbook_from_env_0000" {
			t.Fatalf("unexpected auth header: %q", got)
		}
		_, _ = io.WriteString(w, `{"status":"claimed"}`)
	}))
	defer srv.Close()
	writeCLIConfig(t, testAPIKey, "a")
	t.Setenv("MOLTBOOK_API_KEY", "moltbook_from_env_0000")
	t.Setenv("MOLTBOOK_API_URL", srv.URL)

	code, stdout, stderr := runCLI(t, "status")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Claimed") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestPostWithChallengeExitsThree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/posts" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"success":true,"post":{"id":"p1","verification":{"code":"v1","challenge":"What is 2+2?"}}}`)
	}))
	defer srv.Close()
	writeCLIConfig(t, testAPIKey, "a")

	code, stdout, _ := runCLI(t, "--api-url", srv.URL, "post", "Hello", "general", "Body")
	if code != 3 {
		t.Fatalf("exit %d, want 3", code)
	}
	if !strings.Contains(stdout, `moltbook verify --code "v1"`) {
		t.Fatalf("missing verify instructions:\n%s", stdout)
	}
	if strings.Contains(stdout, "Post created") {
		t.Fatalf("challenge reported as success:\n%s", stdout)
	}
}

func TestPostDefaultsAndLinkDetection(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_, _ = io.WriteString(w, `{"success":true,"post":{"id":"p2"}}`)
	}))
	defer srv.Close()
	writeCLIConfig(t, testAPIKey, "a")

	code, stdout, stderr := runCLI(t, "--api-url", srv.URL, "post", "--content", "https://example.com/x")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if got["submolt_name"] != "general" || got["title"] != "Untitled Post" || got["url"] != "https://example.com/x" {
		t.Fatalf("unexpected body: %v", got)
	}
	if _, ok := got["content"]; ok {
		t.Fatalf("link should not be sent as content: %v", got)
	}
	if !strings.Contains(stdout, "Post created in m/general") || !strings.Contains(stdout, "ID: p2") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestFollowResolvesCanonicalName(t *testing.T) {
	var followed string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/agents/profile":
			if r.URL.Query().Get("name") != "bob" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"success":false,"error":"Agent not found"}`)
				return
			}
			_, _ = io.WriteString(w, `{"success":true,"agent":{"name":"Bob"}}`)
		case r.Method == http.MethodPost:
			followed = r.URL.Path
			_, _ = io.WriteString(w, `{"success":true}`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL)
		}
	}))
	defer srv.Close()
	writeCLIConfig(t, testAPIKey, "a")

	code, stdout, stderr := runCLI(t, "--api-url", srv.URL, "follow", "BOB")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if followed != "/agents/Bob/follow" {
		t.Fatalf("followed %q", followed)
	}
	if !strings.Contains(stdout, "Now following Bob") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestFormatJSONPassesPayloadThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"posts":[{"id":"p1","title":"t","extra":{"x":1}}]}`)
	}))
	defer srv.Close()
	writeCLIConfig(t, testAPIKey, "a")

	code, stdout, stderr := runCLI(t, "--api-url", srv.URL, "--format", "json", "global")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("stdout is not json: %v\n%s", err, stdout)
	}
	posts, _ := payload["posts"].([]any)
	if len(posts) != 1 {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestRateLimitShowsRetryHint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"success":false,"error":"Rate limited","retry_after_minutes":30,"hint":"Posts are limited to one per 30 minutes"}`)
	}))
	defer srv.Close()
	writeCLIConfig(t, testAPIKey, "a")

	code, _, stderr := runCLI(t, "--api-url", srv.URL, "post", "--title", "again")
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr, "retry after 30 minutes") || !strings.Contains(stderr, "hint: Posts are limited") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestVerifyAlreadyAnsweredIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["verification_code"] != "v1" || body["answer"] != "4" {
			t.Fatalf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"success":false,"error":"Already answered"}`)
	}))
	defer srv.Close()
	writeCLIConfig(t, testAPIKey, "a")

	code, stdout, stderr := runCLI(t, "--api-url", srv.URL, "verify", "--code", "v1", "--solution", "4")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Already verified") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestUsageErrorsExitTwo(t *testing.T) {
	writeCLIConfig(t, testAPIKey, "a")
	body := filepath.Join(t.TempDir(), "body.md")
	if err := os.WriteFile(body, []byte("from file"), 0o600); err != nil {
		t.Fatalf("write body: %v", err)
	}

	cases := map[string][]string{
		"unknown command": {"bogus"},
		"unknown flag":    {"feed", "--nope"},
		"missing arg":     {"follow"},
		"bad format":      {"--format", "xml", "feed"},
		"both bodies":     {"comment", "p1", "inline", "--from-file", body},
		"negative limit":  {"feed", "--limit", "-1"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			code, _, stderr := runCLI(t, args...)
			if code != 2 {
				t.Fatalf("exit %d, want 2; stderr: %s", code, stderr)
			}
		})
	}
}

func TestInitRequiresKeyWithoutTerminal(t *testing.T) {
	setCLIEnv(t)

	code, _, _ := runCLI(t, "init")
	if code != 2 {
		t.Fatalf("exit %d, want 2", code)
	}
}

func TestInitSavesCredentials(t *testing.T) {
	dir := setCLIEnv(t)

	code, stdout, stderr := runCLI(t, "init", "--api-key", testAPIKey, "--name", "molty")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Credentials saved") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
	p := filepath.Join(dir, "credentials.json")
	info, err := os.Stat(p)
	if err != nil {
		t.Fatalf("stat credentials: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("credentials mode = %o", info.Mode().Perm())
	}
	b, _ := os.ReadFile(p)
	if !strings.Contains(string(b), `"agent_name": "molty"`) {
		t.Fatalf("unexpected credentials: %s", b)
	}
}

func TestRegisterSavesReturnedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/agents/register" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Fatalf("register must not send credentials, got %q", got)
		}
		_, _ = io.WriteString(w, `{"agent":{"name":"molty","api_key":"`+testAPIKey+`","claim_url":"https://moltbook.com/claim/x","verification_code":"reef-42"}}`)
	}))
	defer srv.Close()
	dir := setCLIEnv(t)

	code, stdout, stderr := runCLI(t, "--api-url", srv.URL, "register", "--name", "molty")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "https://moltbook.com/claim/x") || !strings.Contains(stdout, "reef-42") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
	b, err := os.ReadFile(filepath.Join(dir, "credentials.json"))
	if err != nil || !strings.Contains(string(b), testAPIKey) {
		t.Fatalf("credentials not saved: %s (%v)", b, err)
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// setCLIEnv isolates the invocation from the user's environment and returns
// the credentials directory.
func setCLIEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, "moltbook")
	t.Setenv("MOLTBOOK_CONFIG_DIR", dir)
	t.Setenv("MOLTBOOK_API_KEY", "")
	t.Setenv("MOLTBOOK_AGENT_NAME", "")
	t.Setenv("MOLTBOOK_API_URL", "")
	t.Setenv("COLUMNS", "100")

	cwd := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(cwd); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(prev)
	})
	return dir
}

func writeCLIConfig(t *testing.T, apiKey, name string) {
	t.Helper()
	dir := setCLIEnv(t)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	b, _ := json.Marshal(map[string]string{"api_key": apiKey, "agent_name": name})
	if err := os.WriteFile(filepath.Join(dir, "credentials.json"), b, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestHeartbeatYAMLUsesFieldNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/agents/status":
			_, _ = io.WriteString(w, `{"status":"claimed"}`)
		case "/agents/dm/check":
			_, _ = io.WriteString(w, `{"success":true,"has_activity":false}`)
		case "/feed":
			_, _ = io.WriteString(w, `{"success":true,"posts":[{"id":"p1","title":"hello"}]}`)
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()
	writeCLIConfig(t, testAPIKey, "a")

	code, stdout, stderr := runCLI(t, "--api-url", srv.URL, "--format", "yaml", "heartbeat")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	for _, want := range []string{"status: claimed", "title: hello", "has_activity: false"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("missing %q in:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "- 123") {
		t.Fatalf("raw payload printed as bytes:\n%s", stdout)
	}
}

func TestChallengeYAMLUsesFieldNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"post":{"id":"p1","verification":{"code":"v1","challenge":"What is 2+2?","verify_endpoint":"/verify","expires_at":"2026-01-01T00:00:00Z"}}}`)
	}))
	defer srv.Close()
	writeCLIConfig(t, testAPIKey, "a")

	code, stdout, _ := runCLI(t, "--api-url", srv.URL, "--format", "yaml", "post", "Hello", "general", "Body")
	if code != 3 {
		t.Fatalf("exit %d, want 3", code)
	}
	for _, want := range []string{"verification_required: true", "verify_endpoint: /verify", "expires_at:", "code: v1"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("missing %q in:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "verifyendpoint") {
		t.Fatalf("struct field names leaked into yaml:\n%s", stdout)
	}
}

func TestRegisterWithoutNameOrTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()
	setCLIEnv(t)

	code, _, stderr := runCLI(t, "--api-url", srv.URL, "register")
	if code != 2 {
		t.Fatalf("exit %d, want 2", code)
	}
	if !strings.Contains(stderr, "--name") {
		t.Fatalf("expected name hint, got: %s", stderr)
	}
}

func TestEmptyPostWithoutTerminalUsesDefaults(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_, _ = io.WriteString(w, `{"success":true,"post":{"id":"p3"}}`)
	}))
	defer srv.Close()
	writeCLIConfig(t, testAPIKey, "a")

	code, _, stderr := runCLI(t, "--api-url", srv.URL, "post")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if got["title"] != "Untitled Post" || got["submolt_name"] != "general" {
		t.Fatalf("unexpected body: %v", got)
	}
	if strings.Contains(stderr, "Title:") {
		t.Fatalf("prompted without a terminal: %s", stderr)
	}
}

func TestCommandGroupsHitEndpoints(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		if got := r.Header.Get("Authorization"); got != "Bearer "+testAPIKey {
			t.Fatalf("unexpected auth header: %q", got)
		}
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()
	writeCLIConfig(t, testAPIKey, "a")
	img := filepath.Join(t.TempDir(), "pic.png")
	if err := os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n"), 0o600); err != nil {
		t.Fatalf("write image: %v", err)
	}

	tests := []struct {
		args   []string
		method string
		path   string
	}{
		{[]string{"submolt-info", "gen"}, http.MethodGet, "/submolts/gen"},
		{[]string{"submolt", "m/gen"}, http.MethodGet, "/submolts/gen/feed"},
		{[]string{"submolts"}, http.MethodGet, "/submolts"},
		{[]string{"create-submolt", "gen", "General"}, http.MethodPost, "/submolts"},
		{[]string{"subscribe", "gen"}, http.MethodPost, "/submolts/gen/subscribe"},
		{[]string{"unsubscribe", "gen"}, http.MethodDelete, "/submolts/gen/subscribe"},
		{[]string{"submolt-settings", "gen", "--description", "x"}, http.MethodPatch, "/submolts/gen/settings"},
		{[]string{"submolt-mods", "list", "gen"}, http.MethodGet, "/submolts/gen/moderators"},
		{[]string{"submolt-mods", "add", "gen", "bob"}, http.MethodPost, "/submolts/gen/moderators"},
		{[]string{"submolt-mods", "remove", "gen", "bob"}, http.MethodDelete, "/submolts/gen/moderators/bob"},
		{[]string{"submolt-avatar", "gen", img}, http.MethodPost, "/submolts/gen/avatar"},
		{[]string{"submolt-banner", "gen", img}, http.MethodPost, "/submolts/gen/banner"},
		{[]string{"pin", "p1"}, http.MethodPost, "/posts/p1/pin"},
		{[]string{"pin-post", "p1"}, http.MethodPost, "/posts/p1/pin"},
		{[]string{"unpin", "p1"}, http.MethodDelete, "/posts/p1/pin"},
		{[]string{"dm-check"}, http.MethodGet, "/agents/dm/check"},
		{[]string{"dm-requests"}, http.MethodGet, "/agents/dm/requests"},
		{[]string{"dm-request", "--to", "bob", "--message", "hi"}, http.MethodPost, "/agents/dm/request"},
		{[]string{"dm-approve", "c1"}, http.MethodPost, "/agents/dm/requests/c1/approve"},
		{[]string{"dm-reject", "c1"}, http.MethodPost, "/agents/dm/requests/c1/reject"},
		{[]string{"dm-list"}, http.MethodGet, "/agents/dm/conversations"},
		{[]string{"dm-read", "c1"}, http.MethodGet, "/agents/dm/conversations/c1"},
		{[]string{"dm-send", "c1", "hi"}, http.MethodPost, "/agents/dm/conversations/c1/send"},
		{[]string{"avatar", "upload", img}, http.MethodPost, "/agents/me/avatar"},
		{[]string{"avatar", "remove"}, http.MethodDelete, "/agents/me/avatar"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[:1], " "), func(t *testing.T) {
			method, path = "", ""
			code, _, stderr := runCLI(t, append([]string{"--api-url", srv.URL}, tt.args...)...)
			if code != 0 {
				t.Fatalf("%v: exit %d, stderr: %s", tt.args, code, stderr)
			}
			if method != tt.method || path != tt.path {
				t.Fatalf("%v: got %s %s, want %s %s", tt.args, method, path, tt.method, tt.path)
			}
		})
	}
}
