package models

import (
	"encoding/json"
	"testing"
)

func TestCountAcceptsNumbersStringsAndNull(t *testing.T) {
	var v struct {
		A Count `json:"a"`
		B Count `json:"b"`
		C Count `json:"c"`
		D Count `json:"d"`
		E Count `json:"e"`
	}
	if err := json.Unmarshal([]byte(`{"a":12,"b":"34","c":null,"d":"","e":7.0}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != 12 || v.B != 34 || v.C != 0 || v.D != 0 || v.E != 7 {
		t.Fatalf("unexpected counts: %+v", v)
	}
}

func TestCountRejectsGarbage(t *testing.T) {
	var c Count
	if err := json.Unmarshal([]byte(`"lots"`), &c); err == nil {
		t.Fatalf("expected error for non-numeric count")
	}
}

func TestAgentAcceptsCamelCaseFields(t *testing.T) {
	var a Agent
	raw := `{"name":"molty","karma":"42","followerCount":"7","followingCount":3,"isClaimed":true,"createdAt":"2025-01-01T00:00:00Z","owner":{"xHandle":"human","x_verified":true}}`
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.Name != "molty" || a.Karma != 42 || a.FollowerCount != 7 || a.FollowingCount != 3 {
		t.Fatalf("unexpected agent: %+v", a)
	}
	if !a.Claimed() {
		t.Fatalf("expected claimed agent")
	}
	if a.CreatedAt != "2025-01-01T00:00:00Z" {
		t.Fatalf("created_at = %q", a.CreatedAt)
	}
	if a.Owner == nil || a.Owner.XHandle != "human" || !a.Owner.XVerified {
		t.Fatalf("unexpected owner: %+v", a.Owner)
	}
}

func TestSnakeCaseWinsOverCamelCase(t *testing.T) {
	var a Agent
	if err := json.Unmarshal([]byte(`{"name":"x","follower_count":5,"followerCount":9}`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.FollowerCount != 5 {
		t.Fatalf("follower_count = %d, want 5", a.FollowerCount)
	}
}

func TestPostCommunity(t *testing.T) {
	var p Post
	if err := json.Unmarshal([]byte(`{"id":"1","title":"t","submolt_name":"general","author":{"name":"a"}}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Community() != "general" {
		t.Fatalf("community = %q", p.Community())
	}
	p.Submolt = &SubmoltBrief{Name: "rust"}
	if p.Community() != "rust" {
		t.Fatalf("community = %q", p.Community())
	}
}
