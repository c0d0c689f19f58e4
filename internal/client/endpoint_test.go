package client

import (
	"net/url"
	"strings"
	"testing"
)

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		path    string
		want    string
	}{
		{
			name:    "base with trailing slash, path with leading slash",
			baseURL: "https://x.test/api/",
			path:    "/users/5",
			want:    "https://x.test/api/users/5",
		},
		{
			name:    "base with trailing slash, path without leading slash",
			baseURL: "https://x.test/api/",
			path:    "users/5",
			want:    "https://x.test/api/users/5",
		},
		{
			name:    "base without trailing slash, path with leading slash",
			baseURL: "https://x.test/api",
			path:    "/users/5",
			want:    "https://x.test/api/users/5",
		},
		{
			name:    "base without trailing slash, path without leading slash",
			baseURL: "https://x.test/api",
			path:    "users/5",
			want:    "https://x.test/api/users/5",
		},
		{
			name:    "empty path",
			baseURL: "https://x.test/api",
			path:    "",
			want:    "https://x.test/api/",
		},
		{
			name:    "path with query string",
			baseURL: "https://x.test/api",
			path:    "workouts?week=3",
			want:    "https://x.test/api/workouts?week=3",
		},
		{
			name:    "only the last trailing slash is removed",
			baseURL: "https://x.test/api//",
			path:    "/users",
			want:    "https://x.test/api//users",
		},
		{
			name:    "path with double leading slash is kept",
			baseURL: "https://x.test/api",
			path:    "//users",
			want:    "https://x.test/api//users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinURL(tt.baseURL, tt.path); got != tt.want {
				t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.baseURL, tt.path, got, tt.want)
			}
		})
	}
}

func TestJoinURLSingleSeparator(t *testing.T) {
	bases := []string{"https://x.test/api", "https://x.test/api/", "http://localhost:3001/api", "http://localhost:3001/api/"}
	paths := []string{"me", "/me", "athletes/7/workouts", "/athletes/7/workouts"}

	for _, base := range bases {
		for _, path := range paths {
			got := JoinURL(base, path)
			prefix := strings.TrimSuffix(base, "/")
			rest, ok := strings.CutPrefix(got, prefix)
			if !ok {
				t.Fatalf("JoinURL(%q, %q) = %q does not start with the base", base, path, got)
			}
			if !strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "//") {
				t.Errorf("JoinURL(%q, %q) = %q, want exactly one slash between base and path", base, path, got)
			}
		}
	}
}

func TestWithQuery(t *testing.T) {
	q := url.Values{"week": []string{"3"}}

	tests := []struct {
		name  string
		url   string
		query url.Values
		want  string
	}{
		{"no query", "https://x.test/api/workouts", nil, "https://x.test/api/workouts"},
		{"new query string", "https://x.test/api/workouts", q, "https://x.test/api/workouts?week=3"},
		{"existing query string", "https://x.test/api/workouts?limit=5", q, "https://x.test/api/workouts?limit=5&week=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withQuery(tt.url, tt.query); got != tt.want {
				t.Errorf("withQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
