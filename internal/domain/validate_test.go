package domain

import "testing"

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		url        string
		wantTitle  string
		wantURL    string
		wantFields []string
	}{
		{
			name:      "valid input",
			title:     "Example",
			url:       "https://example.com",
			wantTitle: "Example",
			wantURL:   "https://example.com",
		},
		{
			name:      "input is trimmed",
			title:     "  Example  ",
			url:       "  https://example.com  ",
			wantTitle: "Example",
			wantURL:   "https://example.com",
		},
		{
			name:       "empty title",
			title:      "   ",
			url:        "https://example.com",
			wantFields: []string{"title"},
		},
		{
			name:       "empty url",
			title:      "Example",
			url:        "",
			wantFields: []string{"url"},
		},
		{
			name:       "malformed url",
			title:      "Example",
			url:        "not-a-url",
			wantFields: []string{"url"},
		},
		{
			name:       "non-http scheme",
			title:      "Example",
			url:        "ftp://example.com",
			wantFields: []string{"url"},
		},
		{
			name:       "scheme without host",
			title:      "Example",
			url:        "https://",
			wantFields: []string{"url"},
		},
		{
			name:       "both fields empty",
			title:      "",
			url:        "",
			wantFields: []string{"title", "url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, url, verr := ValidateCreate(tt.title, tt.url)

			if len(tt.wantFields) == 0 {
				if verr != nil {
					t.Fatalf("ValidateCreate() unexpected error: %v", verr)
				}
				if title != tt.wantTitle {
					t.Errorf("title = %q, want %q", title, tt.wantTitle)
				}
				if url != tt.wantURL {
					t.Errorf("url = %q, want %q", url, tt.wantURL)
				}
				return
			}

			if verr == nil {
				t.Fatal("ValidateCreate() expected error, got nil")
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Fatalf("got %d field errors, want %d: %v", len(verr.Fields), len(tt.wantFields), verr.Fields)
			}
			for _, field := range tt.wantFields {
				if verr.Fields[field] == "" {
					t.Errorf("missing error for field %q", field)
				}
			}
		})
	}
}

func TestDisplayURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.example.com/a/b", "example.com"},
		{"https://docs.example.com", "docs.example.com"},
		{"http://example.com:8080/x", "example.com"},
		{"not-a-url", "not-a-url"},
	}

	for _, tt := range tests {
		if got := DisplayURL(tt.raw); got != tt.want {
			t.Errorf("DisplayURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFaviconURL(t *testing.T) {
	got := FaviconURL("https://example.com/page")
	want := "https://www.google.com/s2/favicons?domain=example.com&sz=32"
	if got != want {
		t.Errorf("FaviconURL() = %q, want %q", got, want)
	}

	if got := FaviconURL("::bad::"); got != "" {
		t.Errorf("FaviconURL() on unparsable input = %q, want empty", got)
	}
}
