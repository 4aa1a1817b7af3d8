package urlnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripRange(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no range", "https://youtube.com/playlist?list=X", "https://youtube.com/playlist?list=X"},
		{"full range", "https://youtube.com/playlist?list=X*1*10", "https://youtube.com/playlist?list=X"},
		{"single index", "https://youtube.com/playlist?list=X*5", "https://youtube.com/playlist?list=X"},
		{"non-numeric tail", "https://example.com/a*b", "https://example.com/a*b"},
		{"too many markers", "https://example.com/a*1*2*3", "https://example.com/a*1*2*3"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripRange(tt.in))
		})
	}
}

func TestHasRange(t *testing.T) {
	assert.True(t, HasRange("https://youtube.com/playlist?list=X*1*10"))
	assert.False(t, HasRange("https://youtube.com/playlist?list=X"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases host", "https://WWW.YouTube.COM/watch?v=abc", "https://youtube.com/watch?v=abc"},
		{"drops default port", "https://youtube.com:443/watch?v=abc", "https://youtube.com/watch?v=abc"},
		{"drops fragment", "https://example.com/page#section", "https://example.com/page"},
		{"drops tracking params", "https://youtu.be/abc?si=xyz&utm_source=app", "https://youtu.be/abc"},
		{"sorts query params", "https://example.com/p?b=2&a=1", "https://example.com/p?a=1&b=2"},
		{"trims trailing slash", "https://example.com/path/", "https://example.com/path"},
		{"bare host root", "https://example.com/", "https://example.com"},
		{"unparseable passes through", "not a url", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestEquivalentForms_YouTube(t *testing.T) {
	forms := EquivalentForms("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	assert.Equal(t, []string{
		"https://youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
	}, forms)
}

func TestEquivalentForms_ShortAndLongAgree(t *testing.T) {
	long := EquivalentForms("https://www.youtube.com/watch?v=abc123")
	short := EquivalentForms("https://youtu.be/abc123")

	// Order differs by which form came in, but the sets must match so a
	// record written under one surface form is found under the other.
	assert.ElementsMatch(t, long, short)
}

func TestEquivalentForms_Shorts(t *testing.T) {
	forms := EquivalentForms("https://www.youtube.com/shorts/abc123")
	assert.Contains(t, forms, "https://youtu.be/abc123")
	assert.Contains(t, forms, "https://youtube.com/watch?v=abc123")
}

func TestEquivalentForms_NonYouTube(t *testing.T) {
	forms := EquivalentForms("https://vimeo.com/12345*1*3")
	assert.Equal(t, []string{"https://vimeo.com/12345"}, forms)
}

func TestEquivalentForms_PrimaryFirst(t *testing.T) {
	forms := EquivalentForms("https://youtu.be/abc?si=track")
	assert.Equal(t, "https://youtu.be/abc", forms[0])
}

func TestToShortForm_PreservesExtraParams(t *testing.T) {
	got := ToShortForm("https://www.youtube.com/watch?v=abc&list=PL1")
	assert.Equal(t, "https://youtu.be/abc?list=PL1", got)
}

func TestToLongForm_PreservesExtraParams(t *testing.T) {
	got := ToLongForm("https://youtu.be/abc?list=PL1")
	assert.Equal(t, "https://www.youtube.com/watch?v=abc&list=PL1", got)
}
