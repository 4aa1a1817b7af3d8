package urlnorm

import (
	"net/url"
	"strings"
)

// IsYouTube reports whether the URL belongs to the YouTube family
// (youtube.com, youtu.be, including shorts).
func IsYouTube(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	return strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be")
}

// ToShortForm converts youtube.com/watch?v=ID and youtube.com/shorts/ID
// links to the youtu.be/ID form, preserving query parameters other than v.
// Non-convertible URLs are returned unchanged.
func ToShortForm(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	host := strings.ToLower(u.Host)

	switch {
	case strings.Contains(host, "youtube.com") && u.Path == "/watch":
		q := u.Query()
		id := q.Get("v")
		if id == "" {
			return raw
		}
		q.Del("v")
		short := &url.URL{Scheme: "https", Host: "youtu.be", Path: "/" + id}
		if enc := q.Encode(); enc != "" {
			short.RawQuery = enc
		}
		return short.String()

	case strings.Contains(host, "youtube.com") && strings.HasPrefix(u.Path, "/shorts/"):
		id := shortsID(u.Path)
		if id == "" {
			return raw
		}
		return "https://youtu.be/" + id
	}
	return raw
}

// ToLongForm converts youtu.be/ID and youtube.com/shorts/ID links to the
// youtube.com/watch?v=ID form, preserving query parameters.
// Non-convertible URLs are returned unchanged.
func ToLongForm(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	host := strings.ToLower(u.Host)

	switch {
	case strings.Contains(host, "youtu.be"):
		id := strings.TrimPrefix(u.Path, "/")
		if id == "" {
			return raw
		}
		long := "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
		if u.RawQuery != "" {
			long += "&" + u.RawQuery
		}
		return long

	case strings.Contains(host, "youtube.com") && strings.HasPrefix(u.Path, "/shorts/"):
		id := shortsID(u.Path)
		if id == "" {
			return raw
		}
		return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
	}
	return raw
}

// shortsID extracts the video id from a /shorts/ID path.
func shortsID(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) >= 3 {
		return parts[2]
	}
	return ""
}
