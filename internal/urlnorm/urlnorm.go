// Package urlnorm canonicalizes media source URLs for cache addressing.
//
// Many textual forms of a URL refer to the same logical resource: tracking
// parameters, fragments, default ports, a trailing slash, or an appended
// download range all vary without changing what gets fetched. Normalize
// collapses those variations into one canonical string. EquivalentForms
// additionally expands URL families with recognized alternate surface forms
// (YouTube short/long/shorts links) into the full set of canonical strings
// that must map to the same cache record.
package urlnorm

import (
	"net/url"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// trackingParams are query parameters that never affect the fetched content.
var trackingParams = map[string]struct{}{
	"feature": {},
	"si":      {},
	"pp":      {},
	"t":       {},
}

// rangeMarker separates a URL from an appended item range, e.g.
// "https://y/playlist?list=X*1*10" requests items 1 through 10.
const rangeMarker = "*"

// StripRange removes a trailing "*start*end" range qualifier from a URL.
// URLs without a recognized range pass through unchanged.
func StripRange(raw string) string {
	idx := strings.Index(raw, rangeMarker)
	if idx < 0 {
		return raw
	}
	tail := raw[idx+1:]
	parts := strings.Split(tail, rangeMarker)
	if len(parts) == 0 || len(parts) > 2 {
		return raw
	}
	for _, p := range parts {
		if !isDigits(p) {
			return raw
		}
	}
	return raw[:idx]
}

// HasRange reports whether the request text carries a "*start*end" range
// qualifier. Ranged playlist requests are never safe to reuse from cache.
func HasRange(text string) bool {
	return StripRange(text) != text
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Normalize returns the canonical textual form of a URL: lowercased scheme
// and host, "www." prefix and default ports dropped, fragment and tracking
// parameters removed, remaining query parameters sorted, trailing slash
// trimmed. Never fails: input that does not parse as a URL is returned
// unchanged.
func Normalize(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	switch {
	case u.Scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}
	u.Host = host
	u.Fragment = ""

	if u.RawQuery != "" {
		u.RawQuery = normalizeQuery(u.Query())
	}
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	if u.Path == "/" && u.RawQuery == "" {
		u.Path = ""
	}

	return u.String()
}

// normalizeQuery drops tracking parameters and re-encodes the rest in
// sorted key order so parameter ordering cannot split the cache.
func normalizeQuery(q url.Values) string {
	keys := make([]string, 0, len(q))
	for k := range q {
		if _, tracked := trackingParams[k]; tracked {
			continue
		}
		if strings.HasPrefix(k, "utm_") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range q[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// EquivalentForms returns every canonical form a lookup or write must
// consider for the given URL. The range-stripped, normalized form of the
// input is always first; for YouTube URLs the normalized short and long
// forms follow. The result is deduplicated and deterministic for a given
// input.
func EquivalentForms(raw string) []string {
	stripped := StripRange(raw)
	forms := []string{Normalize(stripped)}
	if IsYouTube(stripped) {
		forms = append(forms,
			Normalize(ToShortForm(stripped)),
			Normalize(ToLongForm(stripped)),
		)
	}
	return lo.Uniq(forms)
}
