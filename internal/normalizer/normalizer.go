package normalizer

import (
	"html"
	"net/url"
	"strings"
)

const (
	// FingerprintShortLen is the fine-grained topic-key length.
	FingerprintShortLen = 30
	// FingerprintLegacyLen is the coarse key length kept for rows written
	// before the key was shortened.
	FingerprintLegacyLen = 60
)

// DefaultBoilerplateTags are the bracket tags outlets prepend to wire copy.
// Stripping them makes "[속보] X" and "X" compare equal.
func DefaultBoilerplateTags() []string {
	return []string{"[속보]", "[단독]", "[긴급]"}
}

// Normalizer produces canonical comparison strings and fingerprint keys from
// raw article titles. The zero value is not usable; construct with New.
type Normalizer struct {
	markupReplacer *strings.Replacer
}

// New builds a Normalizer that strips the given boilerplate tags in addition
// to bold markup. Passing nil tags uses DefaultBoilerplateTags.
func New(boilerplateTags []string) *Normalizer {
	if boilerplateTags == nil {
		boilerplateTags = DefaultBoilerplateTags()
	}

	pairs := []string{"<b>", "", "</b>", ""}
	for _, tag := range boilerplateTags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		pairs = append(pairs, tag, "")
	}

	return &Normalizer{
		markupReplacer: strings.NewReplacer(pairs...),
	}
}

// Title returns the canonical comparison form of a raw title: HTML entities
// decoded, bold markup and boilerplate tags removed, whitespace collapsed.
// Empty input yields an empty string.
func (n *Normalizer) Title(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	cleaned := html.UnescapeString(raw)
	cleaned = n.markupReplacer.Replace(cleaned)
	return collapseWhitespace(cleaned)
}

// Fingerprint derives a short topic key from a raw title: normalized, reduced
// to alphanumerics and Hangul syllables, spaces dropped, lowercased,
// truncated to maxLen runes. Titles differing only in markup, case,
// punctuation, or whitespace fingerprint identically.
func (n *Normalizer) Fingerprint(raw string, maxLen int) string {
	cleaned := n.Title(raw)
	if cleaned == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(cleaned))
	count := 0
	for _, r := range strings.ToLower(cleaned) {
		if !isFingerprintRune(r) {
			continue
		}
		b.WriteRune(r)
		count++
		if maxLen > 0 && count >= maxLen {
			break
		}
	}
	return b.String()
}

// URL reduces a raw URL to scheme+host+path so refetches that differ only in
// tracking query parameters or fragments compare equal. Unparseable input is
// returned trimmed rather than dropped: an opaque string still works as an
// exact-match dedup key.
func URL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.RawFragment = ""
	return parsed.String()
}

func collapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func isFingerprintRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	if r >= 'a' && r <= 'z' {
		return true
	}
	// Hangul syllable block.
	return r >= 0xAC00 && r <= 0xD7A3
}
