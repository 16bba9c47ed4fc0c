package dedup

import (
	"strings"

	"horse.fit/hotnews/internal/entities"
	"horse.fit/hotnews/internal/normalizer"
)

// Thresholds are the similarity cut-offs of the duplicate cascade. The
// defaults were tuned against Korean-language press titles; a different
// corpus needs its own values.
type Thresholds struct {
	TokenJaccard  float64
	SequenceRatio float64
	EntityJaccard float64
}

// DefaultThresholds returns the production cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TokenJaccard:  0.5,
		SequenceRatio: 0.78,
		EntityJaccard: 0.5,
	}
}

// Matcher decides whether two titles cover the same story. It is stateless
// after construction and safe for concurrent use.
type Matcher struct {
	norm       *normalizer.Normalizer
	lex        *entities.Lexicon
	thresholds Thresholds
}

// NewMatcher wires a similarity matcher from its normalizer, lexicon, and
// thresholds.
func NewMatcher(norm *normalizer.Normalizer, lex *entities.Lexicon, thresholds Thresholds) *Matcher {
	return &Matcher{
		norm:       norm,
		lex:        lex,
		thresholds: thresholds,
	}
}

// IsDuplicate reports whether two raw titles cover the same story. The
// signals run cheapest-first and short-circuit; the later signals trade
// precision for recall on purpose, because dozens of outlets rephrase the
// same event while false collapses are rare by comparison.
func (m *Matcher) IsDuplicate(titleA, titleB string) bool {
	normA := m.norm.Title(titleA)
	normB := m.norm.Title(titleB)

	// Shared person/event grouping key.
	issueA := m.lex.IssueKey(normA)
	if issueA != "" && issueA == m.lex.IssueKey(normB) {
		return true
	}

	// Exact fingerprint.
	keyA := m.norm.Fingerprint(titleA, normalizer.FingerprintShortLen)
	if keyA != "" && keyA == m.norm.Fingerprint(titleB, normalizer.FingerprintShortLen) {
		return true
	}

	// Word overlap.
	if tokenJaccard(normA, normB) >= m.thresholds.TokenJaccard {
		return true
	}

	// Near-identical wording with minor edits.
	cleanA := compareForm(normA)
	cleanB := compareForm(normB)
	if cleanA != "" && cleanB != "" && sequenceRatio(cleanA, cleanB) >= m.thresholds.SequenceRatio {
		return true
	}

	// Shared key entities.
	entitiesA := m.lex.KeyEntities(normA)
	entitiesB := m.lex.KeyEntities(normB)
	if len(entitiesA) > 0 && len(entitiesB) > 0 {
		if setJaccard(toSet(entitiesA), toSet(entitiesB)) >= m.thresholds.EntityJaccard {
			return true
		}
	}

	// Obituary coverage of the same person.
	candidatesA := m.lex.PersonCandidates(normA)
	candidatesB := m.lex.PersonCandidates(normB)
	if m.lex.HasObitKeyword(normA) && m.lex.HasObitKeyword(normB) {
		if intersects(candidatesA, candidatesB) {
			return true
		}
	}

	// Broadest signal: any shared person candidate.
	return intersects(candidatesA, candidatesB)
}

// tokenJaccard is the word-set Jaccard similarity of two normalized titles
// after punctuation removal.
func tokenJaccard(normA, normB string) float64 {
	setA := toSet(strings.Fields(compareForm(normA)))
	setB := toSet(strings.Fields(compareForm(normB)))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	return setJaccard(setA, setB)
}

// compareForm lowercases and strips everything but alphanumerics, Hangul
// syllables, and spaces.
func compareForm(normTitle string) string {
	var b strings.Builder
	b.Grow(len(normTitle))
	for _, r := range strings.ToLower(normTitle) {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r == ' ':
			b.WriteRune(r)
		case r >= 0xAC00 && r <= 0xD7A3:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func setJaccard(setA, setB map[string]struct{}) float64 {
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for value := range setA {
		if _, ok := setB[value]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func intersects(setA, setB map[string]struct{}) bool {
	if len(setA) == 0 || len(setB) == 0 {
		return false
	}
	small, large := setA, setB
	if len(large) < len(small) {
		small, large = large, small
	}
	for value := range small {
		if _, ok := large[value]; ok {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		set[value] = struct{}{}
	}
	return set
}

// sequenceRatio is the classic sequence-matcher similarity: twice the number
// of matching runes (summed over recursively found longest common blocks)
// divided by the total length.
func sequenceRatio(a, b string) float64 {
	runesA := []rune(a)
	runesB := []rune(b)
	total := len(runesA) + len(runesB)
	if total == 0 {
		return 0
	}
	return 2 * float64(matchingRunes(runesA, runesB)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a[:ai], b[:bi]) +
		matchingRunes(a[ai+size:], b[bi+size:])
}

// longestCommonBlock finds the longest common contiguous run, preferring the
// earliest position in a, then in b, on ties.
func longestCommonBlock(a, b []rune) (bestA, bestB, bestSize int) {
	// lengths[j] holds the length of the common run ending at a[i-1], b[j-1].
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prevDiagonal := 0
		for j := 1; j <= len(b); j++ {
			current := 0
			if a[i-1] == b[j-1] {
				current = prevDiagonal + 1
			}
			prevDiagonal = lengths[j]
			lengths[j] = current
			if current > bestSize {
				bestSize = current
				bestA = i - current
				bestB = j - current
			}
		}
	}
	return bestA, bestB, bestSize
}
