package dedup

import (
	"sort"
	"strings"

	"horse.fit/hotnews/internal/entities"
	"horse.fit/hotnews/internal/news"
	"horse.fit/hotnews/internal/normalizer"
)

// frequentNameThreshold is the minimum number of titles a person candidate
// must appear in before it becomes a batch-level grouping key.
const frequentNameThreshold = 2

// Deduplicator collapses a scored batch down to one article per story.
type Deduplicator struct {
	norm    *normalizer.Normalizer
	lex     *entities.Lexicon
	matcher *Matcher
}

// NewDeduplicator wires a batch deduplicator around the given matcher.
func NewDeduplicator(norm *normalizer.Normalizer, lex *entities.Lexicon, matcher *Matcher) *Deduplicator {
	return &Deduplicator{
		norm:    norm,
		lex:     lex,
		matcher: matcher,
	}
}

// Run returns the batch with duplicate coverage removed. The input is not
// modified; the survivors come back sorted by hot score, then recency,
// descending, and for every collapsed group the survivor is the
// highest-scored member because the scan walks that order.
//
// Three layers of grouping apply, cheapest first: issue-key identity (with
// person names that recur across the batch promoted to their own keys),
// normalized-URL identity, and a pairwise title-similarity check against the
// accepted survivors. The pairwise check runs for every candidate that passed
// the key and URL skips, keyed or not: two articles can land on different
// issue keys and still cover the same story.
func (d *Deduplicator) Run(batch []news.Article) []news.Article {
	if len(batch) <= 1 {
		return append([]news.Article(nil), batch...)
	}

	sorted := append([]news.Article(nil), batch...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].HotScore != sorted[j].HotScore {
			return sorted[i].HotScore > sorted[j].HotScore
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	frequentNames := d.frequentNames(sorted)

	seenURLs := make(map[string]struct{}, len(sorted))
	seenIssues := make(map[string]struct{}, len(sorted))
	kept := make([]news.Article, 0, len(sorted))
	keptTitles := make([]string, 0, len(sorted))

	for _, article := range sorted {
		normTitle := d.norm.Title(article.Title)
		issueKey := d.issueKey(normTitle, frequentNames)

		if issueKey != "" {
			if _, dup := seenIssues[issueKey]; dup {
				continue
			}
		}

		normURL := normalizer.URL(article.URL)
		if normURL != "" {
			if _, dup := seenURLs[normURL]; dup {
				continue
			}
		}

		if d.matchesAny(article.Title, keptTitles) {
			continue
		}

		kept = append(kept, article)
		keptTitles = append(keptTitles, article.Title)
		if issueKey != "" {
			seenIssues[issueKey] = struct{}{}
		}
		if normURL != "" {
			seenURLs[normURL] = struct{}{}
		}
	}

	return kept
}

// issueKey derives the grouping key for one title. A person candidate that
// recurs across the batch overrides the per-title key so that ten outlets
// covering the same person collapse even when their event wording diverges;
// the sorted pick keeps the override deterministic. Titles without any
// person or entity signal fall back to their primary topic keyword.
func (d *Deduplicator) issueKey(normTitle string, frequentNames map[string]struct{}) string {
	var common []string
	for candidate := range d.lex.PersonCandidates(normTitle) {
		if _, ok := frequentNames[candidate]; ok {
			common = append(common, candidate)
		}
	}
	if len(common) > 0 {
		sort.Strings(common)
		return "person:" + common[0]
	}

	if key := d.lex.IssueKey(normTitle); key != "" {
		return key
	}
	if topic := d.lex.PrimaryTopic(normTitle); topic != "" {
		return "topic:" + topic
	}
	return ""
}

// frequentNames counts person candidates across the whole batch and returns
// those appearing in at least frequentNameThreshold titles.
func (d *Deduplicator) frequentNames(batch []news.Article) map[string]struct{} {
	counts := make(map[string]int)
	for _, article := range batch {
		for candidate := range d.lex.PersonCandidates(d.norm.Title(article.Title)) {
			counts[candidate]++
		}
	}

	frequent := make(map[string]struct{})
	for candidate, count := range counts {
		if count >= frequentNameThreshold {
			frequent[candidate] = struct{}{}
		}
	}
	return frequent
}

func (d *Deduplicator) matchesAny(title string, keptTitles []string) bool {
	if strings.TrimSpace(title) == "" {
		return false
	}
	for _, kept := range keptTitles {
		if d.matcher.IsDuplicate(title, kept) {
			return true
		}
	}
	return false
}
