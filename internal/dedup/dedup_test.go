package dedup

import (
	"testing"
	"time"

	"horse.fit/hotnews/internal/entities"
	"horse.fit/hotnews/internal/news"
	"horse.fit/hotnews/internal/normalizer"
)

func newTestMatcher() *Matcher {
	return NewMatcher(normalizer.New(nil), entities.Default(), DefaultThresholds())
}

func newTestDeduplicator() *Deduplicator {
	norm := normalizer.New(nil)
	lex := entities.Default()
	return NewDeduplicator(norm, lex, NewMatcher(norm, lex, DefaultThresholds()))
}

func TestIsDuplicate_BoilerplateVariants(t *testing.T) {
	t.Parallel()

	m := newTestMatcher()
	if !m.IsDuplicate("[속보] 삼성전자 실적 발표", "삼성전자 실적 발표") {
		t.Fatalf("boilerplate-tag variant must be a duplicate")
	}
}

func TestIsDuplicate_TokenOverlap(t *testing.T) {
	t.Parallel()

	m := newTestMatcher()
	if !m.IsDuplicate("breaking samsung earnings beat", "samsung earnings beat estimates") {
		t.Fatalf("titles with 3/5 shared tokens must be duplicates")
	}
}

func TestIsDuplicate_SharedObituary(t *testing.T) {
	t.Parallel()

	m := newTestMatcher()
	if !m.IsDuplicate("원로배우 김철수 별세", "고 김철수, 오늘 발인") {
		t.Fatalf("obituaries naming the same person must be duplicates")
	}
}

func TestIsDuplicate_Unrelated(t *testing.T) {
	t.Parallel()

	m := newTestMatcher()
	if m.IsDuplicate("코스피 급락", "날씨 맑음") {
		t.Fatalf("unrelated titles must not be duplicates")
	}
}

func TestIsDuplicate_Symmetric(t *testing.T) {
	t.Parallel()

	m := newTestMatcher()
	pairs := [][2]string{
		{"[속보] 삼성전자 실적 발표", "삼성전자 실적 발표"},
		{"코스피 급락", "날씨 맑음"},
		{"임종룡 회장 전격 사퇴", "우리금융 임종룡 사의 표명"},
	}
	for _, pair := range pairs {
		forward := m.IsDuplicate(pair[0], pair[1])
		backward := m.IsDuplicate(pair[1], pair[0])
		if forward != backward {
			t.Fatalf("IsDuplicate not symmetric for %q / %q: %v vs %v", pair[0], pair[1], forward, backward)
		}
	}
}

func TestIsDuplicate_SelfAndEmpty(t *testing.T) {
	t.Parallel()

	m := newTestMatcher()
	if !m.IsDuplicate("삼성전자 실적 발표", "삼성전자 실적 발표") {
		t.Fatalf("a title must be a duplicate of itself")
	}
	if m.IsDuplicate("", "삼성전자 실적 발표") {
		t.Fatalf("empty title must never match")
	}
	if m.IsDuplicate("", "") {
		t.Fatalf("two empty titles must not match")
	}
}

func TestSequenceRatio(t *testing.T) {
	t.Parallel()

	if got := sequenceRatio("abcd", "abcd"); got != 1 {
		t.Fatalf("identical strings: want ratio 1, got %v", got)
	}
	if got := sequenceRatio("abcd", "wxyz"); got != 0 {
		t.Fatalf("disjoint strings: want ratio 0, got %v", got)
	}
	// "abcd" vs "abxd": blocks "ab" and "d", 2*3/8.
	if got := sequenceRatio("abcd", "abxd"); got != 0.75 {
		t.Fatalf("want ratio 0.75, got %v", got)
	}
	if got := sequenceRatio("", ""); got != 0 {
		t.Fatalf("empty strings: want ratio 0, got %v", got)
	}
}

func TestRun_CollapsesFrequentPerson(t *testing.T) {
	t.Parallel()

	now := time.Now()
	batch := []news.Article{
		{Title: "임종룡 회장 전격 사퇴", URL: "https://a.example.com/1", HotScore: 50, CreatedAt: now},
		{Title: "우리금융 임종룡 사의 표명", URL: "https://b.example.com/2", HotScore: 80, CreatedAt: now},
		{Title: "임종룡, 거취 논란 확산", URL: "https://c.example.com/3", HotScore: 30, CreatedAt: now},
	}

	got := newTestDeduplicator().Run(batch)
	if len(got) != 1 {
		t.Fatalf("expected 1 survivor, got %d: %v", len(got), titlesOf(got))
	}
	if got[0].HotScore != 80 {
		t.Fatalf("survivor must be the highest-scored article, got score %d", got[0].HotScore)
	}
}

func TestRun_PairwiseCollapsesAcrossDifferentIssueKeys(t *testing.T) {
	t.Parallel()

	// 강동원 and 김민수 each recur across the batch, so the first article is
	// keyed person:강동원 and the second person:김민수. The keys differ, yet
	// both titles name 김민수 and cover the same story; only the pairwise
	// check can collapse them.
	now := time.Now()
	batch := []news.Article{
		{Title: "강동원 김민수 영화 출연", URL: "https://a.example.com/1", HotScore: 90, CreatedAt: now},
		{Title: "김민수 새 드라마 확정", URL: "https://b.example.com/2", HotScore: 70, CreatedAt: now},
		{Title: "강동원 팬미팅 개최", URL: "https://c.example.com/3", HotScore: 50, CreatedAt: now},
	}

	d := newTestDeduplicator()
	if !d.matcher.IsDuplicate(batch[0].Title, batch[1].Title) {
		t.Fatalf("titles sharing the candidate 김민수 must be pairwise duplicates")
	}

	got := d.Run(batch)
	if len(got) != 1 {
		t.Fatalf("expected differently-keyed duplicates to collapse to 1 survivor, got %d: %v", len(got), titlesOf(got))
	}
	if got[0].HotScore != 90 {
		t.Fatalf("survivor must be the highest-scored article, got score %d", got[0].HotScore)
	}
}

func TestRun_SameURLDifferentTracking(t *testing.T) {
	t.Parallel()

	now := time.Now()
	batch := []news.Article{
		{Title: "동네 고양이 근황", URL: "https://a.example.com/1?utm_source=x", HotScore: 10, CreatedAt: now},
		{Title: "오늘 산책 일기", URL: "https://a.example.com/1", HotScore: 5, CreatedAt: now},
	}

	got := newTestDeduplicator().Run(batch)
	if len(got) != 1 {
		t.Fatalf("expected URL-identical articles to collapse, got %d", len(got))
	}
	if got[0].HotScore != 10 {
		t.Fatalf("survivor must be the higher-scored article, got score %d", got[0].HotScore)
	}
}

func TestRun_KeepsDistinctStories(t *testing.T) {
	t.Parallel()

	now := time.Now()
	batch := []news.Article{
		{Title: "코스피 2,500 돌파", URL: "https://a.example.com/1", HotScore: 40, CreatedAt: now},
		{Title: "동네 고양이 근황", URL: "https://b.example.com/2", HotScore: 20, CreatedAt: now},
	}

	got := newTestDeduplicator().Run(batch)
	if len(got) != 2 {
		t.Fatalf("expected both distinct stories kept, got %d: %v", len(got), titlesOf(got))
	}
}

func TestRun_SortsByScoreThenRecency(t *testing.T) {
	t.Parallel()

	now := time.Now()
	batch := []news.Article{
		{Title: "동네 고양이 근황", URL: "https://a.example.com/1", HotScore: 20, CreatedAt: now.Add(-time.Hour)},
		{Title: "코스피 2,500 돌파", URL: "https://b.example.com/2", HotScore: 40, CreatedAt: now},
		{Title: "오늘 산책 일기", URL: "https://c.example.com/3", HotScore: 20, CreatedAt: now},
	}

	got := newTestDeduplicator().Run(batch)
	if len(got) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(got))
	}
	if got[0].HotScore != 40 {
		t.Fatalf("expected highest score first, got %d", got[0].HotScore)
	}
	if got[1].Title != "오늘 산책 일기" {
		t.Fatalf("expected newer article to win the score tie, got %q", got[1].Title)
	}
}

func TestRun_SmallBatches(t *testing.T) {
	t.Parallel()

	d := newTestDeduplicator()
	if got := d.Run(nil); len(got) != 0 {
		t.Fatalf("expected empty result for nil batch, got %d", len(got))
	}

	one := []news.Article{{Title: "코스피 급등", URL: "https://a.example.com/1"}}
	if got := d.Run(one); len(got) != 1 {
		t.Fatalf("expected single article kept, got %d", len(got))
	}
}

func TestRun_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	now := time.Now()
	batch := []news.Article{
		{Title: "동네 고양이 근황", URL: "https://a.example.com/1", HotScore: 10, CreatedAt: now},
		{Title: "코스피 2,500 돌파", URL: "https://b.example.com/2", HotScore: 40, CreatedAt: now},
	}

	newTestDeduplicator().Run(batch)
	if batch[0].Title != "동네 고양이 근황" || batch[1].Title != "코스피 2,500 돌파" {
		t.Fatalf("input batch was reordered: %v", titlesOf(batch))
	}
}

func titlesOf(batch []news.Article) []string {
	titles := make([]string, 0, len(batch))
	for _, article := range batch {
		titles = append(titles, article.Title)
	}
	return titles
}
