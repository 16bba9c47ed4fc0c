package rank

import (
	"testing"
	"time"

	"horse.fit/hotnews/internal/dedup"
	"horse.fit/hotnews/internal/entities"
	"horse.fit/hotnews/internal/news"
	"horse.fit/hotnews/internal/normalizer"
)

func newTestScorer() *Scorer {
	norm := normalizer.New(nil)
	lex := entities.Default()
	matcher := dedup.NewMatcher(norm, lex, dedup.DefaultThresholds())
	return NewScorer(norm, dedup.NewDeduplicator(norm, lex, matcher), DefaultWeights(), nil)
}

func TestScoreBatch_SingleRecentMajorOutlet(t *testing.T) {
	t.Parallel()

	batch := []news.Article{{
		Title:     "코스피 2,500 돌파",
		Source:    "연합뉴스",
		CreatedAt: time.Now().Add(-30 * time.Minute),
	}}

	scored := newTestScorer().ScoreBatch(batch)
	// 1 distinct source (+5), under an hour old (+10), major outlet (+5).
	if got, want := scored[0].HotScore, 20; got != want {
		t.Fatalf("score mismatch: got %d, want %d", got, want)
	}
}

func TestScoreBatch_DuplicateTopicAndSourceDiversity(t *testing.T) {
	t.Parallel()

	old := time.Now().Add(-7 * time.Hour)
	batch := []news.Article{
		{Title: "삼성전자 실적 발표", Source: "블로그A", CreatedAt: old},
		{Title: "[속보] 삼성전자 실적 발표", Source: "블로그B", CreatedAt: old},
	}

	scored := newTestScorer().ScoreBatch(batch)
	for i, article := range scored {
		// 1 other same-topic article (+10), 2 distinct sources (+10).
		if got, want := article.HotScore, 20; got != want {
			t.Fatalf("article %d score mismatch: got %d, want %d", i, got, want)
		}
	}
}

func TestScoreBatch_BreakingBonus(t *testing.T) {
	t.Parallel()

	old := time.Now().Add(-7 * time.Hour)
	batch := []news.Article{
		{Title: "공장 화재 발생", Source: "블로그", CreatedAt: old, IsBreaking: true},
	}

	scored := newTestScorer().ScoreBatch(batch)
	// 1 distinct source (+5), breaking (+30).
	if got, want := scored[0].HotScore, 35; got != want {
		t.Fatalf("score mismatch: got %d, want %d", got, want)
	}
}

func TestScoreBatch_RecencyBuckets(t *testing.T) {
	t.Parallel()

	now := time.Now()
	batch := []news.Article{
		{Title: "첫째 소식", Source: "블로그", CreatedAt: now.Add(-30 * time.Minute)},
		{Title: "둘째 소식", Source: "블로그", CreatedAt: now.Add(-2 * time.Hour)},
		{Title: "셋째 소식", Source: "블로그", CreatedAt: now.Add(-5 * time.Hour)},
		{Title: "넷째 소식", Source: "블로그", CreatedAt: now.Add(-7 * time.Hour)},
	}

	scored := newTestScorer().ScoreBatch(batch)
	// Base +5 for the single distinct source, plus 10/5/2/0 by bucket.
	wants := []int{15, 10, 7, 5}
	for i, want := range wants {
		if got := scored[i].HotScore; got != want {
			t.Fatalf("bucket %d score mismatch: got %d, want %d", i, got, want)
		}
	}
}

func TestScoreBatch_MissingTimestampIsOldest(t *testing.T) {
	t.Parallel()

	batch := []news.Article{{Title: "출처 없는 소식"}}
	scored := newTestScorer().ScoreBatch(batch)
	if got := scored[0].HotScore; got != 0 {
		t.Fatalf("expected zero score for sourceless undated article, got %d", got)
	}
}

func TestScoreBatch_OverwritesStaleScores(t *testing.T) {
	t.Parallel()

	batch := []news.Article{{
		Title:     "어제 소식",
		Source:    "블로그",
		CreatedAt: time.Now().Add(-24 * time.Hour),
		HotScore:  999,
	}}

	scored := newTestScorer().ScoreBatch(batch)
	if got, want := scored[0].HotScore, 5; got != want {
		t.Fatalf("stale score leaked: got %d, want %d", got, want)
	}
	if batch[0].HotScore != 999 {
		t.Fatalf("input batch was mutated")
	}
}

func TestSelectTop_SmallCategoryReturnsAll(t *testing.T) {
	t.Parallel()

	now := time.Now()
	batch := []news.Article{
		{Title: "코스피 2,500 돌파", URL: "https://a.example.com/1", Category: news.CategoryEconomy, CreatedAt: now},
		{Title: "환율 급등 마감", URL: "https://b.example.com/2", Category: news.CategoryEconomy, CreatedAt: now},
		{Title: "수출 증가세 지속", URL: "https://c.example.com/3", Category: news.CategoryEconomy, CreatedAt: now},
		{Title: "동네 고양이 근황", URL: "https://d.example.com/4", Category: news.CategorySociety, CreatedAt: now},
		{Title: "오늘 산책 일기", URL: "https://e.example.com/5", Category: news.CategorySociety, CreatedAt: now},
	}

	got := newTestScorer().SelectTop(batch, news.CategoryEconomy, 5)
	if len(got) != 3 {
		t.Fatalf("expected all 3 economy articles, got %d", len(got))
	}
	for _, article := range got {
		if article.Category != news.CategoryEconomy {
			t.Fatalf("non-economy article selected: %q", article.Title)
		}
		if !article.IsTop {
			t.Fatalf("survivor %q not flagged top", article.Title)
		}
	}
}

func TestSelectTop_DeduplicatesPool(t *testing.T) {
	t.Parallel()

	now := time.Now()
	batch := []news.Article{
		{Title: "[속보] 삼성전자 실적 발표", URL: "https://a.example.com/1", Category: news.CategoryEconomy, CreatedAt: now},
		{Title: "삼성전자 실적 발표", URL: "https://b.example.com/2", Category: news.CategoryEconomy, CreatedAt: now},
		{Title: "환율 급등 마감", URL: "https://c.example.com/3", Category: news.CategoryEconomy, CreatedAt: now},
	}

	got := newTestScorer().SelectTop(batch, news.CategoryEconomy, 5)
	if len(got) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 survivors, got %d", len(got))
	}
}

func TestSelectTop_OrderedByScore(t *testing.T) {
	t.Parallel()

	now := time.Now()
	batch := []news.Article{
		{Title: "수출 증가세 지속", URL: "https://a.example.com/1", Source: "블로그", Category: news.CategoryEconomy, CreatedAt: now.Add(-7 * time.Hour)},
		{Title: "환율 급등 마감", URL: "https://b.example.com/2", Source: "연합뉴스", Category: news.CategoryEconomy, IsBreaking: true, CreatedAt: now},
	}

	got := newTestScorer().SelectTop(batch, news.CategoryEconomy, 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(got))
	}
	if got[0].Title != "환율 급등 마감" {
		t.Fatalf("expected breaking wire story ranked first, got %q", got[0].Title)
	}
	if got[0].HotScore <= got[1].HotScore {
		t.Fatalf("expected descending scores, got %d then %d", got[0].HotScore, got[1].HotScore)
	}
}

func TestSelectTop_ZeroLimit(t *testing.T) {
	t.Parallel()

	batch := []news.Article{{Title: "코스피 급등", Category: news.CategoryEconomy}}
	if got := newTestScorer().SelectTop(batch, news.CategoryEconomy, 0); got != nil {
		t.Fatalf("expected nil for zero limit, got %v", got)
	}
}
