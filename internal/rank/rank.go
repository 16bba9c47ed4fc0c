package rank

import (
	"sort"
	"strings"
	"time"

	"horse.fit/hotnews/internal/globaltime"
	"horse.fit/hotnews/internal/news"
	"horse.fit/hotnews/internal/normalizer"
)

// Weights are the additive hot-score components. All weights are flat
// integers so a score stays explainable from the digest alone.
type Weights struct {
	// DupTopic is added per other batch article sharing the topic key.
	DupTopic int
	// DistinctSource is added per distinct outlet covering the topic key.
	DistinctSource int
	// Breaking is added once for breaking-tagged articles.
	Breaking int
	// RecencyUnderHour, RecencyUnder3h, and RecencyUnder6h are the coarse
	// recency buckets. Coarse buckets beat continuous decay when someone has
	// to explain a ranking after the fact.
	RecencyUnderHour int
	RecencyUnder3h   int
	RecencyUnder6h   int
	// MajorOutlet is added once when the source is on the major-outlet list.
	MajorOutlet int
}

// DefaultWeights returns the production score weights.
func DefaultWeights() Weights {
	return Weights{
		DupTopic:         10,
		DistinctSource:   5,
		Breaking:         30,
		RecencyUnderHour: 10,
		RecencyUnder3h:   5,
		RecencyUnder6h:   2,
		MajorOutlet:      5,
	}
}

// DefaultMajorOutlets returns the wire services and broadcasters whose
// coverage gets the authority bonus.
func DefaultMajorOutlets() []string {
	return []string{"연합뉴스", "YTN", "KBS", "SBS", "매일경제", "한국경제"}
}

// overfetchFactor and overfetchFloor size the candidate pool SelectTop hands
// to the deduplicator. Dedup shrinks the pool, so fetching exactly limit
// articles would come up short.
const (
	overfetchFactor = 5
	overfetchFloor  = 50
)

// Deduper collapses a batch to one article per story.
type Deduper interface {
	Run(batch []news.Article) []news.Article
}

// Scorer computes hot scores over a collection batch and selects the ranked
// top slice per category.
type Scorer struct {
	norm         *normalizer.Normalizer
	deduper      Deduper
	weights      Weights
	majorOutlets []string
}

// NewScorer wires a Scorer. Passing nil majorOutlets uses
// DefaultMajorOutlets.
func NewScorer(norm *normalizer.Normalizer, deduper Deduper, weights Weights, majorOutlets []string) *Scorer {
	if majorOutlets == nil {
		majorOutlets = DefaultMajorOutlets()
	}
	return &Scorer{
		norm:         norm,
		deduper:      deduper,
		weights:      weights,
		majorOutlets: majorOutlets,
	}
}

// ScoreBatch returns a copy of the batch with hot scores recomputed from
// scratch. Scores never carry over between passes; a stale score from the
// previous run must not influence this run's selection. The current time is
// sampled once so same-batch articles land in recency buckets consistently.
func (s *Scorer) ScoreBatch(batch []news.Article) []news.Article {
	if len(batch) == 0 {
		return nil
	}

	now := globaltime.Now()

	keyCounts := make(map[string]int, len(batch))
	keySources := make(map[string]map[string]struct{}, len(batch))
	keys := make([]string, len(batch))
	for i, article := range batch {
		key := s.topicKey(article)
		keys[i] = key
		if key == "" {
			continue
		}
		keyCounts[key]++
		if article.Source != "" {
			sources, ok := keySources[key]
			if !ok {
				sources = make(map[string]struct{})
				keySources[key] = sources
			}
			sources[article.Source] = struct{}{}
		}
	}

	scored := append([]news.Article(nil), batch...)
	for i := range scored {
		scored[i].HotScore = s.score(scored[i], keys[i], keyCounts, keySources, now)
	}
	return scored
}

// SelectTop recomputes scores over the batch, filters to one category,
// deduplicates an overfetched pool of the top-scored candidates, and returns
// at most limit survivors flagged is_top. A batch smaller than limit comes
// back whole.
func (s *Scorer) SelectTop(batch []news.Article, category string, limit int) []news.Article {
	if limit <= 0 || len(batch) == 0 {
		return nil
	}

	filtered := make([]news.Article, 0, len(batch))
	for _, article := range batch {
		if category != "" && article.Category != category {
			continue
		}
		filtered = append(filtered, article)
	}
	if len(filtered) == 0 {
		return nil
	}

	scored := s.ScoreBatch(filtered)
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].HotScore != scored[j].HotScore {
			return scored[i].HotScore > scored[j].HotScore
		}
		return scored[i].CreatedAt.After(scored[j].CreatedAt)
	})

	poolSize := limit * overfetchFactor
	if poolSize < overfetchFloor {
		poolSize = overfetchFloor
	}
	if poolSize > len(scored) {
		poolSize = len(scored)
	}

	survivors := s.deduper.Run(scored[:poolSize])
	if len(survivors) > limit {
		survivors = survivors[:limit]
	}
	for i := range survivors {
		survivors[i].IsTop = true
	}
	return survivors
}

func (s *Scorer) score(article news.Article, key string, keyCounts map[string]int, keySources map[string]map[string]struct{}, now time.Time) int {
	score := 0

	if key != "" {
		if count := keyCounts[key]; count > 1 {
			score += (count - 1) * s.weights.DupTopic
		}
		score += len(keySources[key]) * s.weights.DistinctSource
	}

	if article.IsBreaking {
		score += s.weights.Breaking
	}

	score += s.recencyBonus(article, now)

	if article.Source != "" {
		for _, outlet := range s.majorOutlets {
			if strings.Contains(article.Source, outlet) {
				score += s.weights.MajorOutlet
				break
			}
		}
	}

	return score
}

// recencyBonus buckets the article's age. A missing timestamp counts as the
// oldest bucket rather than an error.
func (s *Scorer) recencyBonus(article news.Article, now time.Time) int {
	at := article.CreatedAt
	if article.PublishedAt != nil && !article.PublishedAt.IsZero() {
		at = *article.PublishedAt
	}
	if at.IsZero() {
		return 0
	}

	age := now.Sub(at)
	switch {
	case age < time.Hour:
		return s.weights.RecencyUnderHour
	case age < 3*time.Hour:
		return s.weights.RecencyUnder3h
	case age < 6*time.Hour:
		return s.weights.RecencyUnder6h
	default:
		return 0
	}
}

func (s *Scorer) topicKey(article news.Article) string {
	if article.TopicKey != "" {
		return article.TopicKey
	}
	return s.norm.Fingerprint(article.Title, normalizer.FingerprintShortLen)
}
