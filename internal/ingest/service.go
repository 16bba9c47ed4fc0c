package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/hotnews/internal/globaltime"
	"horse.fit/hotnews/internal/langdetect"
	"horse.fit/hotnews/internal/news"
	"horse.fit/hotnews/internal/normalizer"
	"horse.fit/hotnews/internal/press"
)

// Store is the storage surface the ingest service writes through.
type Store interface {
	InsertDailyArticles(ctx context.Context, articles []news.Article) (int, error)
}

// Item is one validated collector headline, ready for preparation.
type Item struct {
	Title        string
	URL          string
	CollectedAt  time.Time
	PublishedAt  *time.Time
	CategoryHint string
	SourceHint   string
}

// Result summarizes one ingest batch.
type Result struct {
	Received            int
	Prepared            int
	Inserted            int
	SkippedEmptyTitle   int
	SkippedEmptyKey     int
	SkippedUnknownPress int
}

// Service turns validated collector items into stored daily articles.
type Service struct {
	store  Store
	norm   *normalizer.Normalizer
	press  *press.Registry
	logger zerolog.Logger
}

func NewService(store Store, norm *normalizer.Normalizer, registry *press.Registry, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		norm:   norm,
		press:  registry,
		logger: logger,
	}
}

// IngestBatch prepares and stores one collection batch for the given day.
// Items that cannot be attributed to a known outlet or that produce no topic
// key are skipped, never fatal; a dirty item must not abort the batch.
func (s *Service) IngestBatch(ctx context.Context, date time.Time, items []Item) (Result, error) {
	if s == nil || s.store == nil {
		return Result{}, fmt.Errorf("ingest service is not initialized")
	}

	result := Result{Received: len(items)}
	prepared := make([]news.Article, 0, len(items))
	for _, item := range items {
		article, skip := s.prepare(date, item)
		switch skip {
		case skipNone:
			prepared = append(prepared, article)
		case skipEmptyTitle:
			result.SkippedEmptyTitle++
		case skipEmptyKey:
			result.SkippedEmptyKey++
		case skipUnknownPress:
			result.SkippedUnknownPress++
		}
	}
	result.Prepared = len(prepared)

	if len(prepared) == 0 {
		s.logger.Info().
			Int("received", result.Received).
			Msg("ingest batch produced no storable articles")
		return result, nil
	}

	inserted, err := s.store.InsertDailyArticles(ctx, prepared)
	if err != nil {
		return result, fmt.Errorf("store daily articles: %w", err)
	}
	result.Inserted = inserted

	s.logger.Info().
		Int("received", result.Received).
		Int("prepared", result.Prepared).
		Int("inserted", result.Inserted).
		Int("skipped_unknown_press", result.SkippedUnknownPress).
		Msg("ingest batch completed")

	return result, nil
}

type skipReason int

const (
	skipNone skipReason = iota
	skipEmptyTitle
	skipEmptyKey
	skipUnknownPress
)

func (s *Service) prepare(date time.Time, item Item) (news.Article, skipReason) {
	rawTitle := strings.TrimSpace(item.Title)
	cleanTitle := s.norm.Title(rawTitle)
	if cleanTitle == "" {
		return news.Article{}, skipEmptyTitle
	}

	topicKey := s.norm.Fingerprint(rawTitle, normalizer.FingerprintShortLen)
	if topicKey == "" {
		return news.Article{}, skipEmptyKey
	}

	url := normalizer.URL(item.URL)
	if url == "" {
		return news.Article{}, skipUnknownPress
	}

	source := strings.TrimSpace(item.SourceHint)
	if source == "" {
		source = s.press.FromURL(url)
	}
	if source == "" || !s.press.Allowed(source) {
		return news.Article{}, skipUnknownPress
	}

	category := strings.TrimSpace(item.CategoryHint)
	if !news.IsKnownCategory(category) {
		category = s.press.ClassifyCategory(cleanTitle)
	}

	createdAt := item.CollectedAt
	if createdAt.IsZero() {
		createdAt = globaltime.UTC()
	}

	return news.Article{
		Date:     date,
		Category: category,
		Title:    cleanTitle,
		URL:      url,
		Source:   source,
		TopicKey: topicKey,
		Language: langdetect.DetectISO6391(cleanTitle),
		// Breaking tags and urgent keywords live in the raw title; the
		// normalizer strips them.
		Keywords:    s.press.UrgentKeywords(rawTitle),
		IsBreaking:  s.press.IsBreaking(rawTitle),
		PublishedAt: item.PublishedAt,
		CreatedAt:   createdAt.UTC(),
	}, skipNone
}
