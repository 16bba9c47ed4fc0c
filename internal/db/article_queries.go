package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"horse.fit/hotnews/internal/news"
)

// ArticleListOptions controls daily-article listing queries.
type ArticleListOptions struct {
	Date     time.Time
	Category string
	Limit    int
	TopOnly  bool
}

// InsertDailyArticles stores a batch of collected articles for one day.
// Rows colliding on (date, topic_key) are skipped; the returned count is the
// number of rows actually written.
func (p *Pool) InsertDailyArticles(ctx context.Context, articles []news.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin insert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `
INSERT INTO news.daily_articles
	(date, category, title, url, source, topic_key, language, keywords, is_breaking, is_top, hot_score, published_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (date, topic_key) DO NOTHING
`

	inserted := 0
	for _, article := range articles {
		createdAt := article.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		tag, err := tx.Exec(ctx, q,
			article.Date,
			article.Category,
			article.Title,
			article.URL,
			article.Source,
			article.TopicKey,
			article.Language,
			keywordsColumn(article),
			article.IsBreaking,
			article.IsTop,
			article.HotScore,
			article.PublishedAt,
			createdAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert daily article %q: %w", article.Title, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit insert transaction: %w", err)
	}
	return inserted, nil
}

// ListDailyArticles returns one day's articles ordered by hot score, then
// recency, descending.
func (p *Pool) ListDailyArticles(ctx context.Context, opts ArticleListOptions) ([]news.Article, error) {
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	const q = `
SELECT
	a.article_id,
	a.date,
	a.category,
	a.title,
	a.url,
	a.source,
	a.topic_key,
	a.language,
	a.keywords,
	a.is_breaking,
	a.is_top,
	a.hot_score,
	a.published_at,
	a.created_at
FROM news.daily_articles a
WHERE a.date = $1
  AND ($2 = '' OR a.category = $2)
  AND ($3 = false OR a.is_top)
ORDER BY a.hot_score DESC, a.created_at DESC, a.article_id DESC
LIMIT $4
`

	rows, err := p.Query(ctx, q, dateOnly(opts.Date), strings.TrimSpace(opts.Category), opts.TopOnly, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("query daily articles: %w", err)
	}
	defer rows.Close()

	items := make([]news.Article, 0, opts.Limit)
	for rows.Next() {
		var row news.Article
		var keywords *string
		if err := rows.Scan(
			&row.ID,
			&row.Date,
			&row.Category,
			&row.Title,
			&row.URL,
			&row.Source,
			&row.TopicKey,
			&row.Language,
			&keywords,
			&row.IsBreaking,
			&row.IsTop,
			&row.HotScore,
			&row.PublishedAt,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan daily article row: %w", err)
		}
		if keywords != nil && *keywords != "" {
			row.Keywords = strings.Split(*keywords, ",")
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily article rows: %w", err)
	}

	return items, nil
}

// GetDailyArticle loads one stored article by id. Returns ErrNoRows when the
// id is unknown.
func (p *Pool) GetDailyArticle(ctx context.Context, articleID int64) (news.Article, error) {
	const q = `
SELECT
	a.article_id,
	a.date,
	a.category,
	a.title,
	a.url,
	a.source,
	a.topic_key,
	a.language,
	a.keywords,
	a.is_breaking,
	a.is_top,
	a.hot_score,
	a.published_at,
	a.created_at
FROM news.daily_articles a
WHERE a.article_id = $1
`

	var row news.Article
	var keywords *string
	if err := p.QueryRow(ctx, q, articleID).Scan(
		&row.ID,
		&row.Date,
		&row.Category,
		&row.Title,
		&row.URL,
		&row.Source,
		&row.TopicKey,
		&row.Language,
		&keywords,
		&row.IsBreaking,
		&row.IsTop,
		&row.HotScore,
		&row.PublishedAt,
		&row.CreatedAt,
	); err != nil {
		if IsNoRows(err) {
			return news.Article{}, ErrNoRows
		}
		return news.Article{}, fmt.Errorf("query daily article %d: %w", articleID, err)
	}
	if keywords != nil && *keywords != "" {
		row.Keywords = strings.Split(*keywords, ",")
	}
	return row, nil
}

// UpdateHotScores writes recomputed scores back by article id.
func (p *Pool) UpdateHotScores(ctx context.Context, articles []news.Article) error {
	if len(articles) == 0 {
		return nil
	}

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return fmt.Errorf("begin score transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `UPDATE news.daily_articles SET hot_score = $1 WHERE article_id = $2`
	for _, article := range articles {
		if article.ID == 0 {
			continue
		}
		if _, err := tx.Exec(ctx, q, article.HotScore, article.ID); err != nil {
			return fmt.Errorf("update hot score for article %d: %w", article.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit score transaction: %w", err)
	}
	return nil
}

// MarkTopArticles clears the day's top flags for a category and sets them on
// the given survivors.
func (p *Pool) MarkTopArticles(ctx context.Context, date time.Time, category string, ids []int64) error {
	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return fmt.Errorf("begin top-flag transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const clearQ = `
UPDATE news.daily_articles
SET is_top = false
WHERE date = $1
  AND ($2 = '' OR category = $2)
  AND is_top
`
	if _, err := tx.Exec(ctx, clearQ, dateOnly(date), strings.TrimSpace(category)); err != nil {
		return fmt.Errorf("clear top flags: %w", err)
	}

	const setQ = `UPDATE news.daily_articles SET is_top = true WHERE article_id = $1`
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, err := tx.Exec(ctx, setQ, id); err != nil {
			return fmt.Errorf("set top flag for article %d: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit top-flag transaction: %w", err)
	}
	return nil
}

func keywordsColumn(article news.Article) *string {
	// Urgent keywords ride along on the row for digest rendering.
	if len(article.Keywords) == 0 {
		return nil
	}
	joined := strings.Join(article.Keywords, ",")
	return &joined
}

func dateOnly(value time.Time) time.Time {
	if value.IsZero() {
		value = time.Now().UTC()
	}
	year, month, day := value.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
