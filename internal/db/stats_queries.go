package db

import (
	"context"
	"fmt"
	"time"
)

// StatsCategoryCount stores per-category daily counts.
type StatsCategoryCount struct {
	Category string `json:"category"`
	Articles int64  `json:"articles"`
	Breaking int64  `json:"breaking"`
	Top      int64  `json:"top"`
}

// DailyStats is the read model returned by the stats command and endpoint.
type DailyStats struct {
	Day           string               `json:"day"`
	Categories    []StatsCategoryCount `json:"categories"`
	TotalArticles int64                `json:"total_articles"`
	TotalBreaking int64                `json:"total_breaking"`
	TotalTop      int64                `json:"total_top"`
	LastIngestAt  *time.Time           `json:"last_ingest_at,omitempty"`
}

// QueryDailyStats returns per-category and total counts for one collection
// day.
func (p *Pool) QueryDailyStats(ctx context.Context, date time.Time) (*DailyStats, error) {
	day := dateOnly(date)
	stats := &DailyStats{
		Day:        day.Format("2006-01-02"),
		Categories: make([]StatsCategoryCount, 0, 8),
	}

	const countsQuery = `
SELECT
	a.category,
	COUNT(*)::BIGINT AS articles,
	COUNT(*) FILTER (WHERE a.is_breaking)::BIGINT AS breaking,
	COUNT(*) FILTER (WHERE a.is_top)::BIGINT AS top
FROM news.daily_articles a
WHERE a.date = $1
GROUP BY a.category
ORDER BY 1
`

	rows, err := p.Query(ctx, countsQuery, day)
	if err != nil {
		return nil, fmt.Errorf("query daily category counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row StatsCategoryCount
		if err := rows.Scan(&row.Category, &row.Articles, &row.Breaking, &row.Top); err != nil {
			return nil, fmt.Errorf("scan daily category row: %w", err)
		}
		stats.Categories = append(stats.Categories, row)
		stats.TotalArticles += row.Articles
		stats.TotalBreaking += row.Breaking
		stats.TotalTop += row.Top
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily category rows: %w", err)
	}

	const lastIngestQuery = `
SELECT MAX(a.created_at)
FROM news.daily_articles a
WHERE a.date = $1
`
	if err := p.QueryRow(ctx, lastIngestQuery, day).Scan(&stats.LastIngestAt); err != nil && !IsNoRows(err) {
		return nil, fmt.Errorf("query last ingest time: %w", err)
	}

	return stats, nil
}
