package httpapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"horse.fit/hotnews/internal/db"
	"horse.fit/hotnews/internal/reader"
)

const (
	defaultPreviewChars = 1200
	maxPreviewChars     = 8000
)

// handleArticlePreview extracts readable text for one stored article's URL.
// Extraction failures are not fatal; the response falls back to the stored
// title and carries the fetch error alongside.
func (s *Server) handleArticlePreview(c echo.Context) error {
	articleID, err := strconv.ParseInt(strings.TrimSpace(c.Param("article_id")), 10, 64)
	if err != nil || articleID <= 0 {
		return failValidation(c, map[string]string{"article_id": "must be a positive integer"})
	}

	maxChars, err := parsePositiveInt(c.QueryParam("max_chars"), defaultPreviewChars, 1, maxPreviewChars)
	if err != nil {
		return failValidation(c, map[string]string{"max_chars": err.Error()})
	}

	article, err := s.pool.GetDailyArticle(c.Request().Context(), articleID)
	if err != nil {
		if db.IsNoRows(err) {
			return failNotFound(c, "Article not found")
		}
		s.logger.Error().Err(err).Int64("article_id", articleID).Msg("query article for preview failed")
		return internalError(c, "Failed to load article")
	}

	previewText := ""
	previewError := ""
	text, fetchErr := reader.FetchText(c.Request().Context(), article.URL, article.Title)
	if fetchErr != nil {
		s.logger.Warn().
			Err(fetchErr).
			Int64("article_id", articleID).
			Str("url", article.URL).
			Msg("reader preview fetch failed")
		previewError = fetchErr.Error()
		previewText = strings.TrimSpace(article.Title)
	} else {
		previewText = text
	}

	clipped, truncated := reader.TruncateText(previewText, maxChars)

	data := map[string]any{
		"article":   toArticleItem(article),
		"preview":   clipped,
		"truncated": truncated,
	}
	if previewError != "" {
		data["preview_error"] = previewError
	}
	return success(c, data)
}
