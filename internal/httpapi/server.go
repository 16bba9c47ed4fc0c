package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"horse.fit/hotnews/internal/db"
	"horse.fit/hotnews/internal/globaltime"
	"horse.fit/hotnews/internal/news"
)

const (
	defaultListLimit = 25
	maxListLimit     = 200
)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type Server struct {
	pool   *db.Pool
	logger zerolog.Logger
	opts   Options
}

type articleItem struct {
	ArticleID   int64      `json:"article_id"`
	Date        string     `json:"date"`
	Category    string     `json:"category"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Source      string     `json:"source,omitempty"`
	TopicKey    string     `json:"topic_key"`
	Language    string     `json:"language,omitempty"`
	Keywords    []string   `json:"keywords,omitempty"`
	IsBreaking  bool       `json:"is_breaking"`
	IsTop       bool       `json:"is_top"`
	HotScore    int        `json:"hot_score"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewServer(pool *db.Pool, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8090
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return &Server{
		pool:   pool,
		logger: logger,
		opts: Options{
			Host:            host,
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			AllowedOrigins:  allowedOrigins,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.opts.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       3600,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("remote_ip", v.RemoteIP).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/top", s.handleTop)
	api.GET("/articles", s.handleArticles)
	api.GET("/articles/:article_id/preview", s.handleArticlePreview)
	api.GET("/stats", s.handleStats)

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("hotnews api server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("hotnews api server stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch v := he.Message.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				message = v
			}
		default:
			if text := strings.TrimSpace(http.StatusText(status)); text != "" {
				message = text
			}
		}
	} else if err != nil {
		message = err.Error()
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message, nil)
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "hotnews",
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleTop(c echo.Context) error {
	return s.listArticles(c, true)
}

func (s *Server) handleArticles(c echo.Context) error {
	return s.listArticles(c, false)
}

func (s *Server) listArticles(c echo.Context, topOnly bool) error {
	date, err := parseDateParam(c.QueryParam("date"))
	if err != nil {
		return failValidation(c, map[string]string{"date": "must be YYYY-MM-DD"})
	}

	category := strings.TrimSpace(strings.ToLower(c.QueryParam("category")))
	if category != "" && !news.IsKnownCategory(category) {
		return failValidation(c, map[string]string{"category": "unknown category"})
	}

	limit, err := parsePositiveInt(c.QueryParam("limit"), defaultListLimit, 1, maxListLimit)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}

	rows, err := s.pool.ListDailyArticles(c.Request().Context(), db.ArticleListOptions{
		Date:     date,
		Category: category,
		Limit:    limit,
		TopOnly:  topOnly,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Msg("query daily articles failed")
		return internalError(c, "Failed to load articles")
	}

	items := make([]articleItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, toArticleItem(row))
	}

	return success(c, map[string]any{
		"items": items,
		"filters": map[string]any{
			"date":     date.Format("2006-01-02"),
			"category": category,
			"limit":    limit,
			"top_only": topOnly,
		},
	})
}

func (s *Server) handleStats(c echo.Context) error {
	date, err := parseDateParam(c.QueryParam("date"))
	if err != nil {
		return failValidation(c, map[string]string{"date": "must be YYYY-MM-DD"})
	}

	stats, err := s.pool.QueryDailyStats(c.Request().Context(), date)
	if err != nil {
		s.logger.Error().Err(err).Msg("query daily stats failed")
		return internalError(c, "Failed to load stats")
	}
	return success(c, stats)
}

func toArticleItem(row news.Article) articleItem {
	return articleItem{
		ArticleID:   row.ID,
		Date:        row.Date.Format("2006-01-02"),
		Category:    row.Category,
		Title:       row.Title,
		URL:         row.URL,
		Source:      row.Source,
		TopicKey:    row.TopicKey,
		Language:    row.Language,
		Keywords:    row.Keywords,
		IsBreaking:  row.IsBreaking,
		IsTop:       row.IsTop,
		HotScore:    row.HotScore,
		PublishedAt: row.PublishedAt,
		CreatedAt:   row.CreatedAt,
	}
}

func parsePositiveInt(raw string, defaultValue, minValue, maxValue int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if value < minValue || value > maxValue {
		return 0, fmt.Errorf("must be between %d and %d", minValue, maxValue)
	}
	return value, nil
}

// parseDateParam accepts YYYY-MM-DD and defaults to the current UTC day.
func parseDateParam(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		now := globaltime.UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	day, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format")
	}
	return day.UTC(), nil
}
