package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/hotnews/internal/cli"
	"horse.fit/hotnews/internal/db"
	"horse.fit/hotnews/internal/news"
)

func runRank(args []string) int {
	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 60*time.Second, "Command timeout")
	date := fs.String("date", defaultUTCDayString(), "Target date in YYYY-MM-DD (UTC)")
	category := fs.String("category", "", "Restrict to one category (default: all ranked categories)")
	limit := fs.Int("limit", 0, "Top articles to flag per category (default: HN_DIGEST_LIMIT)")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "rank does not accept positional arguments")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable, outputFormatTable, outputFormatJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	targetDay, err := parseUTCDate(*date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --date: %v\n", err)
		return 2
	}

	categories := news.RankedCategories()
	if trimmed := strings.TrimSpace(strings.ToLower(*category)); trimmed != "" {
		if !news.IsKnownCategory(trimmed) {
			fmt.Fprintf(os.Stderr, "Unknown category: %s\n", trimmed)
			return 2
		}
		categories = []string{trimmed}
	}

	ctx, cancel, pool, cfg, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	topLimit := *limit
	if topLimit <= 0 {
		topLimit = cfg.DigestLimit
	}

	scorer, err := newScorer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build scorer: %v\n", err)
		return 1
	}

	batch, err := pool.ListDailyArticles(ctx, db.ArticleListOptions{
		Date:  targetDay,
		Limit: rankCandidateLimit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load daily articles: %v\n", err)
		return 1
	}
	if len(batch) == 0 {
		fmt.Printf("date=%s articles=0 (nothing to rank)\n", targetDay.Format("2006-01-02"))
		return 0
	}

	scored := scorer.ScoreBatch(batch)
	if err := pool.UpdateHotScores(ctx, scored); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to persist hot scores: %v\n", err)
		return 1
	}

	topByCategory := make(map[string][]news.Article, len(categories))
	for _, cat := range categories {
		top := scorer.SelectTop(scored, cat, topLimit)
		ids := make([]int64, 0, len(top))
		for _, article := range top {
			ids = append(ids, article.ID)
		}
		if err := pool.MarkTopArticles(ctx, targetDay, cat, ids); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to mark top articles for %s: %v\n", cat, err)
			return 1
		}
		topByCategory[cat] = top
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{
			"date":     targetDay.Format("2006-01-02"),
			"articles": len(scored),
			"top":      topByCategory,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Printf("date=%s articles=%d\n\n", targetDay.Format("2006-01-02"), len(scored))

	rows := make([][]string, 0, len(categories)*topLimit)
	for _, cat := range categories {
		for i, article := range topByCategory[cat] {
			rows = append(rows, []string{
				cat,
				fmt.Sprintf("%d", i+1),
				fmt.Sprintf("%d", article.HotScore),
				truncateForTable(article.Title, 48),
				article.Source,
			})
		}
	}
	if err := writeTable([]string{"category", "rank", "score", "title", "source"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table: %v\n", err)
		return 1
	}

	return 0
}
