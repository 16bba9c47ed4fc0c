package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/hotnews/internal/cli"
	"horse.fit/hotnews/internal/db"
	"horse.fit/hotnews/internal/digest"
)

func runDigest(args []string) int {
	fs := flag.NewFlagSet("digest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 60*time.Second, "Command timeout")
	date := fs.String("date", defaultUTCDayString(), "Target date in YYYY-MM-DD (UTC)")
	limit := fs.Int("limit", 0, "Articles per category section (default: HN_DIGEST_LIMIT)")
	format := fs.String("format", outputFormatText, "Output format: text or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "digest does not accept positional arguments")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatText, outputFormatText, outputFormatJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	targetDay, err := parseUTCDate(*date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --date: %v\n", err)
		return 2
	}

	ctx, cancel, pool, cfg, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	sectionLimit := *limit
	if sectionLimit <= 0 {
		sectionLimit = cfg.DigestLimit
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

	scored := scorer.ScoreBatch(batch)
	sections := digest.NewBuilder(scorer, sectionLimit).Build(scored)

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{
			"date":     targetDay.Format("2006-01-02"),
			"sections": sections,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Print(digest.Render(targetDay, sections))
	return 0
}
