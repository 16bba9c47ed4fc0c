package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/hotnews/internal/cli"
	"horse.fit/hotnews/internal/db"
	"horse.fit/hotnews/internal/reader"
)

func runPreview(args []string) int {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	articleID := fs.Int64("id", 0, "Stored article id to preview")
	pageURL := fs.String("url", "", "Fetch a URL directly instead of a stored article")
	maxChars := fs.Int("max-chars", 1200, "Maximum preview length in runes (0 = no limit)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "preview does not accept positional arguments")
		return 2
	}

	directURL := strings.TrimSpace(*pageURL)
	if directURL == "" && *articleID <= 0 {
		fmt.Fprintln(os.Stderr, "either --id or --url is required")
		return 2
	}
	if directURL != "" && *articleID > 0 {
		fmt.Fprintln(os.Stderr, "--id and --url are mutually exclusive")
		return 2
	}

	targetURL := directURL
	title := ""
	if *articleID > 0 {
		ctx, cancel, pool, _, err := connectReadPool(*timeout, envLoader)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer cancel()
		defer pool.Close()

		article, err := pool.GetDailyArticle(ctx, *articleID)
		if err != nil {
			if db.IsNoRows(err) {
				fmt.Fprintf(os.Stderr, "Article %d not found\n", *articleID)
				return 1
			}
			fmt.Fprintf(os.Stderr, "Failed to load article: %v\n", err)
			return 1
		}
		targetURL = article.URL
		title = article.Title
	}

	fetchCtx, fetchCancel := context.WithTimeout(context.Background(), *timeout)
	defer fetchCancel()

	text, err := reader.FetchText(fetchCtx, targetURL, title)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Preview fetch failed: %v\n", err)
		return 1
	}

	clipped, truncated := reader.TruncateText(text, *maxChars)
	fmt.Println(clipped)
	if truncated {
		fmt.Fprintln(os.Stderr, "(truncated)")
	}

	return 0
}
