package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/hotnews/internal/cli"
)

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	date := fs.String("date", defaultUTCDayString(), "Target date in YYYY-MM-DD (UTC)")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "stats does not accept positional arguments")
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

	ctx, cancel, pool, _, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	stats, err := pool.QueryDailyStats(ctx, targetDay)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query daily stats: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(stats); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	categoryRows := make([][]string, 0, len(stats.Categories)+1)
	for _, row := range stats.Categories {
		categoryRows = append(categoryRows, []string{
			row.Category,
			fmt.Sprintf("%d", row.Articles),
			fmt.Sprintf("%d", row.Breaking),
			fmt.Sprintf("%d", row.Top),
		})
	}
	categoryRows = append(categoryRows, []string{
		"TOTAL",
		fmt.Sprintf("%d", stats.TotalArticles),
		fmt.Sprintf("%d", stats.TotalBreaking),
		fmt.Sprintf("%d", stats.TotalTop),
	})

	fmt.Printf("date: %s\n\n", stats.Day)
	if err := writeTable([]string{"category", "articles", "breaking", "top"}, categoryRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render category table: %v\n", err)
		return 1
	}

	if last := formatUTCTimestampPtr(stats.LastIngestAt); last != "" {
		fmt.Printf("\nlast_ingest_at: %s\n", last)
	}

	return 0
}
