package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "ingest":
		return runIngest(args[1:])
	case "rank":
		return runRank(args[1:])
	case "digest":
		return runDigest(args[1:])
	case "stats":
		return runStats(args[1:])
	case "preview":
		return runPreview(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "hotnews CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  hotnews <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health   Verify database connectivity")
	fmt.Fprintln(os.Stderr, "  ingest   Validate collector payloads and store daily articles")
	fmt.Fprintln(os.Stderr, "  rank     Recompute hot scores and mark top articles for a day")
	fmt.Fprintln(os.Stderr, "  digest   Render the per-category top-N digest for a day")
	fmt.Fprintln(os.Stderr, "  stats    Show per-category counts for a collection day")
	fmt.Fprintln(os.Stderr, "  preview  Extract readable text for a stored article or URL")
	fmt.Fprintln(os.Stderr, "  serve    Start the Echo API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"hotnews <command> -h\" for command-specific flags.")
}
