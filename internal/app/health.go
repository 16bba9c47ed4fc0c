package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/hotnews/internal/cli"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "health does not accept positional arguments")
		return 2
	}

	ctx, cancel, pool, _, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	var database, version string
	if err := pool.QueryRow(ctx, `SELECT current_database(), version()`).Scan(&database, &version); err != nil {
		fmt.Fprintf(os.Stderr, "Health check query failed: %v\n", err)
		return 1
	}

	fmt.Printf("database=%s\n", database)
	fmt.Printf("server=%s\n", version)
	fmt.Println("status=ok")
	return 0
}
