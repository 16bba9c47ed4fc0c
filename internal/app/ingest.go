package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/hotnews/internal/cli"
	"horse.fit/hotnews/internal/config"
	"horse.fit/hotnews/internal/db"
	"horse.fit/hotnews/internal/ingest"
	"horse.fit/hotnews/internal/logging"
	"horse.fit/hotnews/internal/normalizer"
	"horse.fit/hotnews/internal/press"
	payloadschema "horse.fit/hotnews/schema"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	date := fs.String("date", defaultUTCDayString(), "Collection day in YYYY-MM-DD (UTC)")
	payload := fs.String("payload", "", "Headline payload JSON (object or array of objects)")
	payloadFile := fs.String("payload-file", "", "Path to payload JSON file (overrides --payload)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	targetDay, err := parseUTCDate(*date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --date: %v\n", err)
		return 2
	}

	payloadJSON, err := loadJSONInput(*payload, *payloadFile, "payload")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	items, err := decodeHeadlineBatch(payloadJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	svc := ingest.NewService(pool, normalizer.New(nil), press.Default(), logger)
	result, err := svc.IngestBatch(ctx, targetDay, items)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		return 1
	}

	fmt.Printf("date=%s received=%d prepared=%d inserted=%d\n",
		targetDay.Format("2006-01-02"), result.Received, result.Prepared, result.Inserted)
	if skipped := result.SkippedEmptyTitle + result.SkippedEmptyKey + result.SkippedUnknownPress; skipped > 0 {
		fmt.Printf("skipped=%d (empty_title=%d empty_key=%d unknown_press=%d)\n",
			skipped, result.SkippedEmptyTitle, result.SkippedEmptyKey, result.SkippedUnknownPress)
	}

	return 0
}

// decodeHeadlineBatch accepts either one headline payload object or a JSON
// array of them; every element is schema-validated before conversion.
func decodeHeadlineBatch(raw json.RawMessage) ([]ingest.Item, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, fmt.Errorf("payload JSON is empty")
	}

	var payloads []json.RawMessage
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &payloads); err != nil {
			return nil, fmt.Errorf("parse payload array: %w", err)
		}
	} else {
		payloads = []json.RawMessage{raw}
	}
	if len(payloads) == 0 {
		return nil, fmt.Errorf("payload array is empty")
	}

	items := make([]ingest.Item, 0, len(payloads))
	for i, payload := range payloads {
		headline, err := payloadschema.ValidateHeadlinePayload(payload)
		if err != nil {
			return nil, fmt.Errorf("payload[%d]: %w", i, err)
		}

		collectedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(headline.CollectedAt))
		if err != nil {
			return nil, fmt.Errorf("payload[%d]: collected_at must be RFC3339: %w", i, err)
		}
		publishedAt, err := parseOptionalRFC3339(fmt.Sprintf("payload[%d].published_at", i), optionalString(headline.PublishedAt))
		if err != nil {
			return nil, err
		}

		items = append(items, ingest.Item{
			Title:        headline.Title,
			URL:          headline.URL,
			CollectedAt:  collectedAt.UTC(),
			PublishedAt:  publishedAt,
			CategoryHint: optionalString(headline.CategoryHint),
			SourceHint:   optionalString(headline.SourceHint),
		})
	}
	return items, nil
}

func loadJSONInput(inlineValue, filePath, label string) (json.RawMessage, error) {
	if path := strings.TrimSpace(filePath); path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s file %q: %w", label, path, err)
		}
		trimmed := strings.TrimSpace(string(payload))
		if trimmed == "" {
			return nil, fmt.Errorf("%s file %q is empty", label, path)
		}
		return json.RawMessage(trimmed), nil
	}

	trimmed := strings.TrimSpace(inlineValue)
	if trimmed == "" {
		return nil, fmt.Errorf("%s JSON is empty", label)
	}
	return json.RawMessage(trimmed), nil
}

func parseOptionalRFC3339(fieldName, raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return nil, fmt.Errorf("%s must be RFC3339: %w", fieldName, err)
	}
	utc := ts.UTC()
	return &utc, nil
}

func optionalString(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
