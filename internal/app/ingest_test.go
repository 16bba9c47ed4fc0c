package app

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeHeadlineBatch_SingleObject(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`{
		"payload_version":"v1",
		"title":"[속보] 코스피 2,500 돌파",
		"url":"https://www.mk.co.kr/news/economy/12345",
		"collected_at":"2026-08-30T08:00:00+09:00"
	}`)

	items, err := decodeHeadlineBatch(payload)
	if err != nil {
		t.Fatalf("decodeHeadlineBatch failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Title != "[속보] 코스피 2,500 돌파" {
		t.Fatalf("unexpected title: %q", items[0].Title)
	}
	if items[0].CollectedAt.IsZero() {
		t.Fatalf("collected_at must be parsed")
	}
}

func TestDecodeHeadlineBatch_Array(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`[
		{"payload_version":"v1","title":"첫 기사","url":"https://www.yna.co.kr/view/1","collected_at":"2026-08-30T08:00:00Z"},
		{"payload_version":"v1","title":"둘째 기사","url":"https://www.yna.co.kr/view/2","collected_at":"2026-08-30T08:05:00Z","published_at":"2026-08-30T07:30:00Z"}
	]`)

	items, err := decodeHeadlineBatch(payload)
	if err != nil {
		t.Fatalf("decodeHeadlineBatch failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[1].PublishedAt == nil {
		t.Fatalf("published_at must be carried through")
	}
}

func TestDecodeHeadlineBatch_InvalidElement(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`[
		{"payload_version":"v1","title":"정상","url":"https://www.yna.co.kr/view/1","collected_at":"2026-08-30T08:00:00Z"},
		{"payload_version":"v1","title":"링크 없음","collected_at":"2026-08-30T08:00:00Z"}
	]`)

	if _, err := decodeHeadlineBatch(payload); err == nil {
		t.Fatalf("expected validation error for element missing url")
	}
}

func TestDecodeHeadlineBatch_EmptyArray(t *testing.T) {
	t.Parallel()

	if _, err := decodeHeadlineBatch(json.RawMessage(`[]`)); err == nil {
		t.Fatalf("expected error for empty payload array")
	}
}

func TestParseUTCDate(t *testing.T) {
	t.Parallel()

	day, err := parseUTCDate(" 2026-08-30 ")
	if err != nil {
		t.Fatalf("parseUTCDate failed: %v", err)
	}
	if day.Hour() != 0 || day.Location() != time.UTC {
		t.Fatalf("expected UTC midnight, got %v", day)
	}

	if _, err := parseUTCDate("2026/08/30"); err == nil {
		t.Fatalf("expected error for slash-separated date")
	}
	if _, err := parseUTCDate(""); err == nil {
		t.Fatalf("expected error for empty date")
	}
}
