package payloadschema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateHeadlinePayload_Valid(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"title":"[속보] 코스피 2,500 돌파",
		"url":"https://www.mk.co.kr/news/economy/12345",
		"collected_at":"2026-08-30T08:00:00+09:00",
		"published_at":"2026-08-30T07:30:00+09:00",
		"category_hint":"economy",
		"collector":{
			"name":"naver-economy",
			"run_id":"run_2026_08_30_001"
		}
	}`)

	item, err := ValidateHeadlinePayload(payload)
	if err != nil {
		t.Fatalf("expected payload to be valid, got error: %v", err)
	}

	if item.Title != "[속보] 코스피 2,500 돌파" {
		t.Fatalf("unexpected title: %q", item.Title)
	}
	if item.PayloadVersion != "v1" {
		t.Fatalf("expected payload_version=v1, got %q", item.PayloadVersion)
	}
}

func TestValidateHeadlinePayload_MissingURL(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"title":"링크 없는 제목",
		"collected_at":"2026-08-30T08:00:00+09:00"
	}`)

	_, err := ValidateHeadlinePayload(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for missing url")
	}
}

func TestValidateHeadlinePayload_WhitespaceTitle(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"title":"   ",
		"url":"https://www.yna.co.kr/view/AKR2026",
		"collected_at":"2026-08-30T08:00:00+09:00"
	}`)

	_, err := ValidateHeadlinePayload(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for whitespace-only title")
	}
	if !strings.Contains(err.Error(), "title must not be empty") {
		t.Fatalf("expected title semantic error, got: %v", err)
	}
}

func TestValidateHeadlinePayload_InvalidPublishedAt(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"title":"잘못된 날짜",
		"url":"https://www.yna.co.kr/view/AKR2026",
		"collected_at":"2026-08-30T08:00:00+09:00",
		"published_at":"yesterday"
	}`)

	_, err := ValidateHeadlinePayload(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for invalid published_at")
	}
}

func TestValidateHeadlinePayload_UnknownCategoryHint(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"title":"카테고리 힌트 오류",
		"url":"https://www.yna.co.kr/view/AKR2026",
		"collected_at":"2026-08-30T08:00:00+09:00",
		"category_hint":"sports"
	}`)

	_, err := ValidateHeadlinePayload(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for unknown category hint")
	}
}

func TestValidateHeadlinePayload_TrailingContent(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"title":"정상 제목",
		"url":"https://www.yna.co.kr/view/AKR2026",
		"collected_at":"2026-08-30T08:00:00+09:00"
	}{"extra":true}`)

	_, err := ValidateHeadlinePayload(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for trailing JSON content")
	}
}

func TestValidateHeadlinePayload_WrongVersion(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v2",
		"title":"버전 불일치",
		"url":"https://www.yna.co.kr/view/AKR2026",
		"collected_at":"2026-08-30T08:00:00+09:00"
	}`)

	_, err := ValidateHeadlinePayload(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for wrong payload version")
	}
}
