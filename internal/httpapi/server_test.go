package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestParsePositiveInt(t *testing.T) {
	t.Parallel()

	got, err := parsePositiveInt("", 25, 1, 200)
	if err != nil || got != 25 {
		t.Fatalf("empty input must yield default, got %d (%v)", got, err)
	}

	got, err = parsePositiveInt(" 50 ", 25, 1, 200)
	if err != nil || got != 50 {
		t.Fatalf("expected 50, got %d (%v)", got, err)
	}

	if _, err := parsePositiveInt("0", 25, 1, 200); err == nil {
		t.Fatalf("expected range error for 0")
	}
	if _, err := parsePositiveInt("abc", 25, 1, 200); err == nil {
		t.Fatalf("expected parse error for non-integer")
	}
}

func TestParseDateParam(t *testing.T) {
	t.Parallel()

	day, err := parseDateParam("2026-08-30")
	if err != nil {
		t.Fatalf("parseDateParam failed: %v", err)
	}
	want := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Fatalf("expected %v, got %v", want, day)
	}

	today, err := parseDateParam("")
	if err != nil {
		t.Fatalf("empty date must default to today: %v", err)
	}
	if today.Hour() != 0 || today.Location() != time.UTC {
		t.Fatalf("default date must be UTC midnight, got %v", today)
	}

	if _, err := parseDateParam("30/08/2026"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestHTTPErrorHandler_JSendEnvelope(t *testing.T) {
	t.Parallel()

	s := NewServer(nil, zerolog.Nop(), Options{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	s.httpErrorHandler(echo.NewHTTPError(http.StatusNotFound, "Not Found"), c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body jsendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "fail" {
		t.Fatalf("expected fail status, got %q", body.Status)
	}
	if !strings.Contains(body.Message, "Not Found") {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestHTTPErrorHandler_InternalErrorsAreOpaque(t *testing.T) {
	t.Parallel()

	s := NewServer(nil, zerolog.Nop(), Options{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	s.httpErrorHandler(echo.NewHTTPError(http.StatusInternalServerError, "secret detail"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret detail") {
		t.Fatalf("internal error detail leaked: %s", rec.Body.String())
	}
}
