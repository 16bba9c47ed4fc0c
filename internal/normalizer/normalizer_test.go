package normalizer

import "testing"

func TestTitle_StripsMarkupAndBoilerplate(t *testing.T) {
	t.Parallel()

	n := New(nil)
	got := n.Title("[속보] <b>삼성전자</b>  실적   발표&quot;")
	want := `삼성전자 실적 발표"`
	if got != want {
		t.Fatalf("Title mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

func TestTitle_EmptyInput(t *testing.T) {
	t.Parallel()

	n := New(nil)
	if got := n.Title(""); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
	if got := n.Title("   \t "); got != "" {
		t.Fatalf("expected empty title for whitespace input, got %q", got)
	}
}

func TestTitle_Idempotent(t *testing.T) {
	t.Parallel()

	n := New(nil)
	inputs := []string{
		"[속보] 삼성전자 실적 발표",
		"plain english headline",
		"  spaced   out  ",
		"",
	}
	for _, input := range inputs {
		once := n.Title(input)
		twice := n.Title(once)
		if once != twice {
			t.Fatalf("Title not idempotent for %q: once=%q twice=%q", input, once, twice)
		}
	}
}

func TestFingerprint_MarkupCasePunctuationInvariant(t *testing.T) {
	t.Parallel()

	n := New(nil)
	a := n.Fingerprint("[속보] 삼성전자 실적 발표", FingerprintShortLen)
	b := n.Fingerprint("삼성전자 실적 발표", FingerprintShortLen)
	if a == "" {
		t.Fatalf("expected non-empty fingerprint")
	}
	if a != b {
		t.Fatalf("fingerprints differ: %q vs %q", a, b)
	}

	c := n.Fingerprint("Samsung, Q3 RESULTS!", FingerprintShortLen)
	d := n.Fingerprint("samsung q3 results", FingerprintShortLen)
	if c != d {
		t.Fatalf("fingerprints differ: %q vs %q", c, d)
	}
}

func TestFingerprint_TruncatesToMaxRunes(t *testing.T) {
	t.Parallel()

	n := New(nil)
	long := "가나다라마바사아자차카타파하가나다라마바사아자차카타파하가나다라"
	got := n.Fingerprint(long, FingerprintShortLen)
	if runeCount := len([]rune(got)); runeCount != FingerprintShortLen {
		t.Fatalf("expected %d runes, got %d (%q)", FingerprintShortLen, runeCount, got)
	}
}

func TestFingerprint_Empty(t *testing.T) {
	t.Parallel()

	n := New(nil)
	if got := n.Fingerprint("", FingerprintShortLen); got != "" {
		t.Fatalf("expected empty fingerprint, got %q", got)
	}
	if got := n.Fingerprint("!!! ...", FingerprintShortLen); got != "" {
		t.Fatalf("expected empty fingerprint for punctuation-only title, got %q", got)
	}
}

func TestURL_DropsQueryAndFragment(t *testing.T) {
	t.Parallel()

	a := URL("https://news.example.com/article/123?utm_source=abc&ref=tw#top")
	b := URL("https://news.example.com/article/123")
	if a != b {
		t.Fatalf("normalized URLs differ: %q vs %q", a, b)
	}
	if a != "https://news.example.com/article/123" {
		t.Fatalf("unexpected normalized URL: %q", a)
	}
}

func TestURL_Empty(t *testing.T) {
	t.Parallel()

	if got := URL("  "); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}
