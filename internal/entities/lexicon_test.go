package entities

import "testing"

func TestKeyEntities(t *testing.T) {
	t.Parallel()

	lex := Default()

	got := lex.KeyEntities("코스피 2,500 돌파, 삼성전자 급등")
	if len(got) == 0 {
		t.Fatalf("expected entities for market headline")
	}
	if !containsString(got, "코스피") || !containsString(got, "삼성") {
		t.Fatalf("expected 코스피 and 삼성 in entities, got %v", got)
	}
	if !containsString(got, "2,500") {
		t.Fatalf("expected numeric token in entities, got %v", got)
	}

	if empty := lex.KeyEntities("동네 고양이 근황"); empty != nil {
		t.Fatalf("expected no entities, got %v", empty)
	}
}

func TestKeyEntities_AtMostTwoNumbers(t *testing.T) {
	t.Parallel()

	got := Default().KeyEntities("1 2 3 4 5")
	if len(got) != 2 {
		t.Fatalf("expected exactly two numeric tokens, got %v", got)
	}
}

func TestPrimaryTopic(t *testing.T) {
	t.Parallel()

	lex := Default()
	if got := lex.PrimaryTopic("환율 급등에 코스피 출렁"); got != "코스피" {
		t.Fatalf("expected highest-priority topic 코스피, got %q", got)
	}
	if got := lex.PrimaryTopic("동네 산책로 개방"); got != "" {
		t.Fatalf("expected no topic, got %q", got)
	}
}

func TestPersonName_Obituary(t *testing.T) {
	t.Parallel()

	lex := Default()
	if got := lex.PersonName("배우 김철수 별세, 향년 82세"); got != "김철수" {
		t.Fatalf("expected 김철수, got %q", got)
	}
}

func TestPersonName_RolePattern(t *testing.T) {
	t.Parallel()

	lex := Default()
	if got := lex.PersonName("배우 박영희 새 드라마 출연"); got != "박영희" {
		t.Fatalf("expected 박영희, got %q", got)
	}
}

func TestPersonName_StopwordsExcluded(t *testing.T) {
	t.Parallel()

	lex := Default()
	got := lex.PersonName("국민배우 별세")
	if got == "국민배우" || got == "국민" {
		t.Fatalf("stopword leaked as person name: %q", got)
	}
}

func TestPersonCandidates(t *testing.T) {
	t.Parallel()

	lex := Default()
	candidates := lex.PersonCandidates("임종룡 우리금융 회장 사퇴")
	if _, ok := candidates["임종룡"]; !ok {
		t.Fatalf("expected 임종룡 in candidates, got %v", candidates)
	}
	if _, ok := candidates["회장"]; ok {
		t.Fatalf("role token 회장 must be filtered, got %v", candidates)
	}
	if _, ok := candidates["사퇴"]; ok {
		t.Fatalf("event token 사퇴 must be filtered, got %v", candidates)
	}

	if got := lex.PersonCandidates(""); got != nil {
		t.Fatalf("expected nil candidates for empty title, got %v", got)
	}
}

func TestIssueKey_PersonEvent(t *testing.T) {
	t.Parallel()

	lex := Default()
	if got := lex.IssueKey("김철수 별세, 향년 82세"); got != "person:김철수:obit" {
		t.Fatalf("expected obituary issue key, got %q", got)
	}

	key := lex.IssueKey("임종룡 회장 전격 사퇴")
	if key != "person:임종룡:사퇴" {
		t.Fatalf("expected person/event issue key, got %q", key)
	}
}

func TestIssueKey_EntityFallback(t *testing.T) {
	t.Parallel()

	key := Default().IssueKey("코스피 환율 동반 하락")
	if key == "" {
		t.Fatalf("expected entity issue key")
	}
	if key[:7] != "entity:" {
		t.Fatalf("expected entity-prefixed key, got %q", key)
	}
}

func TestIssueKey_Deterministic(t *testing.T) {
	t.Parallel()

	lex := Default()
	title := "임종룡 회장 전격 사퇴"
	first := lex.IssueKey(title)
	for i := 0; i < 5; i++ {
		if got := lex.IssueKey(title); got != first {
			t.Fatalf("issue key not deterministic: %q vs %q", first, got)
		}
	}
}

func TestIssueKey_Empty(t *testing.T) {
	t.Parallel()

	if got := Default().IssueKey(""); got != "" {
		t.Fatalf("expected empty issue key, got %q", got)
	}
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
