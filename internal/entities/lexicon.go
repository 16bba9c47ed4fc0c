package entities

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Config holds the static keyword lists the extractor matches against. The
// lists are read-only after construction, so one Lexicon is safe to share
// across concurrent ranking passes.
type Config struct {
	// Entities are known organizations, public figures, and market terms.
	Entities []string
	// TopicPriority is an ordered keyword list; the first match becomes an
	// article's primary topic.
	TopicPriority []string
	// EventKeywords mark a title as covering a concrete event (arrest,
	// resignation, accident) when co-occurring with a person name.
	EventKeywords []string
	// ObitKeywords mark obituary coverage.
	ObitKeywords []string
	// PersonStopwords are role/title tokens that look name-shaped but never
	// are names (actor, minister, chairman).
	PersonStopwords []string
}

// DefaultConfig returns the keyword lists tuned against the Korean press
// corpus this service collects from.
func DefaultConfig() Config {
	return Config{
		Entities: []string{
			// politics and justice
			"국방부", "대통령", "청와대", "국회", "장관", "의원",
			"검찰", "경찰", "법원", "여인형", "이진우", "고현석", "곽종근",
			"파면", "해임", "구속", "기소", "재판",
			// markets and corporates
			"코스피", "코스닥", "환율", "달러", "원화", "금리",
			"삼성", "lg", "현대", "sk", "네이버", "카카오", "쿠팡",
			"수출", "수입", "무역", "관세", "gdp",
			// recurring figures
			"임종룡", "우리금융", "폴란드", "천무",
		},
		TopicPriority: []string{
			"코스피", "코스닥", "나스닥", "환율", "달러", "원화", "금리",
			"삼성", "lg", "현대", "sk", "네이버", "카카오", "쿠팡",
			"수출", "수입", "무역", "관세", "gdp",
			"대통령", "국회", "청와대", "검찰", "경찰", "법원",
			"구속", "기소", "영장", "재판", "사퇴", "사임", "별세", "사망",
			"화재", "폭발", "추돌", "사고", "지진",
		},
		EventKeywords: []string{
			"별세", "사망", "사퇴", "사임", "구속", "기소", "영장", "재판",
			"파면", "탄핵", "해임", "선고", "항소", "압수수색", "의혹",
			"화재", "폭발", "추돌", "사고", "지진",
		},
		ObitKeywords: []string{
			"별세", "사망", "향년", "부고", "빈소", "발인", "장례", "추모", "영면",
		},
		PersonStopwords: []string{
			"국민", "배우", "가수", "감독", "개그맨", "mc", "회장", "의원",
			"대표", "장관", "대통령", "총리", "실장", "아역", "국민배우",
		},
	}
}

// Lexicon extracts entities, person-name candidates, and grouping keys from
// normalized titles. All methods are pure lookups over the configured lists;
// the regex patterns are compiled once at construction so the per-title path
// cannot fail.
type Lexicon struct {
	entities        []string
	topicPriority   []string
	eventKeywords   []string
	obitKeywords    []string
	personStopwords map[string]struct{}
	candidateStops  map[string]struct{}

	hangulToken  *regexp.Regexp
	numberToken  *regexp.Regexp
	obitName     *regexp.Regexp
	namePatterns []*regexp.Regexp
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the process-wide Lexicon built from DefaultConfig.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := NewLexicon(DefaultConfig())
		if err != nil {
			panic(fmt.Sprintf("entities: default lexicon: %v", err))
		}
		defaultLex = lex
	})
	return defaultLex
}

// NewLexicon compiles the extraction patterns for the given keyword lists.
func NewLexicon(cfg Config) (*Lexicon, error) {
	lex := &Lexicon{
		entities:        lowerAll(cfg.Entities),
		topicPriority:   lowerAll(cfg.TopicPriority),
		eventKeywords:   append([]string(nil), cfg.EventKeywords...),
		obitKeywords:    append([]string(nil), cfg.ObitKeywords...),
		personStopwords: make(map[string]struct{}, len(cfg.PersonStopwords)),
		candidateStops:  make(map[string]struct{}),
	}

	for _, word := range cfg.PersonStopwords {
		lex.personStopwords[strings.ToLower(word)] = struct{}{}
		lex.candidateStops[strings.ToLower(word)] = struct{}{}
	}
	for _, word := range cfg.ObitKeywords {
		lex.candidateStops[word] = struct{}{}
	}
	for _, word := range cfg.EventKeywords {
		lex.candidateStops[word] = struct{}{}
	}

	patterns := []struct {
		target **regexp.Regexp
		expr   string
	}{
		{&lex.hangulToken, `[가-힣]{2,4}`},
		{&lex.numberToken, `\d+[.,]?\d*`},
		{&lex.obitName, `(?:고\s*)?([가-힣]{2,4})[^가-힣]{0,6}(?:별세|사망|향년|부고|추모|영면|빈소|발인|장례)`},
	}
	for _, p := range patterns {
		compiled, err := regexp.Compile(p.expr)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p.expr, err)
		}
		*p.target = compiled
	}

	nameExprs := []string{
		`(?:고\s*)?([가-힣]{2,4})\s*(?:별세|사망|향년|부고|추모|영면|빈소|발인|장례)`,
		`(?:[가-힣]{1,4}\s*)?(?:배우|가수|감독|개그맨|MC)\s*([가-힣]{2,4})`,
		`([가-힣]{2,4})\s*(?:배우|가수|감독|개그맨|MC)`,
		`고\s*([가-힣]{2,4})`,
	}
	for _, expr := range nameExprs {
		compiled, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile name pattern %q: %w", expr, err)
		}
		lex.namePatterns = append(lex.namePatterns, compiled)
	}

	return lex, nil
}

// KeyEntities returns the sorted set of known entities found in the title,
// plus up to two numeric tokens (amounts, index levels). Empty slice when
// nothing matches.
func (l *Lexicon) KeyEntities(title string) []string {
	if title == "" {
		return nil
	}

	lower := strings.ToLower(title)
	seen := make(map[string]struct{})
	for _, entity := range l.entities {
		if strings.Contains(lower, entity) {
			seen[entity] = struct{}{}
		}
	}

	numbers := l.numberToken.FindAllString(title, 2)
	for _, number := range numbers {
		seen[number] = struct{}{}
	}

	if len(seen) == 0 {
		return nil
	}
	found := make([]string, 0, len(seen))
	for entity := range seen {
		found = append(found, entity)
	}
	sort.Strings(found)
	return found
}

// PrimaryTopic returns the highest-priority topic keyword contained in the
// title, or empty when none match.
func (l *Lexicon) PrimaryTopic(title string) string {
	if title == "" {
		return ""
	}
	lower := strings.ToLower(title)
	for _, keyword := range l.topicPriority {
		if strings.Contains(lower, keyword) {
			return keyword
		}
	}
	return ""
}

// HasObitKeyword reports whether the title carries obituary wording.
func (l *Lexicon) HasObitKeyword(title string) bool {
	if title == "" {
		return false
	}
	for _, keyword := range l.obitKeywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}

// PersonName extracts the single most likely person name from the title.
// Obituary-adjacent names win, then role-adjacent patterns (actor X, X
// minister), then the first name-shaped token that is neither a stopword nor
// an event keyword. Empty when nothing qualifies.
func (l *Lexicon) PersonName(title string) string {
	if title == "" {
		return ""
	}

	if l.HasObitKeyword(title) {
		if match := l.obitName.FindStringSubmatch(title); match != nil {
			if candidate := match[1]; !l.isPersonStopword(candidate) {
				return candidate
			}
		}
	}

	for _, pattern := range l.namePatterns {
		match := pattern.FindStringSubmatch(title)
		if match == nil {
			continue
		}
		if candidate := match[1]; !l.isPersonStopword(candidate) {
			return candidate
		}
	}

	for _, token := range l.hangulToken.FindAllString(title, -1) {
		if _, skip := l.candidateStops[token]; skip {
			continue
		}
		return token
	}
	return ""
}

// PersonCandidates returns every name-shaped token in the title that is not a
// stopword or event keyword. Broader than PersonName by design: the dedup
// cascade uses candidate overlap as its widest duplicate signal.
func (l *Lexicon) PersonCandidates(title string) map[string]struct{} {
	if title == "" {
		return nil
	}

	tokens := l.hangulToken.FindAllString(title, -1)
	if len(tokens) == 0 {
		return nil
	}

	candidates := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if _, skip := l.candidateStops[token]; skip {
			continue
		}
		candidates[token] = struct{}{}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates
}

// IssueKey derives a coarse grouping key that collapses coverage of one
// person/event across wildly different phrasings. Returns empty when the
// title carries no grouping signal.
func (l *Lexicon) IssueKey(title string) string {
	if title == "" {
		return ""
	}

	if name := l.PersonName(title); name != "" {
		if l.HasObitKeyword(title) || strings.Contains(title, "고 ") {
			return "person:" + name + ":obit"
		}
		for _, keyword := range l.eventKeywords {
			if strings.Contains(title, keyword) {
				return "person:" + name + ":" + keyword
			}
		}
	}

	if found := l.KeyEntities(title); len(found) > 0 {
		top := found
		if len(top) > 2 {
			top = top[:2]
		}
		return "entity:" + strings.Join(top, "|")
	}

	return ""
}

func (l *Lexicon) isPersonStopword(token string) bool {
	_, ok := l.personStopwords[strings.ToLower(token)]
	return ok
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, strings.ToLower(value))
	}
	return out
}
