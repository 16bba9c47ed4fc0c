package press

import (
	"sort"
	"strings"
	"sync"

	"horse.fit/hotnews/internal/news"
)

// CategoryKeywords holds the weighted keyword lists for one category.
// Primary hits score 3, secondary hits score 1.
type CategoryKeywords struct {
	Primary   []string
	Secondary []string
}

// Config is the outlet and keyword configuration the registry matches
// against. Lists are read-only after construction.
type Config struct {
	// DomainToPress maps URL domain fragments to outlet display names.
	DomainToPress map[string]string
	// AllowedPresses is the outlet allow-list collectors are trusted for.
	AllowedPresses []string
	// BreakingPatterns mark a title as breaking coverage.
	BreakingPatterns []string
	// ExcludeKeywords veto the breaking flag: festival and memorial notices
	// reuse the same bracket tags without being breaking news.
	ExcludeKeywords []string
	// UrgentKeywords mark disaster/incident coverage for urgent delivery.
	UrgentKeywords []string
	// CategoryKeywords drive title-based category classification.
	CategoryKeywords map[string]CategoryKeywords
}

// DefaultConfig returns the outlet registry for the 20 Korean outlets the
// collectors cover.
func DefaultConfig() Config {
	return Config{
		DomainToPress: map[string]string{
			"mk.co.kr":        "매일경제",
			"hankyung.com":    "한국경제",
			"mt.co.kr":        "머니투데이",
			"sedaily.com":     "서울경제",
			"heraldcorp.com":  "헤럴드경제",
			"asiae.co.kr":     "아시아경제",
			"edaily.co.kr":    "이데일리",
			"hankyungbiz.com": "한경비즈니스",
			"biz.chosun.com":  "조선비즈",
			"fnnews.com":      "파이낸셜뉴스",
			"yna.co.kr":       "연합뉴스",
			"yonhapnews.co.kr": "연합뉴스",
			"ytn.co.kr":        "YTN",
			"kbs.co.kr":        "KBS",
			"sbs.co.kr":        "SBS",
			"jtbc.co.kr":       "JTBC",
			"jtbc.joins.com":   "JTBC",
			"kmib.co.kr":       "국민일보",
			"koreaherald.com":  "코리아헤럴드",
			"inews24.com":      "아이뉴스24",
			"dt.co.kr":         "디지털타임스",
		},
		AllowedPresses: []string{
			"매일경제", "한국경제", "머니투데이", "서울경제", "헤럴드경제",
			"아시아경제", "이데일리", "한경비즈니스", "조선비즈", "파이낸셜뉴스",
			"연합뉴스", "YTN", "KBS", "SBS", "JTBC",
			"국민일보", "코리아헤럴드", "아이뉴스24", "디지털타임스",
		},
		BreakingPatterns: []string{"[속보]", "[긴급]", "속보:", "[단독]", "단독"},
		ExcludeKeywords:  []string{"축제", "페스티벌", "기탁", "기부", "장례", "추모", "봉사"},
		UrgentKeywords: []string{
			"특보", "재난", "산불", "화재", "폭발",
			"건물붕괴", "붕괴", "지진", "해일", "쓰나미",
			"폭우", "태풍", "홍수", "산사태",
			"대형사고", "대형 사고", "대형교통사고", "전복", "추락", "침몰",
			"사망", "실종", "인명피해", "사상자",
			"전쟁", "전투", "폭격", "미사일", "공습", "테러", "총격",
			"비상사태", "계엄",
		},
		CategoryKeywords: map[string]CategoryKeywords{
			news.CategoryEconomy: {
				Primary: []string{
					"코스피", "코스닥", "주가", "증시", "환율", "달러", "원화",
					"금리", "채권", "상장", "ipo", "펀드",
					"매출", "실적", "영업이익", "순이익", "수출", "수입",
					"gdp", "경제성장", "성장률",
				},
				Secondary: []string{
					"투자", "경제", "기업", "산업", "무역", "관세",
					"물가", "인플레", "인플레이션",
					"부동산", "아파트", "집값", "주택", "전세", "월세",
					"세금", "재정", "예산", "경영", "m&a", "인수합병",
				},
			},
			news.CategorySociety: {
				Primary: []string{
					"정치", "국회", "청와대", "대통령", "총리", "장관", "의원",
					"법원", "검찰", "경찰", "재판", "판결", "선고", "기소",
					"사고", "화재", "폭발", "붕괴", "참사",
					"범죄", "살인", "강도", "절도", "사기", "피해",
				},
				Secondary: []string{
					"정부", "정책", "법안", "조례", "규제", "개정",
					"교육", "학교", "대학", "입시", "학생", "교사",
					"날씨", "기상", "태풍", "지진", "홍수", "가뭄",
					"재난", "안전", "구조", "소방", "응급",
				},
			},
			news.CategoryCulture: {
				Primary: []string{
					"전시", "전시회", "공연", "미술", "음악회", "콘서트", "공연장",
					"영화", "개봉", "박스오피스", "영화제", "칸", "오스카",
					"책", "도서", "작가", "소설", "시집", "출판", "베스트셀러",
				},
				Secondary: []string{
					"문화", "예술", "작품", "문화재", "유적", "유물",
					"박물관", "미술관", "갤러리", "전시관",
					"축제", "페스티벌", "행사", "이벤트", "문화행사",
				},
			},
			news.CategoryEntertainment: {
				Primary: []string{
					"아이돌", "걸그룹", "보이그룹", "가수", "배우", "연예인", "탤런트",
					"드라마", "예능", "방송", "tv프로그램", "시청률",
					"컴백", "데뷔", "신곡", "앨범", "타이틀곡", "뮤비", "뮤직비디오",
				},
				Secondary: []string{
					"스타", "셀럽", "연기", "출연", "캐스팅", "주연",
					"결혼", "열애", "이혼", "파경", "스캔들", "루머",
					"팬", "팬미팅", "콘서트", "인스타그램", "인스타", "sns",
				},
			},
		},
	}
}

// Registry resolves outlets from URLs and classifies titles. Safe for
// concurrent use after construction.
type Registry struct {
	domainToPress    map[string]string
	domains          []string
	allowed          map[string]struct{}
	allowedList      []string
	breakingPatterns []string
	excludeKeywords  []string
	urgentKeywords   []string
	categoryKeywords map[string]CategoryKeywords
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry built from DefaultConfig.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry(DefaultConfig())
	})
	return defaultReg
}

// NewRegistry builds a registry from the given configuration.
func NewRegistry(cfg Config) *Registry {
	reg := &Registry{
		domainToPress:    make(map[string]string, len(cfg.DomainToPress)),
		allowed:          make(map[string]struct{}, len(cfg.AllowedPresses)),
		allowedList:      append([]string(nil), cfg.AllowedPresses...),
		breakingPatterns: append([]string(nil), cfg.BreakingPatterns...),
		excludeKeywords:  append([]string(nil), cfg.ExcludeKeywords...),
		urgentKeywords:   append([]string(nil), cfg.UrgentKeywords...),
		categoryKeywords: make(map[string]CategoryKeywords, len(cfg.CategoryKeywords)),
	}

	for domain, name := range cfg.DomainToPress {
		reg.domainToPress[domain] = name
		reg.domains = append(reg.domains, domain)
	}
	// Deterministic lookup order; domain fragments can overlap.
	sort.Strings(reg.domains)

	for _, name := range cfg.AllowedPresses {
		reg.allowed[name] = struct{}{}
	}
	for category, keywords := range cfg.CategoryKeywords {
		reg.categoryKeywords[category] = CategoryKeywords{
			Primary:   lowerAll(keywords.Primary),
			Secondary: lowerAll(keywords.Secondary),
		}
	}
	return reg
}

// FromURL resolves the outlet display name from an article URL. Empty when
// the domain is unknown.
func (r *Registry) FromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	for _, domain := range r.domains {
		if strings.Contains(rawURL, domain) {
			return r.domainToPress[domain]
		}
	}
	return ""
}

// Allowed reports whether the outlet is on the collector allow-list.
func (r *Registry) Allowed(pressName string) bool {
	_, ok := r.allowed[pressName]
	return ok
}

// AllowedPresses returns the outlet allow-list in configuration order.
func (r *Registry) AllowedPresses() []string {
	return append([]string(nil), r.allowedList...)
}

// IsBreaking reports whether a title is genuine breaking coverage: it must
// carry a breaking tag and must not carry an exclusion keyword. Festival and
// memorial notices reuse the [단독] tag without being breaking news.
func (r *Registry) IsBreaking(title string) bool {
	if title == "" {
		return false
	}
	for _, keyword := range r.excludeKeywords {
		if strings.Contains(title, keyword) {
			return false
		}
	}
	for _, pattern := range r.breakingPatterns {
		if strings.Contains(title, pattern) {
			return true
		}
	}
	return false
}

// HasUrgentKeyword reports whether the title names a disaster or incident.
func (r *Registry) HasUrgentKeyword(title string) bool {
	return len(r.UrgentKeywords(title)) > 0
}

// UrgentKeywords returns every urgent keyword found in the title, in
// configuration order.
func (r *Registry) UrgentKeywords(title string) []string {
	if title == "" {
		return nil
	}
	lower := strings.ToLower(title)
	var found []string
	for _, keyword := range r.urgentKeywords {
		if strings.Contains(lower, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}

// ClassifyCategory assigns a category from weighted keyword hits: 3 points
// per primary keyword, 1 per secondary. Ties resolve in ranked-category
// order; zero hits default to society.
func (r *Registry) ClassifyCategory(title string) string {
	if title == "" {
		return news.CategorySociety
	}

	lower := strings.ToLower(title)
	best := news.CategorySociety
	bestScore := 0
	for _, category := range []string{
		news.CategoryEconomy, news.CategorySociety,
		news.CategoryCulture, news.CategoryEntertainment,
	} {
		keywords := r.categoryKeywords[category]
		score := 0
		for _, keyword := range keywords.Primary {
			if strings.Contains(lower, keyword) {
				score += 3
			}
		}
		for _, keyword := range keywords.Secondary {
			if strings.Contains(lower, keyword) {
				score += 1
			}
		}
		if score > bestScore {
			bestScore = score
			best = category
		}
	}
	return best
}

// DisplayName returns the Korean section header for a category. Unknown
// categories pass through unchanged.
func DisplayName(category string) string {
	switch category {
	case news.CategorySociety:
		return "사회"
	case news.CategoryEconomy:
		return "경제"
	case news.CategoryCulture:
		return "문화"
	case news.CategoryEntertainment:
		return "연예"
	case news.CategoryBreaking:
		return "속보"
	default:
		return category
	}
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, strings.ToLower(value))
	}
	return out
}
