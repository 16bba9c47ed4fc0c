package digest

import (
	"fmt"
	"strings"
	"time"

	"horse.fit/hotnews/internal/news"
	"horse.fit/hotnews/internal/press"
)

// Selector picks the ranked top articles for one category.
type Selector interface {
	SelectTop(batch []news.Article, category string, limit int) []news.Article
}

// Section is one category block of a rendered digest.
type Section struct {
	Category string
	Articles []news.Article
}

// Builder assembles per-category digest sections from a scored day batch.
type Builder struct {
	selector Selector
	limit    int
}

func NewBuilder(selector Selector, limit int) *Builder {
	if limit <= 0 {
		limit = 5
	}
	return &Builder{
		selector: selector,
		limit:    limit,
	}
}

// Build runs top-N selection for every ranked category. Categories with no
// survivors are omitted.
func (b *Builder) Build(batch []news.Article) []Section {
	sections := make([]Section, 0, 4)
	for _, category := range news.RankedCategories() {
		top := b.selector.SelectTop(batch, category, b.limit)
		if len(top) == 0 {
			continue
		}
		sections = append(sections, Section{
			Category: category,
			Articles: top,
		})
	}
	return sections
}

// Render formats digest sections as the plain-text message block the
// external formatter forwards. One line per article: rank, title, outlet,
// score, then the link indented below.
func Render(date time.Time, sections []Section) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s 뉴스 요약\n", date.Format("2006-01-02"))
	if len(sections) == 0 {
		b.WriteString("\n수집된 기사가 없습니다.\n")
		return b.String()
	}

	for _, section := range sections {
		fmt.Fprintf(&b, "\n[%s]\n", press.DisplayName(section.Category))
		for i, article := range section.Articles {
			line := fmt.Sprintf("%d. %s", i+1, article.Title)
			if article.Source != "" {
				line += fmt.Sprintf(" (%s)", article.Source)
			}
			if article.IsBreaking {
				line += " [속보]"
			}
			line += fmt.Sprintf(" · %d점", article.HotScore)
			b.WriteString(line + "\n")
			if article.URL != "" {
				b.WriteString("   " + article.URL + "\n")
			}
		}
	}

	return b.String()
}
