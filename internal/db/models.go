package db

import (
	"time"
)

// DailyArticle maps news.daily_articles, one collected headline per row.
// (date, topic_key) is unique so refetches of the same story within a day
// land on the existing row.
type DailyArticle struct {
	ArticleID   int64      `gorm:"column:article_id;primaryKey;autoIncrement"`
	Date        time.Time  `gorm:"column:date;type:date;not null;index"`
	Category    string     `gorm:"column:category;type:text;not null;index"`
	Title       string     `gorm:"column:title;type:text;not null"`
	URL         string     `gorm:"column:url;type:text;not null"`
	Source      string     `gorm:"column:source;type:text;not null;default:''"`
	TopicKey    string     `gorm:"column:topic_key;type:text;not null"`
	Language    string     `gorm:"column:language;type:text;not null;default:''"`
	Keywords    *string    `gorm:"column:keywords;type:text"`
	IsBreaking  bool       `gorm:"column:is_breaking;type:boolean;not null;default:false"`
	IsTop       bool       `gorm:"column:is_top;type:boolean;not null;default:false"`
	HotScore    int        `gorm:"column:hot_score;type:integer;not null;default:0;index"`
	PublishedAt *time.Time `gorm:"column:published_at;type:timestamptz"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (DailyArticle) TableName() string { return "news.daily_articles" }

func autoMigrateModels() []any {
	return []any{
		&DailyArticle{},
	}
}
