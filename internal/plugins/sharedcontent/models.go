package sharedcontent

import (
	"time"

	"github.com/damoang/angple-contents/internal/domain"
)

const (
	// OwnerType SharedContent 의 generic reference 타입 태그
	OwnerType = "sharedcontent.sharedcontent"
	// PlaceholderSlot SharedContent 가 가지는 플레이스홀더 슬롯
	PlaceholderSlot = "shared_content"
)

// SharedContent 여러 페이지에서 재사용되는 콘텐츠 묶음 (번역 가능)
type SharedContent struct {
	ID           int64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ParentSite   int64         `gorm:"column:parent_site;not null;uniqueIndex:uq_sharedcontent_site_slug,priority:1" json:"parent_site"`
	Slug         string        `gorm:"column:slug;size:50;not null;uniqueIndex:uq_sharedcontent_site_slug,priority:2" json:"slug"`
	CreatedAt    time.Time     `gorm:"column:created_at" json:"created_at"`
	Translations []Translation `gorm:"foreignKey:MasterID" json:"translations,omitempty"`

	currentLanguage string
}

func (SharedContent) TableName() string {
	return "sharedcontent_sharedcontent"
}

// Translation 언어별 제목
type Translation struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MasterID     int64  `gorm:"column:master_id;not null;uniqueIndex:uq_sharedcontent_translation,priority:1" json:"-"`
	LanguageCode string `gorm:"column:language_code;size:15;not null;uniqueIndex:uq_sharedcontent_translation,priority:2" json:"language_code"`
	Title        string `gorm:"column:title;size:200" json:"title"`
}

func (Translation) TableName() string {
	return "sharedcontent_sharedcontent_translation"
}

// Reference generic reference
func (s *SharedContent) Reference() domain.GenericReference {
	return domain.NewReference(OwnerType, s.ID)
}

// SetCurrentLanguage 현재 언어 설정
func (s *SharedContent) SetCurrentLanguage(code string) {
	s.currentLanguage = code
}

// LanguageCode 현재 언어 (owner.LanguageProvider)
func (s *SharedContent) LanguageCode() string {
	return s.currentLanguage
}

// Title 현재 언어 제목, 없으면 첫 번역 제목
func (s *SharedContent) Title() string {
	for _, t := range s.Translations {
		if t.LanguageCode == s.currentLanguage {
			return t.Title
		}
	}
	if len(s.Translations) > 0 {
		return s.Translations[0].Title
	}
	return s.Slug
}

func (s *SharedContent) String() string {
	return s.Title()
}
