package domain

import "fmt"

// Item 다형 콘텐츠 아이템
// 구체 플러그인 타입은 *ContentItem 을 임베드해서 Base() 를 얻는다
type Item interface {
	Base() *ContentItem
}

// ContentItem 모든 콘텐츠 아이템의 공통 레코드
// PolymorphicType 은 생성 시 정해지고 이후 변경되지 않는다
type ContentItem struct {
	ID              uint64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PolymorphicType string       `gorm:"column:polymorphic_type;size:100;not null;index" json:"type"`
	ParentType      *string      `gorm:"column:parent_type;size:100;index:idx_contentitem_parent,priority:1" json:"parent_type"`
	ParentID        *int64       `gorm:"column:parent_id;index:idx_contentitem_parent,priority:2" json:"parent_id"`
	LanguageCode    string       `gorm:"column:language_code;size:15;not null;index" json:"language_code"`
	PlaceholderID   *uint64      `gorm:"column:placeholder_id;index" json:"placeholder_id"`
	SortOrder       int          `gorm:"column:sort_order;not null;index" json:"sort_order"`
	Placeholder     *Placeholder `gorm:"foreignKey:PlaceholderID;constraint:OnDelete:SET NULL" json:"-"`
}

func (ContentItem) TableName() string {
	return "contents_contentitem"
}

// Base Item 구현
func (c *ContentItem) Base() *ContentItem {
	return c
}

// Parent 소유자 참조
func (c *ContentItem) Parent() GenericReference {
	return GenericReference{Type: c.ParentType, ID: c.ParentID}
}

// SetParent 소유자 참조 설정
func (c *ContentItem) SetParent(ref GenericReference) {
	c.ParentType, c.ParentID = ref.Type, ref.ID
}

// IsOrphan 플레이스홀더가 삭제되어 연결이 끊긴 아이템 (렌더링 대상 아님)
func (c *ContentItem) IsOrphan() bool {
	return c.PlaceholderID == nil
}

// LoadedPlaceholder 연결된 플레이스홀더가 로드되어 있으면 반환
func (c *ContentItem) LoadedPlaceholder() *Placeholder {
	if c.PlaceholderID == nil || c.Placeholder == nil || c.Placeholder.ID != *c.PlaceholderID {
		return nil
	}
	return c.Placeholder
}

// Describe admin 삭제 화면용 표현: 'Text item 12' in 'English main'
func (c *ContentItem) Describe(typeTitle, languageTitle string) string {
	placeholder := "<none>"
	if p := c.LoadedPlaceholder(); p != nil {
		placeholder = p.String()
	}
	return fmt.Sprintf("'%s %d' in '%s %s'", typeTitle, c.ID, languageTitle, placeholder)
}
