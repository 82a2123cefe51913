package domain

import "regexp"

// PlaceholderRole 레이아웃 전환 시 아이템 이동에 쓰이는 역할 (저장소에서 강제하지 않음)
type PlaceholderRole string

const (
	RoleMain    PlaceholderRole = "m"
	RoleSidebar PlaceholderRole = "s"
	RoleRelated PlaceholderRole = "r"
)

// IsValid 알려진 역할인지
func (r PlaceholderRole) IsValid() bool {
	switch r {
	case RoleMain, RoleSidebar, RoleRelated:
		return true
	}
	return false
}

// Title 역할 표시명
func (r PlaceholderRole) Title() string {
	switch r {
	case RoleSidebar:
		return "Sidebar content"
	case RoleRelated:
		return "Related content"
	default:
		return "Main content"
	}
}

var slotPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// IsValidSlot 슬롯 이름은 slug 형식
func IsValidSlot(slot string) bool {
	return len(slot) <= 50 && slotPattern.MatchString(slot)
}

// Placeholder 부모 엔티티에 붙는 이름 있는 콘텐츠 영역
// (parent_type, parent_id, slot) 은 유일
type Placeholder struct {
	ID         uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Slot       string          `gorm:"column:slot;size:50;not null;uniqueIndex:uq_placeholder_parent_slot,priority:3" json:"slot"`
	Role       PlaceholderRole `gorm:"column:role;size:1;not null" json:"role"`
	ParentType *string         `gorm:"column:parent_type;size:100;uniqueIndex:uq_placeholder_parent_slot,priority:1" json:"parent_type"`
	ParentID   *int64          `gorm:"column:parent_id;uniqueIndex:uq_placeholder_parent_slot,priority:2" json:"parent_id"`
	Title      string          `gorm:"column:title;size:255" json:"title"`
}

func (Placeholder) TableName() string {
	return "contents_placeholder"
}

// Parent 소유자 참조
func (p *Placeholder) Parent() GenericReference {
	return GenericReference{Type: p.ParentType, ID: p.ParentID}
}

// SetParent 소유자 참조 설정
func (p *Placeholder) SetParent(ref GenericReference) {
	p.ParentType, p.ParentID = ref.Type, ref.ID
}

func (p *Placeholder) String() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Slot
}
