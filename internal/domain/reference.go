package domain

import "fmt"

// GenericReference 임의의 소유 엔티티를 가리키는 (타입 태그, ID) 쌍
// 두 값은 함께 설정되거나 함께 비어 있어야 한다 (소유자 저장 전에는 비어 있을 수 있음)
type GenericReference struct {
	Type *string `json:"parent_type"`
	ID   *int64  `json:"parent_id"`
}

// NewReference 설정된 참조 생성
func NewReference(typeTag string, id int64) GenericReference {
	return GenericReference{Type: &typeTag, ID: &id}
}

// IsSet 타입과 ID 가 모두 설정되었는지
func (r GenericReference) IsSet() bool {
	return r.Type != nil && r.ID != nil && *r.Type != ""
}

// IsValid 둘 다 설정되었거나 둘 다 비어 있는지
func (r GenericReference) IsValid() bool {
	return (r.Type == nil) == (r.ID == nil)
}

// TypeTag 타입 태그 (없으면 빈 문자열)
func (r GenericReference) TypeTag() string {
	if r.Type == nil {
		return ""
	}
	return *r.Type
}

// OwnerID 소유자 ID (없으면 0)
func (r GenericReference) OwnerID() int64 {
	if r.ID == nil {
		return 0
	}
	return *r.ID
}

// Equal 같은 소유자를 가리키는지
func (r GenericReference) Equal(o GenericReference) bool {
	if r.IsSet() != o.IsSet() {
		return false
	}
	return !r.IsSet() || (*r.Type == *o.Type && *r.ID == *o.ID)
}

func (r GenericReference) String() string {
	if !r.IsSet() {
		return "<none>"
	}
	return fmt.Sprintf("%s#%d", *r.Type, *r.ID)
}
