package repository

import (
	"errors"
	"fmt"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"gorm.io/gorm"
)

// PlaceholderRepository 플레이스홀더 저장소
type PlaceholderRepository struct {
	db *gorm.DB
}

// NewPlaceholderRepository 생성자
func NewPlaceholderRepository(db *gorm.DB) *PlaceholderRepository {
	return &PlaceholderRepository{db: db}
}

// WithTx 트랜잭션에 묶인 저장소 반환
func (r *PlaceholderRepository) WithTx(tx *gorm.DB) *PlaceholderRepository {
	return &PlaceholderRepository{db: tx}
}

// DB 내부 DB 핸들
func (r *PlaceholderRepository) DB() *gorm.DB {
	return r.db
}

// Create 플레이스홀더 생성
// 중복 (parent, slot) 은 *common.UniquenessError
func (r *PlaceholderRepository) Create(p *domain.Placeholder) error {
	err := r.db.Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return uniquenessError(p)
	}
	return err
}

// FindByID ID로 조회
func (r *PlaceholderRepository) FindByID(id uint64) (*domain.Placeholder, error) {
	var p domain.Placeholder
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("placeholder %d: %w", id, common.ErrPlaceholderNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// FindByParentAndSlot 부모 + 슬롯으로 조회
func (r *PlaceholderRepository) FindByParentAndSlot(ref domain.GenericReference, slot string) (*domain.Placeholder, error) {
	var p domain.Placeholder
	err := whereParent(r.db, ref).Where("slot = ?", slot).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("placeholder %q of %s: %w", slot, ref, common.ErrPlaceholderNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// ExistsForParentSlot 부모 + 슬롯 존재 여부
func (r *PlaceholderRepository) ExistsForParentSlot(ref domain.GenericReference, slot string) (bool, error) {
	var count int64
	err := whereParent(r.db.Model(&domain.Placeholder{}), ref).Where("slot = ?", slot).Count(&count).Error
	return count > 0, err
}

// FindByParent 부모의 모든 플레이스홀더
func (r *PlaceholderRepository) FindByParent(ref domain.GenericReference) ([]domain.Placeholder, error) {
	var list []domain.Placeholder
	err := whereParent(r.db, ref).Order("id ASC").Find(&list).Error
	return list, err
}

// Update title/role 변경
func (r *PlaceholderRepository) Update(p *domain.Placeholder) error {
	return r.db.Model(p).Select("title", "role").Updates(p).Error
}

// Delete 플레이스홀더 행 삭제 (연결된 아이템 정리는 호출자 책임)
func (r *PlaceholderRepository) Delete(id uint64) error {
	return r.db.Delete(&domain.Placeholder{}, id).Error
}

// whereParent (parent_type, parent_id) 조건. 빈 참조는 IS NULL
func whereParent(db *gorm.DB, ref domain.GenericReference) *gorm.DB {
	if !ref.IsSet() {
		return db.Where("parent_type IS NULL AND parent_id IS NULL")
	}
	return db.Where("parent_type = ? AND parent_id = ?", *ref.Type, *ref.ID)
}

func uniquenessError(p *domain.Placeholder) error {
	ref := p.Parent()
	return &common.UniquenessError{ParentType: ref.TypeTag(), ParentID: ref.OwnerID(), Slot: p.Slot}
}
