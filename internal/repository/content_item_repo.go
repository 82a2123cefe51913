package repository

import (
	"errors"
	"fmt"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// itemOrder 기본 정렬: (placeholder, sort_order), 같은 순서는 id 로 고정
const itemOrder = "placeholder_id ASC, sort_order ASC, id ASC"

// ContentItemRepository 콘텐츠 아이템 공통 레코드 저장소
type ContentItemRepository struct {
	db *gorm.DB
}

// NewContentItemRepository 생성자
func NewContentItemRepository(db *gorm.DB) *ContentItemRepository {
	return &ContentItemRepository{db: db}
}

// WithTx 트랜잭션에 묶인 저장소 반환
func (r *ContentItemRepository) WithTx(tx *gorm.DB) *ContentItemRepository {
	return &ContentItemRepository{db: tx}
}

// DB 내부 DB 핸들
func (r *ContentItemRepository) DB() *gorm.DB {
	return r.db
}

// Create 공통 레코드 생성
func (r *ContentItemRepository) Create(item *domain.ContentItem) error {
	return r.db.Omit(clause.Associations).Create(item).Error
}

// Save 공통 레코드 갱신 (discriminator 는 갱신하지 않음)
func (r *ContentItemRepository) Save(item *domain.ContentItem) error {
	return r.db.Model(item).
		Omit(clause.Associations).
		Select("parent_type", "parent_id", "language_code", "placeholder_id", "sort_order").
		Updates(item).Error
}

// FindByID ID로 조회 (플레이스홀더 함께 로드)
func (r *ContentItemRepository) FindByID(id uint64) (*domain.ContentItem, error) {
	var item domain.ContentItem
	if err := r.db.Preload("Placeholder").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("content item %d: %w", id, common.ErrContentItemNotFound)
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDs ID 목록 조회 (정렬 유지)
func (r *ContentItemRepository) FindByIDs(ids []uint64) ([]*domain.ContentItem, error) {
	var list []*domain.ContentItem
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.Preload("Placeholder").Where("id IN ?", ids).Order(itemOrder).Find(&list).Error
	return list, err
}

// ItemQuery 아이템 목록 조건
type ItemQuery struct {
	PlaceholderID *uint64
	Parent        *domain.GenericReference
	LanguageCode  *string
}

// Find 조건에 맞는 아이템 목록 (기본 정렬)
func (r *ContentItemRepository) Find(q ItemQuery) ([]*domain.ContentItem, error) {
	db := r.db.Preload("Placeholder")
	if q.PlaceholderID != nil {
		db = db.Where("placeholder_id = ?", *q.PlaceholderID)
	}
	if q.Parent != nil {
		db = whereParent(db, *q.Parent)
	}
	if q.LanguageCode != nil {
		db = db.Where("language_code = ?", *q.LanguageCode)
	}

	var list []*domain.ContentItem
	err := db.Order(itemOrder).Find(&list).Error
	return list, err
}

// FindByPlaceholder 플레이스홀더에 연결된 아이템 (연결을 그대로 신뢰)
func (r *ContentItemRepository) FindByPlaceholder(placeholderID uint64) ([]*domain.ContentItem, error) {
	return r.Find(ItemQuery{PlaceholderID: &placeholderID})
}

// LockByPlaceholder 플레이스홀더 아이템 행 잠금 후 조회 (재정렬용)
func (r *ContentItemRepository) LockByPlaceholder(placeholderID uint64) ([]*domain.ContentItem, error) {
	var list []*domain.ContentItem
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("placeholder_id = ?", placeholderID).
		Order(itemOrder).
		Find(&list).Error
	return list, err
}

// DetachPlaceholder 플레이스홀더 연결 해제 (삭제하지 않음)
func (r *ContentItemRepository) DetachPlaceholder(placeholderID uint64) (int64, error) {
	result := r.db.Model(&domain.ContentItem{}).
		Where("placeholder_id = ?", placeholderID).
		Update("placeholder_id", nil)
	return result.RowsAffected, result.Error
}

// UpdateSortOrder 정렬 순서 변경
func (r *ContentItemRepository) UpdateSortOrder(id uint64, sortOrder int) error {
	return r.db.Model(&domain.ContentItem{}).Where("id = ?", id).Update("sort_order", sortOrder).Error
}

// Delete 공통 레코드 삭제
func (r *ContentItemRepository) Delete(id uint64) error {
	return r.db.Delete(&domain.ContentItem{}, id).Error
}
