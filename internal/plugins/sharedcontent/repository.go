package sharedcontent

import (
	"errors"
	"fmt"

	"github.com/damoang/angple-contents/internal/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository SharedContent 저장소
type Repository struct {
	db *gorm.DB
}

// NewRepository 생성자
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx 트랜잭션에 묶인 저장소 반환
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Migrate 테이블 생성
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&SharedContent{}, &Translation{})
}

// Create SharedContent 생성 (번역 포함)
func (r *Repository) Create(sc *SharedContent) error {
	err := r.db.Create(sc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("shared content %q: %w", sc.Slug, common.ErrInvalidInput)
	}
	return err
}

// FindByID ID로 조회 (번역 포함)
func (r *Repository) FindByID(id int64) (*SharedContent, error) {
	var sc SharedContent
	if err := r.db.Preload("Translations").First(&sc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shared content %d: %w", id, common.ErrNotFound)
		}
		return nil, err
	}
	return &sc, nil
}

// FindBySlug 사이트 + slug 로 조회
func (r *Repository) FindBySlug(siteID int64, slug string) (*SharedContent, error) {
	var sc SharedContent
	err := r.db.Preload("Translations").Where("parent_site = ? AND slug = ?", siteID, slug).First(&sc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shared content %q: %w", slug, common.ErrNotFound)
		}
		return nil, err
	}
	return &sc, nil
}

// SaveTranslation 번역 저장 (upsert)
func (r *Repository) SaveTranslation(t *Translation) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "master_id"}, {Name: "language_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"title"}),
	}).Create(t).Error
}

// DeleteTranslation 번역 삭제, 삭제된 행 수 반환
func (r *Repository) DeleteTranslation(masterID int64, languageCode string) (int64, error) {
	result := r.db.Where("master_id = ? AND language_code = ?", masterID, languageCode).Delete(&Translation{})
	return result.RowsAffected, result.Error
}

// ReferencingItemIDs id 를 삽입한 SharedContentItem 아이템 ID 목록
func (r *Repository) ReferencingItemIDs(id int64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&itemRow{}).Where("shared_content_id = ?", id).Pluck("contentitem_ptr_id", &ids).Error
	return ids, err
}

// Delete SharedContent 와 번역 삭제
func (r *Repository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("master_id = ?", id).Delete(&Translation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&SharedContent{}, id).Error
	})
}
