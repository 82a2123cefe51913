package text

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/plugin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TypeTag discriminator
const TypeTag = "text.textitem"

// Manifest 플러그인 매니페스트
var Manifest = &plugin.ContentManifest{
	Name:        "text",
	TypeTag:     TypeTag,
	Title:       "Text",
	CacheOutput: true,
}

// Item 텍스트 콘텐츠 아이템
type Item struct {
	*domain.ContentItem
	Text string `json:"text"`
}

// row contentitem_text_textitem 테이블 행
type row struct {
	ContentItemID uint64 `gorm:"column:contentitem_ptr_id;primaryKey;autoIncrement:false"`
	Text          string `gorm:"column:text;type:text"`
}

func (row) TableName() string {
	return "contentitem_text_textitem"
}

// Plugin 텍스트 콘텐츠 플러그인
type Plugin struct {
	plugin.BaseContentPlugin
}

// New 플러그인 인스턴스 생성
func New() *Plugin {
	return &Plugin{BaseContentPlugin: plugin.NewBase(Manifest)}
}

// NewItem 새 텍스트 아이템
func NewItem(text string) *Item {
	return &Item{ContentItem: &domain.ContentItem{}, Text: text}
}

// Model 타입 식별용
func (p *Plugin) Model() domain.Item {
	return &Item{}
}

// Migrate 테이블 생성
func (p *Plugin) Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&row{})
}

// NewItem JSON 필드로 아이템 생성
func (p *Plugin) NewItem(base *domain.ContentItem, fields json.RawMessage) (domain.Item, error) {
	var f struct {
		Text string `json:"text"`
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, fmt.Errorf("text fields: %w: %v", common.ErrInvalidInput, err)
		}
	}
	return &Item{ContentItem: base, Text: Sanitize(f.Text)}, nil
}

// Load 텍스트 필드 일괄 로드
func (p *Plugin) Load(db *gorm.DB, bases []*domain.ContentItem) ([]domain.Item, error) {
	var rows []row
	if err := db.Where("contentitem_ptr_id IN ?", plugin.BaseIDs(bases)).Find(&rows).Error; err != nil {
		return nil, err
	}
	texts := make(map[uint64]string, len(rows))
	for _, r := range rows {
		texts[r.ContentItemID] = r.Text
	}

	items := make([]domain.Item, 0, len(bases))
	for _, b := range bases {
		t, ok := texts[b.ID]
		if !ok {
			return nil, plugin.MissingFieldsError(TypeTag, b.ID)
		}
		items = append(items, &Item{ContentItem: b, Text: t})
	}
	return items, nil
}

// SaveFields 정제한 텍스트 저장 (upsert)
func (p *Plugin) SaveFields(tx *gorm.DB, item domain.Item) error {
	ti, ok := item.(*Item)
	if !ok {
		return fmt.Errorf("text plugin cannot save %T: %w", item, common.ErrInvalidInput)
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contentitem_ptr_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"text"}),
	}).Create(&row{ContentItemID: ti.ID, Text: Sanitize(ti.Text)}).Error
}

// DeleteFields 텍스트 행 삭제
func (p *Plugin) DeleteFields(tx *gorm.DB, itemID uint64) error {
	return tx.Where("contentitem_ptr_id = ?", itemID).Delete(&row{}).Error
}

// Render 텍스트는 저장 시 Sanitize 를 거치므로 그대로 출력
func (p *Plugin) Render(_ context.Context, item domain.Item) (string, error) {
	ti, ok := item.(*Item)
	if !ok {
		return "", fmt.Errorf("text plugin cannot render %T: %w", item, common.ErrInvalidInput)
	}
	return `<div class="text">` + ti.Text + `</div>`, nil
}
