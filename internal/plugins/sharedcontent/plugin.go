package sharedcontent

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

// ItemTypeTag SharedContentItem discriminator
const ItemTypeTag = "sharedcontent.sharedcontentitem"

// maxRenderDepth 공유 콘텐츠 안의 공유 콘텐츠 중첩 한도
const maxRenderDepth = 4

// ItemManifest 플러그인 매니페스트
var ItemManifest = &plugin.ContentManifest{
	Name:    "sharedcontent",
	TypeTag: ItemTypeTag,
	Title:   "Shared content",
}

// Item 다른 SharedContent 를 삽입하는 콘텐츠 아이템
type Item struct {
	*domain.ContentItem
	SharedContentID int64 `json:"shared_content_id"`
}

type itemRow struct {
	ContentItemID   uint64 `gorm:"column:contentitem_ptr_id;primaryKey;autoIncrement:false"`
	SharedContentID int64  `gorm:"column:shared_content_id;not null;index:idx_sharedcontentitem_shared"`
}

func (itemRow) TableName() string {
	return "contentitem_sharedcontent_sharedcontentitem"
}

// Renderer SharedContent ID 로 렌더링
type Renderer interface {
	RenderByID(ctx context.Context, id int64) (string, error)
}

// Plugin SharedContentItem 콘텐츠 플러그인
type Plugin struct {
	plugin.BaseContentPlugin
	renderer Renderer
}

// NewPlugin 생성자
func NewPlugin(renderer Renderer) *Plugin {
	return &Plugin{BaseContentPlugin: plugin.NewBase(ItemManifest), renderer: renderer}
}

// Model 타입 식별용
func (p *Plugin) Model() domain.Item {
	return &Item{}
}

// Migrate 테이블 생성
func (p *Plugin) Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&itemRow{})
}

// NewItem JSON 필드로 아이템 생성
func (p *Plugin) NewItem(base *domain.ContentItem, fields json.RawMessage) (domain.Item, error) {
	var f struct {
		SharedContentID int64 `json:"shared_content_id"`
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, fmt.Errorf("shared content item fields: %w: %v", common.ErrInvalidInput, err)
		}
	}
	if f.SharedContentID <= 0 {
		return nil, fmt.Errorf("shared_content_id required: %w", common.ErrInvalidInput)
	}
	return &Item{ContentItem: base, SharedContentID: f.SharedContentID}, nil
}

// Load 일괄 로드
func (p *Plugin) Load(db *gorm.DB, bases []*domain.ContentItem) ([]domain.Item, error) {
	var rows []itemRow
	if err := db.Where("contentitem_ptr_id IN ?", plugin.BaseIDs(bases)).Find(&rows).Error; err != nil {
		return nil, err
	}
	targets := make(map[uint64]int64, len(rows))
	for _, r := range rows {
		targets[r.ContentItemID] = r.SharedContentID
	}

	items := make([]domain.Item, 0, len(bases))
	for _, b := range bases {
		target, ok := targets[b.ID]
		if !ok {
			return nil, plugin.MissingFieldsError(ItemTypeTag, b.ID)
		}
		items = append(items, &Item{ContentItem: b, SharedContentID: target})
	}
	return items, nil
}

// SaveFields 대상 ID 저장 (upsert)
func (p *Plugin) SaveFields(tx *gorm.DB, item domain.Item) error {
	si, ok := item.(*Item)
	if !ok {
		return fmt.Errorf("shared content plugin cannot save %T: %w", item, common.ErrInvalidInput)
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contentitem_ptr_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"shared_content_id"}),
	}).Create(&itemRow{ContentItemID: si.ID, SharedContentID: si.SharedContentID}).Error
}

// DeleteFields 행 삭제
func (p *Plugin) DeleteFields(tx *gorm.DB, itemID uint64) error {
	return tx.Where("contentitem_ptr_id = ?", itemID).Delete(&itemRow{}).Error
}

// Render 대상 SharedContent 의 플레이스홀더를 렌더링
func (p *Plugin) Render(ctx context.Context, item domain.Item) (string, error) {
	si, ok := item.(*Item)
	if !ok {
		return "", fmt.Errorf("shared content plugin cannot render %T: %w", item, common.ErrInvalidInput)
	}
	if p.renderer == nil {
		return "", fmt.Errorf("shared content %d: renderer not configured", si.SharedContentID)
	}
	depth := renderDepth(ctx)
	if depth >= maxRenderDepth {
		return "", fmt.Errorf("shared content %d nested too deep: %w", si.SharedContentID, common.ErrInvalidInput)
	}
	out, err := p.renderer.RenderByID(withRenderDepth(ctx, depth+1), si.SharedContentID)
	if err != nil {
		return "", err
	}
	return `<div class="sharedcontent">` + out + `</div>`, nil
}

type depthKey struct{}

func renderDepth(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

func withRenderDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, depthKey{}, depth)
}
