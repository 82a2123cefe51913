package imagelink

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/plugin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TypeTag discriminator
const TypeTag = "imagelink.imageitem"

// Manifest 플러그인 매니페스트
var Manifest = &plugin.ContentManifest{
	Name:        "imagelink",
	TypeTag:     TypeTag,
	Title:       "Image",
	CacheOutput: true,
}

// Options 렌더링/검증 옵션
type Options struct {
	AllowedDomains []string `yaml:"allowed_domains"` // 비어 있으면 모든 도메인 허용
	MaxWidth       int      `yaml:"max_width"`       // 0이면 제한 없음
	LazyLoading    bool     `yaml:"lazy_loading"`
	LinkWrapper    bool     `yaml:"link_wrapper"` // 클릭 시 원본 열기
}

// Item 외부 이미지 아이템
type Item struct {
	*domain.ContentItem
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption"`
}

type row struct {
	ContentItemID uint64 `gorm:"column:contentitem_ptr_id;primaryKey;autoIncrement:false"`
	ImageURL      string `gorm:"column:image_url;size:500;not null"`
	Caption       string `gorm:"column:caption;size:255"`
}

func (row) TableName() string {
	return "contentitem_imagelink_imageitem"
}

// Plugin 이미지 콘텐츠 플러그인
type Plugin struct {
	plugin.BaseContentPlugin
	allowedDomains map[string]bool
	maxWidth       int
	lazyLoading    bool
	linkWrapper    bool
}

// New 플러그인 인스턴스 생성
func New(opts Options) *Plugin {
	p := &Plugin{
		BaseContentPlugin: plugin.NewBase(Manifest),
		allowedDomains:    make(map[string]bool),
		maxWidth:          opts.MaxWidth,
		lazyLoading:       opts.LazyLoading,
		linkWrapper:       opts.LinkWrapper,
	}
	for _, d := range opts.AllowedDomains {
		d = strings.TrimSpace(strings.ToLower(d))
		if d != "" {
			p.allowedDomains[d] = true
		}
	}
	return p
}

// Model 타입 식별용
func (p *Plugin) Model() domain.Item {
	return &Item{}
}

// Migrate 테이블 생성
func (p *Plugin) Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&row{})
}

// NewItem JSON 필드로 아이템 생성. 허용되지 않은 도메인은 거부
func (p *Plugin) NewItem(base *domain.ContentItem, fields json.RawMessage) (domain.Item, error) {
	var f struct {
		ImageURL string `json:"image_url"`
		Caption  string `json:"caption"`
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, fmt.Errorf("image fields: %w: %v", common.ErrInvalidInput, err)
		}
	}
	if !p.isAllowedURL(f.ImageURL) {
		return nil, fmt.Errorf("image url %q: %w", f.ImageURL, common.ErrInvalidInput)
	}
	return &Item{ContentItem: base, ImageURL: f.ImageURL, Caption: f.Caption}, nil
}

// Load 일괄 로드
func (p *Plugin) Load(db *gorm.DB, bases []*domain.ContentItem) ([]domain.Item, error) {
	var rows []row
	if err := db.Where("contentitem_ptr_id IN ?", plugin.BaseIDs(bases)).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint64]row, len(rows))
	for _, r := range rows {
		byID[r.ContentItemID] = r
	}

	items := make([]domain.Item, 0, len(bases))
	for _, b := range bases {
		r, ok := byID[b.ID]
		if !ok {
			return nil, plugin.MissingFieldsError(TypeTag, b.ID)
		}
		items = append(items, &Item{ContentItem: b, ImageURL: r.ImageURL, Caption: r.Caption})
	}
	return items, nil
}

// SaveFields 저장 (upsert)
func (p *Plugin) SaveFields(tx *gorm.DB, item domain.Item) error {
	ii, ok := item.(*Item)
	if !ok {
		return fmt.Errorf("image plugin cannot save %T: %w", item, common.ErrInvalidInput)
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contentitem_ptr_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"image_url", "caption"}),
	}).Create(&row{ContentItemID: ii.ID, ImageURL: ii.ImageURL, Caption: ii.Caption}).Error
}

// DeleteFields 행 삭제
func (p *Plugin) DeleteFields(tx *gorm.DB, itemID uint64) error {
	return tx.Where("contentitem_ptr_id = ?", itemID).Delete(&row{}).Error
}

// Render figure + img 태그
func (p *Plugin) Render(_ context.Context, item domain.Item) (string, error) {
	ii, ok := item.(*Item)
	if !ok {
		return "", fmt.Errorf("image plugin cannot render %T: %w", item, common.ErrInvalidInput)
	}

	src := html.EscapeString(ii.ImageURL)
	alt := "image"
	if ii.Caption != "" {
		alt = html.EscapeString(ii.Caption)
	}
	attrs := []string{fmt.Sprintf(`src="%s"`, src)}
	if p.maxWidth > 0 {
		attrs = append(attrs, fmt.Sprintf(`style="max-width: %dpx"`, p.maxWidth))
	}
	if p.lazyLoading {
		attrs = append(attrs, `loading="lazy"`)
	}
	attrs = append(attrs, fmt.Sprintf(`alt="%s"`, alt))

	img := "<img " + strings.Join(attrs, " ") + ">"
	if p.linkWrapper {
		img = fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`, src, img)
	}

	var sb strings.Builder
	sb.WriteString(`<figure class="image">`)
	sb.WriteString(img)
	if ii.Caption != "" {
		sb.WriteString("<figcaption>" + html.EscapeString(ii.Caption) + "</figcaption>")
	}
	sb.WriteString("</figure>")
	return sb.String(), nil
}

// isAllowedURL http(s) URL 이고 허용 도메인(서브도메인 포함)이면 true
func (p *Plugin) isAllowedURL(imageURL string) bool {
	parsed, err := url.Parse(imageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return false
	}
	if len(p.allowedDomains) == 0 {
		return true
	}

	host := strings.ToLower(parsed.Hostname())
	for d := range p.allowedDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
