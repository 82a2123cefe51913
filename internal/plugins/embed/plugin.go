package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/plugin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TypeTag discriminator
const TypeTag = "embed.embeditem"

// Manifest 플러그인 매니페스트
var Manifest = &plugin.ContentManifest{
	Name:        "embed",
	TypeTag:     TypeTag,
	Title:       "Media embed",
	CacheOutput: true,
}

var (
	// youtube.com/watch?v=ID, youtu.be/ID, youtube.com/embed/ID
	youtubePattern = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?(?:youtube\.com/(?:watch\?v=|embed/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	// twitter.com/user/status/ID, x.com/user/status/ID
	twitterPattern = regexp.MustCompile(`(?i)^https?://(?:www\.)?(?:twitter\.com|x\.com)/([^/]+)/status/(\d+)`)
	// instagram.com/p/ID, instagram.com/reel/ID
	instagramPattern = regexp.MustCompile(`(?i)^https?://(?:www\.)?instagram\.com/(?:p|reel)/([a-zA-Z0-9_-]+)`)
)

// Options 렌더링 옵션
type Options struct {
	MaxWidth    int    `yaml:"max_width"`
	AspectRatio string `yaml:"aspect_ratio"` // 16:9, 4:3, 1:1
}

// Item 미디어 URL 임베드 아이템
type Item struct {
	*domain.ContentItem
	URL string `json:"url"`
}

type row struct {
	ContentItemID uint64 `gorm:"column:contentitem_ptr_id;primaryKey;autoIncrement:false"`
	URL           string `gorm:"column:url;size:500;not null"`
}

func (row) TableName() string {
	return "contentitem_embed_embeditem"
}

// Plugin 미디어 임베드 콘텐츠 플러그인
type Plugin struct {
	plugin.BaseContentPlugin
	maxWidth    int
	aspectRatio string
}

// New 플러그인 인스턴스 생성
func New(opts Options) *Plugin {
	p := &Plugin{
		BaseContentPlugin: plugin.NewBase(Manifest),
		maxWidth:          560,
		aspectRatio:       "16:9",
	}
	if opts.MaxWidth > 0 {
		p.maxWidth = opts.MaxWidth
	}
	if opts.AspectRatio != "" {
		p.aspectRatio = opts.AspectRatio
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

// NewItem JSON 필드로 아이템 생성. 지원하지 않는 URL 도 링크로 렌더링되므로 허용
func (p *Plugin) NewItem(base *domain.ContentItem, fields json.RawMessage) (domain.Item, error) {
	var f struct {
		URL string `json:"url"`
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, fmt.Errorf("embed fields: %w: %v", common.ErrInvalidInput, err)
		}
	}
	f.URL = strings.TrimSpace(f.URL)
	if !strings.HasPrefix(f.URL, "http://") && !strings.HasPrefix(f.URL, "https://") {
		return nil, fmt.Errorf("embed url %q: %w", f.URL, common.ErrInvalidInput)
	}
	return &Item{ContentItem: base, URL: f.URL}, nil
}

// Load URL 일괄 로드
func (p *Plugin) Load(db *gorm.DB, bases []*domain.ContentItem) ([]domain.Item, error) {
	var rows []row
	if err := db.Where("contentitem_ptr_id IN ?", plugin.BaseIDs(bases)).Find(&rows).Error; err != nil {
		return nil, err
	}
	urls := make(map[uint64]string, len(rows))
	for _, r := range rows {
		urls[r.ContentItemID] = r.URL
	}

	items := make([]domain.Item, 0, len(bases))
	for _, b := range bases {
		u, ok := urls[b.ID]
		if !ok {
			return nil, plugin.MissingFieldsError(TypeTag, b.ID)
		}
		items = append(items, &Item{ContentItem: b, URL: u})
	}
	return items, nil
}

// SaveFields URL 저장 (upsert)
func (p *Plugin) SaveFields(tx *gorm.DB, item domain.Item) error {
	ei, ok := item.(*Item)
	if !ok {
		return fmt.Errorf("embed plugin cannot save %T: %w", item, common.ErrInvalidInput)
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contentitem_ptr_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"url"}),
	}).Create(&row{ContentItemID: ei.ID, URL: ei.URL}).Error
}

// DeleteFields 행 삭제
func (p *Plugin) DeleteFields(tx *gorm.DB, itemID uint64) error {
	return tx.Where("contentitem_ptr_id = ?", itemID).Delete(&row{}).Error
}

// Render 지원하는 서비스는 플레이어로, 나머지는 링크로 렌더링
func (p *Plugin) Render(_ context.Context, item domain.Item) (string, error) {
	ei, ok := item.(*Item)
	if !ok {
		return "", fmt.Errorf("embed plugin cannot render %T: %w", item, common.ErrInvalidInput)
	}

	if m := youtubePattern.FindStringSubmatch(ei.URL); m != nil {
		return fmt.Sprintf(`<div class="embed-container youtube" style="max-width:%dpx">`+
			`<iframe src="https://www.youtube.com/embed/%s" width="%d" height="%d" frameborder="0" `+
			`allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen loading="lazy"></iframe></div>`,
			p.maxWidth, m[1], p.maxWidth, p.height()), nil
	}
	if m := twitterPattern.FindStringSubmatch(ei.URL); m != nil {
		return fmt.Sprintf(`<div class="embed-container twitter" style="max-width:%dpx">`+
			`<blockquote class="twitter-tweet" data-dnt="true"><a href="https://twitter.com/%s/status/%s"></a></blockquote></div>`,
			p.maxWidth, html.EscapeString(m[1]), m[2]), nil
	}
	if m := instagramPattern.FindStringSubmatch(ei.URL); m != nil {
		return fmt.Sprintf(`<div class="embed-container instagram" style="max-width:%dpx">`+
			`<blockquote class="instagram-media" data-instgrm-permalink="https://www.instagram.com/p/%s/" data-instgrm-version="14"></blockquote></div>`,
			p.maxWidth, m[1]), nil
	}

	escaped := html.EscapeString(ei.URL)
	return fmt.Sprintf(`<a class="embed-link" href="%s" target="_blank" rel="noopener">%s</a>`, escaped, escaped), nil
}

// height 비율에 따른 높이
func (p *Plugin) height() int {
	switch p.aspectRatio {
	case "4:3":
		return p.maxWidth * 3 / 4
	case "1:1":
		return p.maxWidth
	default: // 16:9
		return p.maxWidth * 9 / 16
	}
}
