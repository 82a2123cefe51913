package service

import (
	"fmt"

	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/plugin"
	"gorm.io/gorm"
)

// ItemLoader 공통 레코드를 구체 플러그인 타입으로 변환
// discriminator 별로 묶어서 타입당 한 번만 추가 조회한다
type ItemLoader struct {
	registry *plugin.Registry
}

// NewItemLoader 생성자
func NewItemLoader(registry *plugin.Registry) *ItemLoader {
	return &ItemLoader{registry: registry}
}

// Load 입력 순서를 유지한 채 구체 아이템 목록 반환
// 등록되지 않은 discriminator 는 *common.UnknownPluginTypeError
func (l *ItemLoader) Load(db *gorm.DB, bases []*domain.ContentItem) ([]domain.Item, error) {
	if len(bases) == 0 {
		return []domain.Item{}, nil
	}

	groups := make(map[string][]*domain.ContentItem)
	var tags []string
	for _, b := range bases {
		if _, seen := groups[b.PolymorphicType]; !seen {
			tags = append(tags, b.PolymorphicType)
		}
		groups[b.PolymorphicType] = append(groups[b.PolymorphicType], b)
	}

	byID := make(map[uint64]domain.Item, len(bases))
	for _, tag := range tags {
		p, err := l.registry.ResolveHandler(tag)
		if err != nil {
			return nil, err
		}
		loaded, err := p.Load(db, groups[tag])
		if err != nil {
			return nil, fmt.Errorf("load %s items: %w", tag, err)
		}
		for _, item := range loaded {
			byID[item.Base().ID] = item
		}
	}

	items := make([]domain.Item, 0, len(bases))
	for _, b := range bases {
		item, ok := byID[b.ID]
		if !ok {
			return nil, plugin.MissingFieldsError(b.PolymorphicType, b.ID)
		}
		items = append(items, item)
	}
	return items, nil
}

// LoadOne 단일 아이템 변환
func (l *ItemLoader) LoadOne(db *gorm.DB, base *domain.ContentItem) (domain.Item, error) {
	items, err := l.Load(db, []*domain.ContentItem{base})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}
