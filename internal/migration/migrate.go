package migration

import (
	"fmt"
	"sort"

	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/plugin"
	"gorm.io/gorm"
)

// Run AutoMigrate - 공통 테이블, 추가 모델(소유 엔티티 등), 플러그인 테이블 순서로 생성
func Run(db *gorm.DB, registry *plugin.Registry, models ...interface{}) error {
	core := append([]interface{}{&domain.Placeholder{}, &domain.ContentItem{}}, models...)
	if err := db.AutoMigrate(core...); err != nil {
		return fmt.Errorf("migrate core tables: %w", err)
	}

	for _, p := range registry.Plugins() {
		if err := p.Migrate(db); err != nil {
			return fmt.Errorf("migrate plugin %s: %w", p.Manifest().Name, err)
		}
	}
	return nil
}

// TypeCount discriminator 별 아이템 수
type TypeCount struct {
	Type       string `json:"type"`
	Count      int64  `json:"count"`
	Registered bool   `json:"registered"`
}

// Verify 저장된 discriminator 중 등록되지 않은 플러그인 타입을 찾는다
// 등록되지 않은 타입이 있으면 해당 아이템은 조회 시 UnknownPluginTypeError 가 된다
func Verify(db *gorm.DB, registry *plugin.Registry) ([]TypeCount, error) {
	var rows []struct {
		PolymorphicType string
		Count           int64
	}
	err := db.Model(&domain.ContentItem{}).
		Select("polymorphic_type, COUNT(*) AS count").
		Group("polymorphic_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make([]TypeCount, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, TypeCount{
			Type:       r.PolymorphicType,
			Count:      r.Count,
			Registered: registry.HasPlugin(r.PolymorphicType),
		})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Type < counts[j].Type })
	return counts, nil
}
