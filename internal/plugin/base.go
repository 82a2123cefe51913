package plugin

import (
	"fmt"

	"github.com/damoang/angple-contents/internal/domain"
	"gorm.io/gorm"
)

// OutputCachePrefix 렌더 결과 캐시 키 접두사
var OutputCachePrefix = "contents:output:"

// OutputCacheKey 플러그인 렌더 결과 캐시 키
func OutputCacheKey(typeTag, slot string, itemID uint64) string {
	return fmt.Sprintf("%s%s:%s:%d", OutputCachePrefix, typeTag, slot, itemID)
}

// BaseContentPlugin 공통 동작 기본 구현. 구체 플러그인이 임베드해서 사용
type BaseContentPlugin struct {
	manifest *ContentManifest
}

// NewBase 생성자
func NewBase(manifest *ContentManifest) BaseContentPlugin {
	return BaseContentPlugin{manifest: manifest}
}

// Manifest 플러그인 메타데이터
func (b BaseContentPlugin) Manifest() *ContentManifest {
	return b.manifest
}

// CacheKeys 기본: (타입, 슬롯, 아이템 ID) 단일 키
func (b BaseContentPlugin) CacheKeys(slot string, item domain.Item) []string {
	return []string{OutputCacheKey(b.manifest.TypeTag, slot, item.Base().ID)}
}

// BaseIDs 공통 레코드 ID 목록
func BaseIDs(bases []*domain.ContentItem) []uint64 {
	ids := make([]uint64, 0, len(bases))
	for _, b := range bases {
		ids = append(ids, b.ID)
	}
	return ids
}

// MissingFieldsError 구체 필드 행이 없는 공통 레코드
func MissingFieldsError(typeTag string, id uint64) error {
	return fmt.Errorf("content item %d: %s fields missing: %w", id, typeTag, gorm.ErrRecordNotFound)
}
