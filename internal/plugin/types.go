package plugin

import (
	"context"
	"encoding/json"

	"github.com/damoang/angple-contents/internal/domain"
	"gorm.io/gorm"
)

// ContentManifest 콘텐츠 플러그인 메타데이터
type ContentManifest struct {
	// 기본 정보 (필수)
	Name    string `yaml:"name" json:"name"`
	TypeTag string `yaml:"type_tag" json:"type_tag"` // discriminator, 저장 후 변경 금지
	Title   string `yaml:"title" json:"title"`

	// 허용 슬롯 (비어 있으면 모든 슬롯)
	AllowedSlots []string `yaml:"allowed_slots" json:"allowed_slots,omitempty"`

	// 렌더 결과 캐시 사용 여부
	CacheOutput bool `yaml:"cache_output" json:"cache_output"`
}

// AllowsSlot 슬롯 허용 여부
func (m *ContentManifest) AllowsSlot(slot string) bool {
	if len(m.AllowedSlots) == 0 {
		return true
	}
	for _, s := range m.AllowedSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// ContentPlugin 콘텐츠 타입 플러그인 인터페이스 - 모든 콘텐츠 타입이 구현해야 함
type ContentPlugin interface {
	// Manifest 플러그인 메타데이터
	Manifest() *ContentManifest

	// Model 타입 식별용 빈 인스턴스 (예: &TextItem{})
	Model() domain.Item

	// Migrate 플러그인 전용 테이블 생성/업데이트
	Migrate(db *gorm.DB) error

	// NewItem 공통 레코드 + 플러그인 필드(JSON)로 구체 아이템 생성
	NewItem(base *domain.ContentItem, fields json.RawMessage) (domain.Item, error)

	// Load 공통 레코드들의 구체 필드를 한 번의 쿼리로 로드
	Load(db *gorm.DB, bases []*domain.ContentItem) ([]domain.Item, error)

	// SaveFields 플러그인 필드 저장 (공통 레코드 저장 후 같은 트랜잭션에서 호출)
	SaveFields(tx *gorm.DB, item domain.Item) error

	// DeleteFields 플러그인 필드 삭제
	DeleteFields(tx *gorm.DB, itemID uint64) error

	// CacheKeys 렌더 결과가 저장되는 캐시 키 목록
	CacheKeys(slot string, item domain.Item) []string

	// Render HTML 렌더링
	Render(ctx context.Context, item domain.Item) (string, error)
}

// Logger 플러그인용 로거 인터페이스
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
