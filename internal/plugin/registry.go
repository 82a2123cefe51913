package plugin

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
)

var baseItemType = reflect.TypeOf(&domain.ContentItem{})

// Registry 콘텐츠 플러그인 레지스트리
// discriminator 와 구체 Go 타입 양쪽으로 플러그인을 찾는다
type Registry struct {
	byTag      map[string]ContentPlugin
	byType     map[reflect.Type]ContentPlugin
	order      []string            // 등록 순서
	slotConfig map[string][]string // 슬롯별 허용 플러그인 (설정)
	mu         sync.RWMutex
}

// NewRegistry 새 레지스트리 생성
func NewRegistry() *Registry {
	return &Registry{
		byTag:      make(map[string]ContentPlugin),
		byType:     make(map[reflect.Type]ContentPlugin),
		slotConfig: make(map[string][]string),
	}
}

// Register 플러그인 등록
func (r *Registry) Register(p ContentPlugin) error {
	manifest := p.Manifest()
	if manifest == nil || manifest.TypeTag == "" {
		return fmt.Errorf("register content plugin: %w: empty type tag", common.ErrInvalidInput)
	}
	modelType := reflect.TypeOf(p.Model())
	if modelType == baseItemType {
		return fmt.Errorf("register %s: %w: model must be a concrete item type", manifest.TypeTag, common.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTag[manifest.TypeTag]; exists {
		return fmt.Errorf("register %s: %w", manifest.TypeTag, common.ErrDuplicatePlugin)
	}
	if _, exists := r.byType[modelType]; exists {
		return fmt.Errorf("register %s: %w: model %s", manifest.TypeTag, common.ErrDuplicatePlugin, modelType)
	}

	r.byTag[manifest.TypeTag] = p
	r.byType[modelType] = p
	r.order = append(r.order, manifest.TypeTag)
	return nil
}

// MustRegister 등록 실패 시 panic (main 에서 사용)
func (r *Registry) MustRegister(plugins ...ContentPlugin) {
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
}

// SetSlotConfig 슬롯별 허용 플러그인 제한 설정
func (r *Registry) SetSlotConfig(config map[string][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slotConfig = make(map[string][]string, len(config))
	for slot, tags := range config {
		r.slotConfig[slot] = append([]string{}, tags...)
	}
}

// ResolveHandler discriminator 로 플러그인 조회
func (r *Registry) ResolveHandler(typeTag string) (ContentPlugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.byTag[typeTag]; ok {
		return p, nil
	}
	return nil, &common.UnknownPluginTypeError{TypeTag: typeTag}
}

// ForItem 아이템의 플러그인 조회
// 공통 레코드(*domain.ContentItem)는 discriminator 로, 구체 타입은 Go 타입으로 바로 찾는다
func (r *Registry) ForItem(item domain.Item) (ContentPlugin, error) {
	if item == nil {
		return nil, fmt.Errorf("resolve plugin: %w: nil item", common.ErrInvalidInput)
	}
	t := reflect.TypeOf(item)
	if t == baseItemType {
		return r.ResolveHandler(item.Base().PolymorphicType)
	}

	r.mu.RLock()
	p, ok := r.byType[t]
	r.mu.RUnlock()
	if !ok {
		return nil, &common.UnknownPluginTypeError{TypeTag: t.String()}
	}
	return p, nil
}

// AllowedPlugins 슬롯에 허용된 플러그인 (등록 순서)
func (r *Registry) AllowedPlugins(slot string) []ContentPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configured, restricted := r.slotConfig[slot]
	result := make([]ContentPlugin, 0, len(r.order))
	for _, tag := range r.order {
		p := r.byTag[tag]
		if !p.Manifest().AllowsSlot(slot) {
			continue
		}
		if restricted && !containsString(configured, tag) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// AllowedTypes 슬롯에 허용된 discriminator 목록
func (r *Registry) AllowedTypes(slot string) []string {
	plugins := r.AllowedPlugins(slot)
	tags := make([]string, 0, len(plugins))
	for _, p := range plugins {
		tags = append(tags, p.Manifest().TypeTag)
	}
	return tags
}

// GetCacheKeys 아이템 플러그인에 캐시 키 위임
func (r *Registry) GetCacheKeys(slot string, item domain.Item) ([]string, error) {
	p, err := r.ForItem(item)
	if err != nil {
		return nil, err
	}
	return p.CacheKeys(slot, item), nil
}

// Plugins 등록된 전체 플러그인 (등록 순서)
func (r *Registry) Plugins() []ContentPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ContentPlugin, 0, len(r.order))
	for _, tag := range r.order {
		result = append(result, r.byTag[tag])
	}
	return result
}

// HasPlugin 플러그인 등록 여부 확인
func (r *Registry) HasPlugin(typeTag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.byTag[typeTag]
	return exists
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
