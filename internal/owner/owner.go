// Package owner resolves generic (type tag, id) references back to the
// entities that own placeholders and content items.
//
// A reference that cannot be resolved is not an error: it yields "absent".
// Only storage failures other than a missed lookup are propagated.
package owner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"gorm.io/gorm"
)

// Resolver 특정 타입 태그의 소유 엔티티 조회
// 없는 ID 는 common.ErrNotFound 또는 gorm.ErrRecordNotFound 로 반환
type Resolver interface {
	ResolveOwner(ctx context.Context, id int64) (interface{}, error)
}

// ResolverFunc 함수형 Resolver
type ResolverFunc func(ctx context.Context, id int64) (interface{}, error)

// ResolveOwner Resolver 구현
func (f ResolverFunc) ResolveOwner(ctx context.Context, id int64) (interface{}, error) {
	return f(ctx, id)
}

// URLProvider 정규 URL 을 가진 소유자
type URLProvider interface {
	AbsoluteURL() string
}

// LanguageProvider 현재 언어를 알려주는 소유자
type LanguageProvider interface {
	LanguageCode() string
}

// Registry 타입 태그 → Resolver
type Registry struct {
	resolvers map[string]Resolver
	mu        sync.RWMutex
}

// NewRegistry 생성자
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// Register 타입 태그에 Resolver 등록 (같은 태그는 덮어씀)
func (r *Registry) Register(typeTag string, resolver Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[typeTag] = resolver
}

// Resolve 참조를 소유 엔티티로 변환
// 참조가 비었거나, 타입을 모르거나, 대상이 삭제되었으면 (nil, false, nil)
func (r *Registry) Resolve(ctx context.Context, ref domain.GenericReference) (interface{}, bool, error) {
	if !ref.IsSet() {
		return nil, false, nil
	}

	r.mu.RLock()
	resolver, ok := r.resolvers[*ref.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	entity, err := resolver.ResolveOwner(ctx, *ref.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("resolve owner %s: %w", ref, err)
	}
	if entity == nil {
		return nil, false, nil
	}
	return entity, true, nil
}

// URL 소유자의 정규 URL. 소유자가 없거나 URL 을 제공하지 않으면 ("", false, nil)
func (r *Registry) URL(ctx context.Context, ref domain.GenericReference) (string, bool, error) {
	entity, ok, err := r.Resolve(ctx, ref)
	if err != nil || !ok {
		return "", false, err
	}
	provider, ok := entity.(URLProvider)
	if !ok {
		return "", false, nil
	}
	url := provider.AbsoluteURL()
	return url, url != "", nil
}

// Language 소유자의 현재 언어. 알 수 없으면 ("", false, nil)
func (r *Registry) Language(ctx context.Context, ref domain.GenericReference) (string, bool, error) {
	entity, ok, err := r.Resolve(ctx, ref)
	if err != nil || !ok {
		return "", false, err
	}
	provider, ok := entity.(LanguageProvider)
	if !ok {
		return "", false, nil
	}
	code := provider.LanguageCode()
	return code, code != "", nil
}
