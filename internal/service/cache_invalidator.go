package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/plugin"
	"github.com/damoang/angple-contents/internal/repository"
	pkglogger "github.com/damoang/angple-contents/pkg/logger"
	"gorm.io/gorm"
)

// CacheStore 캐시 키 삭제만 필요 (없는 키 삭제는 no-op)
type CacheStore interface {
	Delete(ctx context.Context, keys ...string) error
}

// CacheInvalidator 아이템 저장/삭제 시 플러그인이 선언한 렌더 캐시 키 삭제
type CacheInvalidator struct {
	registry     *plugin.Registry
	placeholders *repository.PlaceholderRepository
	cache        CacheStore
}

// NewCacheInvalidator 생성자
func NewCacheInvalidator(registry *plugin.Registry, placeholders *repository.PlaceholderRepository, cache CacheStore) *CacheInvalidator {
	return &CacheInvalidator{registry: registry, placeholders: placeholders, cache: cache}
}

// WithTx 트랜잭션 안에서 플레이스홀더를 조회하는 invalidator
func (i *CacheInvalidator) WithTx(tx *gorm.DB) *CacheInvalidator {
	return &CacheInvalidator{registry: i.registry, placeholders: i.placeholders.WithTx(tx), cache: i.cache}
}

// CacheKeysFor 아이템 렌더 캐시 키 (중복 제거, 순서 유지)
// 플레이스홀더가 없는 아이템은 빈 목록
func (i *CacheInvalidator) CacheKeysFor(item domain.Item) ([]string, error) {
	return i.cacheKeysAt(item, item.Base())
}

// cacheKeysAt at 의 플레이스홀더 기준으로 item 의 캐시 키 계산
func (i *CacheInvalidator) cacheKeysAt(item domain.Item, base *domain.ContentItem) ([]string, error) {
	if base.PlaceholderID == nil {
		return nil, nil
	}

	placeholder := base.LoadedPlaceholder()
	if placeholder == nil {
		p, err := i.placeholders.FindByID(*base.PlaceholderID)
		if errors.Is(err, common.ErrPlaceholderNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		placeholder = p
		base.Placeholder = p
	}

	keys, err := i.registry.GetCacheKeys(placeholder.Slot, item)
	if err != nil {
		return nil, err
	}
	return uniqueKeys(keys), nil
}

// Invalidate 아이템의 모든 캐시 키 삭제
// 캐시 삭제 실패는 로그만 남기고 나머지 키도 계속 시도한다
func (i *CacheInvalidator) Invalidate(ctx context.Context, item domain.Item) error {
	keys, err := i.CacheKeysFor(item)
	if err != nil {
		return fmt.Errorf("cache keys for item %d: %w", item.Base().ID, err)
	}
	i.DeleteKeys(ctx, keys)
	return nil
}

// DeleteKeys 미리 계산한 키 삭제 (best effort)
func (i *CacheInvalidator) DeleteKeys(ctx context.Context, keys []string) int {
	if i.cache == nil {
		return 0
	}
	failed := 0
	for _, key := range keys {
		if err := i.cache.Delete(ctx, key); err != nil {
			failed++
			pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("failed to delete content cache key")
		}
	}
	return failed
}

func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, k)
	}
	return result
}
