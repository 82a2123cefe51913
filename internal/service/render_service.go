package service

import (
	"context"
	"errors"
	"strings"

	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/plugin"
	"github.com/damoang/angple-contents/pkg/cache"
	pkglogger "github.com/damoang/angple-contents/pkg/logger"
)

// RenderService 플레이스홀더 렌더링 + 플러그인 출력 캐시
type RenderService struct {
	placeholders *PlaceholderService
	registry     *plugin.Registry
	cache        cache.Service
}

// NewRenderService 생성자 (cache 는 nil 가능)
func NewRenderService(placeholders *PlaceholderService, registry *plugin.Registry, cacheService cache.Service) *RenderService {
	return &RenderService{placeholders: placeholders, registry: registry, cache: cacheService}
}

// RenderPlaceholder 플레이스홀더의 아이템을 순서대로 렌더링
// parent 가 주어지면 소유자 기준으로 필터링 (소유자 언어로 제한)
func (s *RenderService) RenderPlaceholder(ctx context.Context, p *domain.Placeholder, parent *domain.GenericReference) (string, error) {
	items, err := s.placeholders.ContentItems(ctx, p, ItemFilter{Parent: parent})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, item := range items {
		out, err := s.RenderItem(ctx, p.Slot, item)
		if err != nil {
			return "", err
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}

// RenderItem 아이템 하나 렌더링. 플러그인이 출력 캐시를 쓰면 첫 번째 캐시 키에 저장
func (s *RenderService) RenderItem(ctx context.Context, slot string, item domain.Item) (string, error) {
	p, err := s.registry.ForItem(item)
	if err != nil {
		return "", err
	}

	var key string
	if s.cache != nil && p.Manifest().CacheOutput {
		if keys := p.CacheKeys(slot, item); len(keys) > 0 {
			key = keys[0]
		}
	}

	if key != "" {
		var cached string
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("render cache read failed")
		}
	}

	out, err := p.Render(ctx, item)
	if err != nil {
		return "", err
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, out, cache.TTLOutput); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("render cache write failed")
		}
	}
	return out, nil
}
