// Package plugins bundles the built-in content item types.
package plugins

import (
	"github.com/damoang/angple-contents/internal/config"
	"github.com/damoang/angple-contents/internal/plugin"
	"github.com/damoang/angple-contents/internal/plugins/embed"
	"github.com/damoang/angple-contents/internal/plugins/imagelink"
	"github.com/damoang/angple-contents/internal/plugins/sharedcontent"
	"github.com/damoang/angple-contents/internal/plugins/text"
)

// Builtin 기본 콘텐츠 플러그인 (등록 순서 = admin 목록 순서)
// shared 가 nil 이면 공유 콘텐츠 아이템은 렌더링할 수 없다 (마이그레이션 전용)
func Builtin(cfg config.ContentsConfig, shared sharedcontent.Renderer) []plugin.ContentPlugin {
	return []plugin.ContentPlugin{
		text.New(),
		imagelink.New(imagelink.Options{
			AllowedDomains: cfg.Images.AllowedDomains,
			MaxWidth:       cfg.Images.MaxWidth,
			LazyLoading:    cfg.Images.LazyLoading,
			LinkWrapper:    cfg.Images.LinkWrapper,
		}),
		embed.New(embed.Options{
			MaxWidth:    cfg.Embed.MaxWidth,
			AspectRatio: cfg.Embed.AspectRatio,
		}),
		sharedcontent.NewPlugin(shared),
	}
}

// Register 기본 플러그인 등록 + 슬롯/캐시 키 설정 적용
func Register(registry *plugin.Registry, cfg config.ContentsConfig, shared sharedcontent.Renderer) error {
	for _, p := range Builtin(cfg, shared) {
		if err := registry.Register(p); err != nil {
			return err
		}
	}
	if len(cfg.AllowedPlugins) > 0 {
		registry.SetSlotConfig(cfg.AllowedPlugins)
	}
	if cfg.CacheKeyPrefix != "" {
		plugin.OutputCachePrefix = cfg.CacheKeyPrefix
	}
	return nil
}
