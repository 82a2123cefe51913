package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/plugin"
	pkglogger "github.com/damoang/angple-contents/pkg/logger"
)

// TranslationReactor 소유자 번역 삭제 시 해당 언어 아이템 삭제
// 플레이스홀더는 언어 간 공유되므로 건드리지 않는다
type TranslationReactor struct {
	items *ContentItemService
}

// NewTranslationReactor 생성자
func NewTranslationReactor(items *ContentItemService) *TranslationReactor {
	return &TranslationReactor{items: items}
}

// Subscribe 이벤트 버스에 등록
func (r *TranslationReactor) Subscribe(bus *plugin.EventBus) {
	bus.Subscribe("contents", plugin.TopicTranslationDeleted, r.handle)
}

func (r *TranslationReactor) handle(ctx context.Context, event plugin.Event) error {
	payload, ok := event.Payload.(plugin.TranslationDeleted)
	if !ok {
		return fmt.Errorf("%s payload %T: %w", event.Topic, event.Payload, common.ErrInvalidInput)
	}
	_, err := r.OnTranslationDeleted(ctx, payload)
	return err
}

// OnTranslationDeleted 소유자 + 언어 아이템을 하나씩 삭제 (아이템별 캐시 무효화를 위해 일괄 삭제하지 않음)
// 삭제된 아이템 수 반환. 실패한 아이템이 있어도 나머지는 계속 삭제한다
func (r *TranslationReactor) OnTranslationDeleted(ctx context.Context, ev plugin.TranslationDeleted) (int, error) {
	if !ev.Parent.IsSet() || ev.LanguageCode == "" {
		return 0, fmt.Errorf("translation deleted event needs parent and language: %w", common.ErrInvalidInput)
	}

	lang := ev.LanguageCode
	items, err := r.items.ListForParent(ctx, ev.Parent, &lang)
	if err != nil {
		return 0, err
	}

	deleted := 0
	var errs []error
	for _, item := range items {
		if err := r.items.Delete(ctx, item); err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", item.Base().ID, err))
			continue
		}
		deleted++
	}

	pkglogger.GetLogger().Info().
		Str("parent", ev.Parent.String()).
		Str("language", lang).
		Int("deleted", deleted).
		Int("failed", len(errs)).
		Msg("content items removed for deleted translation")
	return deleted, errors.Join(errs...)
}
