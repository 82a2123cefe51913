package service

import (
	"context"
	"fmt"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/owner"
	"github.com/damoang/angple-contents/internal/plugin"
	"github.com/damoang/angple-contents/internal/repository"
	"github.com/damoang/angple-contents/pkg/i18n"
	pkglogger "github.com/damoang/angple-contents/pkg/logger"
	"gorm.io/gorm"
)

// ContentItemService 콘텐츠 아이템 비즈니스 로직
type ContentItemService struct {
	db              *gorm.DB
	items           *repository.ContentItemRepository
	placeholders    *repository.PlaceholderRepository
	loader          *ItemLoader
	registry        *plugin.Registry
	owners          *owner.Registry
	invalidator     *CacheInvalidator
	defaultLanguage string
}

// NewContentItemService 생성자
func NewContentItemService(
	db *gorm.DB,
	items *repository.ContentItemRepository,
	placeholders *repository.PlaceholderRepository,
	registry *plugin.Registry,
	owners *owner.Registry,
	invalidator *CacheInvalidator,
	defaultLanguage string,
) *ContentItemService {
	if defaultLanguage == "" {
		defaultLanguage = string(i18n.Default())
	}
	return &ContentItemService{
		db:              db,
		items:           items,
		placeholders:    placeholders,
		loader:          NewItemLoader(registry),
		registry:        registry,
		owners:          owners,
		invalidator:     invalidator,
		defaultLanguage: defaultLanguage,
	}
}

// Plugin 아이템을 처리하는 플러그인
func (s *ContentItemService) Plugin(item domain.Item) (plugin.ContentPlugin, error) {
	return s.registry.ForItem(item)
}

// Save 아이템 생성/갱신
//
// 생성 시 언어가 비어 있으면 소유자 언어, 그것도 없으면 기본 언어를 쓴다.
// 갱신 시에는 쓰기가 끝난 뒤 같은 트랜잭션에서 캐시를 무효화하고, 커밋 후 같은 키를 한 번 더 지운다.
// 생성은 무효화하지 않는다.
func (s *ContentItemService) Save(ctx context.Context, item domain.Item) error {
	base := item.Base()
	if !base.Parent().IsValid() {
		return fmt.Errorf("parent must set both type and id: %w", common.ErrInvalidInput)
	}

	p, err := s.registry.ForItem(item)
	if err != nil {
		return err
	}
	_, isBase := item.(*domain.ContentItem)
	concrete := !isBase

	isNew := base.ID == 0
	if isNew {
		if !concrete {
			return fmt.Errorf("create content item: %w: concrete plugin type required", common.ErrInvalidInput)
		}
		base.PolymorphicType = p.Manifest().TypeTag
	} else if base.PolymorphicType != p.Manifest().TypeTag {
		return fmt.Errorf("content item %d: %w: type cannot change from %q", base.ID, common.ErrInvalidInput, p.Manifest().TypeTag)
	}

	if base.LanguageCode == "" {
		base.LanguageCode = s.fallbackLanguage(ctx, base.Parent())
	}

	var stale []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.items.WithTx(tx)
		invalidator := s.invalidator.WithTx(tx)

		if isNew {
			if err := repo.Create(base); err != nil {
				return err
			}
			return p.SaveFields(tx, item)
		}

		// 다른 플레이스홀더로 옮겨지면 이전 위치의 캐시도 지운다
		previous, err := repo.FindByID(base.ID)
		if err != nil {
			return err
		}
		if err := repo.Save(base); err != nil {
			return err
		}
		if concrete {
			if err := p.SaveFields(tx, item); err != nil {
				return err
			}
		}
		if !samePlaceholder(previous.PlaceholderID, base.PlaceholderID) {
			keys, err := invalidator.cacheKeysAt(item, previous)
			if err != nil {
				return fmt.Errorf("cache keys for item %d: %w", base.ID, err)
			}
			stale = append(stale, keys...)
		}
		keys, err := invalidator.CacheKeysFor(item)
		if err != nil {
			return fmt.Errorf("cache keys for item %d: %w", base.ID, err)
		}
		stale = uniqueKeys(append(stale, keys...))
		invalidator.DeleteKeys(ctx, stale)
		return nil
	})
	if err != nil {
		return err
	}
	// 트랜잭션 중에 다른 연결의 렌더가 이전 출력을 다시 캐시했을 수 있다
	s.invalidator.DeleteKeys(ctx, stale)
	return nil
}

// GetByID 구체 타입으로 아이템 조회
func (s *ContentItemService) GetByID(ctx context.Context, id uint64) (domain.Item, error) {
	db := s.db.WithContext(ctx)
	base, err := s.items.WithTx(db).FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.loader.LoadOne(db, base)
}

// ListByIDs 구체 타입으로 여러 아이템 조회 (기본 정렬, 없는 ID 는 건너뜀)
func (s *ContentItemService) ListByIDs(ctx context.Context, ids []uint64) ([]domain.Item, error) {
	db := s.db.WithContext(ctx)
	bases, err := s.items.WithTx(db).FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	return s.loader.Load(db, bases)
}

// ListForParent 소유자의 모든 아이템 (languageCode 가 있으면 해당 언어만)
func (s *ContentItemService) ListForParent(ctx context.Context, ref domain.GenericReference, languageCode *string) ([]domain.Item, error) {
	db := s.db.WithContext(ctx)
	bases, err := s.items.WithTx(db).Find(repository.ItemQuery{Parent: &ref, LanguageCode: languageCode})
	if err != nil {
		return nil, err
	}
	return s.loader.Load(db, bases)
}

// Delete 아이템 삭제
// 캐시 키는 행을 지우기 전에 계산하고, 삭제와 같은 트랜잭션 안에서 한 번, 커밋 후 한 번 더 무효화한다
func (s *ContentItemService) Delete(ctx context.Context, item domain.Item) error {
	base := item.Base()
	p, err := s.registry.ForItem(item)
	if err != nil {
		return err
	}

	var keys []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invalidator := s.invalidator.WithTx(tx)
		keys, err = invalidator.CacheKeysFor(item)
		if err != nil {
			return err
		}

		if err := p.DeleteFields(tx, base.ID); err != nil {
			return err
		}
		if err := s.items.WithTx(tx).Delete(base.ID); err != nil {
			return err
		}

		invalidator.DeleteKeys(ctx, keys)
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidator.DeleteKeys(ctx, keys)
	pkglogger.GetLogger().Debug().
		Uint64("item_id", base.ID).
		Str("type", base.PolymorphicType).
		Int("cache_keys", len(keys)).
		Msg("content item deleted")
	return nil
}

// DeleteByID ID로 아이템 삭제
func (s *ContentItemService) DeleteByID(ctx context.Context, id uint64) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.Delete(ctx, item)
}

// Reorder 플레이스홀더 아이템 순서를 한 번에 변경
// ids 에 나열된 순서대로 sort_order 를 1부터 매기고, 나머지는 그 뒤로 기존 순서를 유지한다
func (s *ContentItemService) Reorder(ctx context.Context, placeholderID uint64, ids []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		placeholder, err := s.placeholders.WithTx(tx).FindByID(placeholderID)
		if err != nil {
			return err
		}
		repo := s.items.WithTx(tx)
		current, err := repo.LockByPlaceholder(placeholderID)
		if err != nil {
			return err
		}

		byID := make(map[uint64]*domain.ContentItem, len(current))
		for _, item := range current {
			item.Placeholder = placeholder
			byID[item.ID] = item
		}

		ordered := make([]*domain.ContentItem, 0, len(current))
		listed := make(map[uint64]bool, len(ids))
		for _, id := range ids {
			item, ok := byID[id]
			if !ok {
				return fmt.Errorf("item %d not in placeholder %d: %w", id, placeholderID, common.ErrInvalidInput)
			}
			if listed[id] {
				return fmt.Errorf("item %d listed twice: %w", id, common.ErrInvalidInput)
			}
			listed[id] = true
			ordered = append(ordered, item)
		}
		for _, item := range current {
			if !listed[item.ID] {
				ordered = append(ordered, item)
			}
		}

		invalidator := s.invalidator.WithTx(tx)
		for i, item := range ordered {
			position := i + 1
			if item.SortOrder == position {
				continue
			}
			if err := repo.UpdateSortOrder(item.ID, position); err != nil {
				return err
			}
			item.SortOrder = position
			if err := invalidator.Invalidate(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// RenderURL 소유자 URL. 없으면 ("", false, nil)
func (s *ContentItemService) RenderURL(ctx context.Context, item domain.Item) (string, bool, error) {
	return s.owners.URL(ctx, item.Base().Parent())
}

// Describe admin 표현
func (s *ContentItemService) Describe(item domain.Item) string {
	typeTitle := item.Base().PolymorphicType
	if p, err := s.registry.ForItem(item); err == nil {
		typeTitle = p.Manifest().Title
	}
	return item.Base().Describe(typeTitle, i18n.LanguageTitle(item.Base().LanguageCode))
}

// fallbackLanguage 소유자 언어 → 기본 언어. 조회 실패로 저장을 막지 않는다
func (s *ContentItemService) fallbackLanguage(ctx context.Context, ref domain.GenericReference) string {
	lang, ok, err := s.owners.Language(ctx, ref)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("parent", ref.String()).
			Msg("owner language lookup failed, using default language")
	}
	if ok && lang != "" {
		return lang
	}
	return s.defaultLanguage
}

func samePlaceholder(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
