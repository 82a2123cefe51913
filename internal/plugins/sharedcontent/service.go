package sharedcontent

import (
	"context"
	"errors"
	"fmt"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/plugin"
	"github.com/damoang/angple-contents/internal/service"
	"github.com/damoang/angple-contents/pkg/i18n"
	pkglogger "github.com/damoang/angple-contents/pkg/logger"
	"gorm.io/gorm"
)

// eventSource 이벤트 발행자 이름
const eventSource = "sharedcontent"

// CreateRequest SharedContent 생성 요청
type CreateRequest struct {
	Slug         string `json:"slug" binding:"required" validate:"slot"`
	LanguageCode string `json:"language_code" validate:"omitempty,max=15"`
	Title        string `json:"title" binding:"required" validate:"max=200"`
}

// Service SharedContent 비즈니스 로직
type Service struct {
	db           *gorm.DB
	repo         *Repository
	placeholders *service.PlaceholderService
	items        *service.ContentItemService
	renderer     *service.RenderService
	bus          *plugin.EventBus
	siteID       int64
}

// NewService 생성자
func NewService(
	db *gorm.DB,
	repo *Repository,
	placeholders *service.PlaceholderService,
	items *service.ContentItemService,
	renderer *service.RenderService,
	bus *plugin.EventBus,
	siteID int64,
) *Service {
	return &Service{
		db:           db,
		repo:         repo,
		placeholders: placeholders,
		items:        items,
		renderer:     renderer,
		bus:          bus,
		siteID:       siteID,
	}
}

// Create SharedContent + 첫 번역 + shared_content 플레이스홀더 생성
func (s *Service) Create(ctx context.Context, req CreateRequest) (*SharedContent, error) {
	if !domain.IsValidSlot(req.Slug) {
		return nil, fmt.Errorf("slug %q: %w", req.Slug, common.ErrInvalidInput)
	}
	lang := string(i18n.Normalize(req.LanguageCode))
	if lang == "" {
		lang = string(i18n.Default())
	}

	sc := &SharedContent{
		ParentSite:   s.siteID,
		Slug:         req.Slug,
		Translations: []Translation{{LanguageCode: lang, Title: req.Title}},
	}
	if err := s.repo.WithTx(s.db.WithContext(ctx)).Create(sc); err != nil {
		return nil, err
	}

	_, err := s.placeholders.Create(ctx, service.CreatePlaceholderRequest{
		Slot:   PlaceholderSlot,
		Role:   domain.RoleMain,
		Parent: sc.Reference(),
		Title:  req.Title,
	})
	if err != nil {
		if cleanupErr := s.repo.WithTx(s.db.WithContext(ctx)).Delete(sc.ID); cleanupErr != nil {
			pkglogger.GetLogger().Error().Err(cleanupErr).Int64("id", sc.ID).Msg("failed to remove shared content after placeholder error")
		}
		return nil, err
	}

	sc.SetCurrentLanguage(lang)
	return sc, nil
}

// SaveTranslation 번역 추가/수정
func (s *Service) SaveTranslation(ctx context.Context, id int64, languageCode, title string) error {
	repo := s.repo.WithTx(s.db.WithContext(ctx))
	if _, err := repo.FindByID(id); err != nil {
		return err
	}
	return repo.SaveTranslation(&Translation{MasterID: id, LanguageCode: languageCode, Title: title})
}

// DeleteTranslation 번역 삭제 후 TranslationDeleted 이벤트 발행
// 해당 언어 콘텐츠 아이템은 이벤트 구독자가 지운다
func (s *Service) DeleteTranslation(ctx context.Context, id int64, languageCode string) error {
	deleted, err := s.repo.WithTx(s.db.WithContext(ctx)).DeleteTranslation(id, languageCode)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("shared content %d translation %q: %w", id, languageCode, common.ErrNotFound)
	}

	return s.bus.Publish(ctx, eventSource, plugin.TopicTranslationDeleted, plugin.TranslationDeleted{
		Parent:       domain.NewReference(OwnerType, id),
		LanguageCode: languageCode,
	})
}

// Delete SharedContent 삭제
//
// 소유한 아이템과 다른 곳에서 이 SharedContent 를 삽입한 아이템을 하나씩 지운 뒤(아이템마다 캐시 무효화),
// 플레이스홀더와 SharedContent 를 한 트랜잭션으로 지운다.
// 아이템 단계가 중간에 실패하면 이미 지운 아이템은 돌아오지 않지만, 다시 호출하면 남은 것부터 이어서 지운다.
func (s *Service) Delete(ctx context.Context, id int64) error {
	sc, err := s.repo.WithTx(s.db.WithContext(ctx)).FindByID(id)
	if err != nil {
		return err
	}
	ref := sc.Reference()

	items, err := s.items.ListForParent(ctx, ref, nil)
	if err != nil {
		return err
	}
	referencing, err := s.referencingItems(ctx, id)
	if err != nil {
		return err
	}
	items = append(items, referencing...)

	seen := make(map[uint64]bool, len(items))
	var errs []error
	for _, item := range items {
		if seen[item.Base().ID] {
			continue
		}
		seen[item.Base().ID] = true
		if err := s.items.Delete(ctx, item); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("delete items of shared content %d: %w", id, err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		placeholders := s.placeholders.WithTx(tx)
		list, err := placeholders.ListForParent(ctx, ref)
		if err != nil {
			return err
		}
		for _, p := range list {
			if err := placeholders.Delete(ctx, p.ID); err != nil {
				return err
			}
		}
		return s.repo.WithTx(tx).Delete(id)
	})
}

// referencingItems 다른 플레이스홀더에서 id 를 삽입한 SharedContentItem
func (s *Service) referencingItems(ctx context.Context, id int64) ([]domain.Item, error) {
	ids, err := s.repo.WithTx(s.db.WithContext(ctx)).ReferencingItemIDs(id)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.items.ListByIDs(ctx, ids)
}

// GetBySlug 사이트의 slug 로 조회
func (s *Service) GetBySlug(ctx context.Context, slug string) (*SharedContent, error) {
	sc, err := s.repo.WithTx(s.db.WithContext(ctx)).FindBySlug(s.siteID, slug)
	if err != nil {
		return nil, err
	}
	sc.SetCurrentLanguage(string(localeOrDefault(ctx)))
	return sc, nil
}

// Placeholder SharedContent 의 shared_content 플레이스홀더
func (s *Service) Placeholder(ctx context.Context, sc *SharedContent) (*domain.Placeholder, error) {
	return s.placeholders.GetForParent(ctx, sc.Reference(), PlaceholderSlot)
}

// Render slug 의 shared_content 플레이스홀더를 요청 언어로 렌더링
func (s *Service) Render(ctx context.Context, slug string) (string, error) {
	sc, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	return s.render(ctx, sc)
}

// RenderByID Renderer 구현 (SharedContentItem 에서 사용)
func (s *Service) RenderByID(ctx context.Context, id int64) (string, error) {
	sc, err := s.repo.WithTx(s.db.WithContext(ctx)).FindByID(id)
	if err != nil {
		return "", err
	}
	return s.render(ctx, sc)
}

func (s *Service) render(ctx context.Context, sc *SharedContent) (string, error) {
	p, err := s.Placeholder(ctx, sc)
	if err != nil {
		return "", err
	}
	ref := sc.Reference()
	return s.renderer.RenderPlaceholder(i18n.WithLocale(ctx, localeOrDefault(ctx)), p, &ref)
}

func localeOrDefault(ctx context.Context) i18n.Locale {
	if locale, ok := i18n.FromContext(ctx); ok {
		return locale
	}
	return i18n.Default()
}
