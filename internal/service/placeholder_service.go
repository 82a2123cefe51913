package service

import (
	"context"
	"fmt"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/owner"
	"github.com/damoang/angple-contents/internal/plugin"
	"github.com/damoang/angple-contents/internal/repository"
	pkglogger "github.com/damoang/angple-contents/pkg/logger"
	"gorm.io/gorm"
)

// CreatePlaceholderRequest 플레이스홀더 생성 요청
type CreatePlaceholderRequest struct {
	Slot   string                  `json:"slot" binding:"required" validate:"slot"`
	Role   domain.PlaceholderRole  `json:"role" validate:"omitempty,oneof=m s r"`
	Parent domain.GenericReference `json:"parent"`
	Title  string                  `json:"title" validate:"max=255"`
}

// UpdatePlaceholderRequest title/role 변경 요청
type UpdatePlaceholderRequest struct {
	Title *string                 `json:"title" validate:"omitempty,max=255"`
	Role  *domain.PlaceholderRole `json:"role" validate:"omitempty,oneof=m s r"`
}

// ItemFilter 플레이스홀더 아이템 조회 옵션
// Parent 가 nil 이면 저장된 placeholder 연결을 그대로 신뢰한다
type ItemFilter struct {
	Parent         *domain.GenericReference
	IgnoreLanguage bool // Parent 지정 시 소유자 언어로 제한하지 않음
}

// PlaceholderService 플레이스홀더 비즈니스 로직
type PlaceholderService struct {
	db           *gorm.DB
	placeholders *repository.PlaceholderRepository
	items        *repository.ContentItemRepository
	loader       *ItemLoader
	registry     *plugin.Registry
	owners       *owner.Registry
}

// NewPlaceholderService 생성자
func NewPlaceholderService(
	db *gorm.DB,
	placeholders *repository.PlaceholderRepository,
	items *repository.ContentItemRepository,
	registry *plugin.Registry,
	owners *owner.Registry,
) *PlaceholderService {
	return &PlaceholderService{
		db:           db,
		placeholders: placeholders,
		items:        items,
		loader:       NewItemLoader(registry),
		registry:     registry,
		owners:       owners,
	}
}

// WithTx 트랜잭션에 묶인 서비스 반환 (내부 트랜잭션은 savepoint 가 된다)
func (s *PlaceholderService) WithTx(tx *gorm.DB) *PlaceholderService {
	clone := *s
	clone.db = tx
	return &clone
}

// Create 플레이스홀더 생성. 같은 (parent, slot) 이 있으면 *common.UniquenessError
func (s *PlaceholderService) Create(ctx context.Context, req CreatePlaceholderRequest) (*domain.Placeholder, error) {
	if !domain.IsValidSlot(req.Slot) {
		return nil, fmt.Errorf("slot %q: %w", req.Slot, common.ErrInvalidInput)
	}
	if req.Role == "" {
		req.Role = domain.RoleMain
	}
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("role %q: %w", req.Role, common.ErrInvalidInput)
	}
	if !req.Parent.IsValid() {
		return nil, fmt.Errorf("parent must set both type and id: %w", common.ErrInvalidInput)
	}

	p := &domain.Placeholder{Slot: req.Slot, Role: req.Role, Title: req.Title}
	p.SetParent(req.Parent)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.placeholders.WithTx(tx)
		if req.Parent.IsSet() {
			exists, err := repo.ExistsForParentSlot(req.Parent, req.Slot)
			if err != nil {
				return err
			}
			if exists {
				return &common.UniquenessError{ParentType: req.Parent.TypeTag(), ParentID: req.Parent.OwnerID(), Slot: req.Slot}
			}
		}
		return repo.Create(p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID 플레이스홀더 조회
func (s *PlaceholderService) GetByID(ctx context.Context, id uint64) (*domain.Placeholder, error) {
	return s.placeholders.WithTx(s.db.WithContext(ctx)).FindByID(id)
}

// GetForParent 부모 + 슬롯으로 조회
func (s *PlaceholderService) GetForParent(ctx context.Context, ref domain.GenericReference, slot string) (*domain.Placeholder, error) {
	return s.placeholders.WithTx(s.db.WithContext(ctx)).FindByParentAndSlot(ref, slot)
}

// ListForParent 부모의 모든 플레이스홀더
func (s *PlaceholderService) ListForParent(ctx context.Context, ref domain.GenericReference) ([]domain.Placeholder, error) {
	return s.placeholders.WithTx(s.db.WithContext(ctx)).FindByParent(ref)
}

// Update title/role 변경
func (s *PlaceholderService) Update(ctx context.Context, id uint64, req UpdatePlaceholderRequest) (*domain.Placeholder, error) {
	repo := s.placeholders.WithTx(s.db.WithContext(ctx))
	p, err := repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, fmt.Errorf("role %q: %w", *req.Role, common.ErrInvalidInput)
		}
		p.Role = *req.Role
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if err := repo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// AllowedPluginTypes 플레이스홀더 슬롯에 허용된 콘텐츠 타입
func (s *PlaceholderService) AllowedPluginTypes(p *domain.Placeholder) []string {
	return s.registry.AllowedTypes(p.Slot)
}

// ContentItems 플레이스홀더 아이템 목록 (placeholder, sort_order 순)
//
// filter.Parent 가 없으면 placeholder 연결만 보고 반환한다 (렌더링 경로).
// 있으면 각 아이템의 parent 필드를 직접 비교해서 소속을 다시 판단하고,
// IgnoreLanguage 가 아니면 소유자 언어로 제한한다.
func (s *PlaceholderService) ContentItems(ctx context.Context, p *domain.Placeholder, filter ItemFilter) ([]domain.Item, error) {
	db := s.db.WithContext(ctx)
	q := repository.ItemQuery{PlaceholderID: &p.ID}

	if filter.Parent != nil {
		parent := *filter.Parent
		q.Parent = &parent
		if !filter.IgnoreLanguage {
			lang, ok, err := s.owners.Language(ctx, parent)
			if err != nil {
				return nil, err
			}
			if ok {
				q.LanguageCode = &lang
			}
		}
	}

	bases, err := s.items.WithTx(db).Find(q)
	if err != nil {
		return nil, err
	}
	return s.loader.Load(db, bases)
}

// ResolveRenderURL 소유자 URL (캐시 갱신/디버깅용). 없으면 ("", false, nil)
func (s *PlaceholderService) ResolveRenderURL(ctx context.Context, p *domain.Placeholder) (string, bool, error) {
	return s.owners.URL(ctx, p.Parent())
}

// Delete 연결된 아이템의 placeholder 를 비운 뒤 플레이스홀더 삭제 (한 트랜잭션)
func (s *PlaceholderService) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.placeholders.WithTx(tx).FindByID(id); err != nil {
			return err
		}
		detached, err := s.items.WithTx(tx).DetachPlaceholder(id)
		if err != nil {
			return fmt.Errorf("detach items of placeholder %d: %w", id, err)
		}
		if err := s.placeholders.WithTx(tx).Delete(id); err != nil {
			return err
		}
		pkglogger.GetLogger().Info().
			Uint64("placeholder_id", id).
			Int64("detached_items", detached).
			Msg("placeholder deleted")
		return nil
	})
}
