package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/plugin"
	"github.com/damoang/angple-contents/internal/service"
	"github.com/damoang/angple-contents/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

var errParentPair = fmt.Errorf("parent_type and parent_id must be given together: %w", common.ErrInvalidInput)

// ItemHandler handles HTTP requests for content items
type ItemHandler struct {
	items        *service.ContentItemService
	placeholders *service.PlaceholderService
	registry     *plugin.Registry
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(items *service.ContentItemService, placeholders *service.PlaceholderService, registry *plugin.Registry) *ItemHandler {
	return &ItemHandler{items: items, placeholders: placeholders, registry: registry}
}

// createItemRequest 아이템 생성 요청. fields 는 플러그인별 필드
type createItemRequest struct {
	Type          string                  `json:"type" binding:"required"`
	Parent        domain.GenericReference `json:"parent"`
	LanguageCode  string                  `json:"language_code" validate:"omitempty,max=15"`
	PlaceholderID *uint64                 `json:"placeholder_id" validate:"omitempty,gt=0"`
	SortOrder     int                     `json:"sort_order" validate:"gte=0"`
	Fields        json.RawMessage         `json:"fields"`
}

// updateItemRequest 변경할 값만 전달
type updateItemRequest struct {
	LanguageCode  *string         `json:"language_code" validate:"omitempty,max=15"`
	PlaceholderID *uint64         `json:"placeholder_id" validate:"omitempty,gt=0"`
	SortOrder     *int            `json:"sort_order" validate:"omitempty,gte=0"`
	Fields        json.RawMessage `json:"fields"`
}

type itemResponse struct {
	Item    domain.Item `json:"item"`
	Display string      `json:"display"`
	URL     string      `json:"url,omitempty"`
}

// Create godoc
// @Summary      콘텐츠 아이템 생성
// @Tags         items
// @Router       /items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	var req createItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	cp, err := h.registry.ResolveHandler(req.Type)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Unknown content type", err)
		return
	}
	ctx := c.Request.Context()
	if req.PlaceholderID != nil {
		if err := h.checkAllowed(c, *req.PlaceholderID, cp); err != nil {
			respondError(c, "Content type not allowed here", err)
			return
		}
	}

	base := &domain.ContentItem{
		LanguageCode:  req.LanguageCode,
		PlaceholderID: req.PlaceholderID,
		SortOrder:     req.SortOrder,
	}
	base.SetParent(req.Parent)
	item, err := cp.NewItem(base, req.Fields)
	if err != nil {
		respondError(c, "Invalid content fields", err)
		return
	}
	if err := h.items.Save(ctx, item); err != nil {
		respondError(c, "Failed to create content item", err)
		return
	}
	common.CreatedResponse(c, itemResponse{Item: item, Display: h.describe(ctx, item)})
}

// Get godoc
// @Summary      콘텐츠 아이템 조회
// @Tags         items
// @Router       /items/{id} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid item ID", err)
		return
	}
	ctx := c.Request.Context()
	item, err := h.items.GetByID(ctx, id)
	if err != nil {
		respondError(c, "Content item not found", err)
		return
	}
	url, _, err := h.items.RenderURL(ctx, item)
	if err != nil {
		respondError(c, "Failed to resolve item owner", err)
		return
	}
	common.SuccessResponse(c, itemResponse{Item: item, Display: h.describe(ctx, item), URL: url}, nil)
}

// Update godoc
// @Summary      콘텐츠 아이템 수정 (다른 플레이스홀더로 이동 포함)
// @Tags         items
// @Router       /items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid item ID", err)
		return
	}
	var req updateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	item, err := h.items.GetByID(ctx, id)
	if err != nil {
		respondError(c, "Content item not found", err)
		return
	}
	cp, err := h.items.Plugin(item)
	if err != nil {
		respondError(c, "Failed to resolve content type", err)
		return
	}

	base := item.Base()
	if req.PlaceholderID != nil && !samePlaceholderID(base.PlaceholderID, req.PlaceholderID) {
		if err := h.checkAllowed(c, *req.PlaceholderID, cp); err != nil {
			respondError(c, "Content type not allowed here", err)
			return
		}
		base.PlaceholderID = req.PlaceholderID
		base.Placeholder = nil
	}
	if req.LanguageCode != nil {
		base.LanguageCode = *req.LanguageCode
	}
	if req.SortOrder != nil {
		base.SortOrder = *req.SortOrder
	}
	if len(req.Fields) > 0 {
		if item, err = cp.NewItem(base, req.Fields); err != nil {
			respondError(c, "Invalid content fields", err)
			return
		}
	}

	if err := h.items.Save(ctx, item); err != nil {
		respondError(c, "Failed to update content item", err)
		return
	}
	common.SuccessResponse(c, itemResponse{Item: item, Display: h.describe(ctx, item)}, nil)
}

// Delete godoc
// @Summary      콘텐츠 아이템 삭제
// @Tags         items
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid item ID", err)
		return
	}
	if err := h.items.DeleteByID(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete content item", err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}

func (h *ItemHandler) checkAllowed(c *gin.Context, placeholderID uint64, cp plugin.ContentPlugin) error {
	p, err := h.placeholders.GetByID(c.Request.Context(), placeholderID)
	if err != nil {
		return err
	}
	for _, tag := range h.placeholders.AllowedPluginTypes(p) {
		if tag == cp.Manifest().TypeTag {
			return nil
		}
	}
	return fmt.Errorf("%s in slot %q: %w", cp.Manifest().TypeTag, p.Slot, common.ErrInvalidInput)
}

// describe 플레이스홀더를 채운 뒤 admin 표현 생성
func (h *ItemHandler) describe(ctx context.Context, item domain.Item) string {
	base := item.Base()
	if base.Placeholder == nil && base.PlaceholderID != nil {
		if p, err := h.placeholders.GetByID(ctx, *base.PlaceholderID); err == nil {
			base.Placeholder = p
		}
	}
	return h.items.Describe(item)
}

func samePlaceholderID(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
