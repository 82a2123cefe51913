package handler

import (
	"net/http"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/middleware"
	"github.com/damoang/angple-contents/internal/plugin"
	"github.com/damoang/angple-contents/internal/service"
	"github.com/damoang/angple-contents/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// PlaceholderHandler handles HTTP requests for placeholders
type PlaceholderHandler struct {
	placeholders *service.PlaceholderService
	items        *service.ContentItemService
	registry     *plugin.Registry
}

// NewPlaceholderHandler creates a new PlaceholderHandler
func NewPlaceholderHandler(placeholders *service.PlaceholderService, items *service.ContentItemService, registry *plugin.Registry) *PlaceholderHandler {
	return &PlaceholderHandler{placeholders: placeholders, items: items, registry: registry}
}

type placeholderResponse struct {
	*domain.Placeholder
	RoleTitle string `json:"role_title"`
	URL       string `json:"url,omitempty"`
}

type pluginTypeResponse struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

type reorderRequest struct {
	IDs []uint64 `json:"ids" binding:"required" validate:"dive,gt=0"`
}

// respondError maps business errors to status codes
func respondError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	common.ErrorResponse(c, common.StatusFor(err), message, err)
}

// Create godoc
// @Summary      플레이스홀더 생성
// @Tags         placeholders
// @Router       /placeholders [post]
func (h *PlaceholderHandler) Create(c *gin.Context) {
	var req service.CreatePlaceholderRequest
	if !bindAndValidate(c, &req) {
		return
	}

	p, err := h.placeholders.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create placeholder", err)
		return
	}
	common.CreatedResponse(c, placeholderResponse{Placeholder: p, RoleTitle: p.Role.Title()})
}

// Get godoc
// @Summary      플레이스홀더 조회 (소유자 URL 포함)
// @Tags         placeholders
// @Router       /placeholders/{id} [get]
func (h *PlaceholderHandler) Get(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid placeholder ID", err)
		return
	}

	ctx := c.Request.Context()
	p, err := h.placeholders.GetByID(ctx, id)
	if err != nil {
		respondError(c, "Placeholder not found", err)
		return
	}
	url, _, err := h.placeholders.ResolveRenderURL(ctx, p)
	if err != nil {
		respondError(c, "Failed to resolve placeholder owner", err)
		return
	}
	common.SuccessResponse(c, placeholderResponse{Placeholder: p, RoleTitle: p.Role.Title(), URL: url}, nil)
}

// Update godoc
// @Summary      플레이스홀더 title/role 변경
// @Tags         placeholders
// @Router       /placeholders/{id} [patch]
func (h *PlaceholderHandler) Update(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid placeholder ID", err)
		return
	}
	var req service.UpdatePlaceholderRequest
	if !bindAndValidate(c, &req) {
		return
	}

	p, err := h.placeholders.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "Failed to update placeholder", err)
		return
	}
	common.SuccessResponse(c, placeholderResponse{Placeholder: p, RoleTitle: p.Role.Title()}, nil)
}

// Delete godoc
// @Summary      플레이스홀더 삭제 (아이템은 연결만 해제)
// @Tags         placeholders
// @Router       /placeholders/{id} [delete]
func (h *PlaceholderHandler) Delete(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid placeholder ID", err)
		return
	}
	if err := h.placeholders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete placeholder", err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}

// Plugins godoc
// @Summary      슬롯에 허용된 콘텐츠 타입
// @Tags         placeholders
// @Router       /placeholders/{id}/plugins [get]
func (h *PlaceholderHandler) Plugins(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid placeholder ID", err)
		return
	}
	p, err := h.placeholders.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Placeholder not found", err)
		return
	}

	plugins := h.registry.AllowedPlugins(p.Slot)
	data := make([]pluginTypeResponse, 0, len(plugins))
	for _, cp := range plugins {
		m := cp.Manifest()
		data = append(data, pluginTypeResponse{Type: m.TypeTag, Name: m.Name, Title: m.Title})
	}
	common.SuccessResponse(c, data, &common.Meta{Total: int64(len(data))})
}

// Items godoc
// @Summary      플레이스홀더 아이템 목록
// @Description  parent_type/parent_id 가 있으면 소유자 기준으로 필터링하고, limit_language=false 가 아니면 소유자 언어로 제한한다
// @Tags         placeholders
// @Router       /placeholders/{id}/items [get]
func (h *PlaceholderHandler) Items(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid placeholder ID", err)
		return
	}
	filter, err := itemFilter(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid parent filter", err)
		return
	}

	ctx := c.Request.Context()
	p, err := h.placeholders.GetByID(ctx, id)
	if err != nil {
		respondError(c, "Placeholder not found", err)
		return
	}
	items, err := h.placeholders.ContentItems(ctx, p, filter)
	if err != nil {
		respondError(c, "Failed to load content items", err)
		return
	}
	common.SuccessResponse(c, items, &common.Meta{
		Total:    int64(len(items)),
		Language: string(middleware.GetLocale(c)),
	})
}

// Reorder godoc
// @Summary      아이템 순서 변경 (한 번에 적용)
// @Tags         placeholders
// @Router       /placeholders/{id}/order [put]
func (h *PlaceholderHandler) Reorder(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid placeholder ID", err)
		return
	}
	var req reorderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.items.Reorder(c.Request.Context(), id, req.IDs); err != nil {
		respondError(c, "Failed to reorder content items", err)
		return
	}
	common.SuccessResponse(c, gin.H{"ordered": req.IDs}, nil)
}

func itemFilter(c *gin.Context) (service.ItemFilter, error) {
	parentType := c.Query("parent_type")
	parentID, err := ginutil.QueryInt64(c, "parent_id")
	if err != nil {
		return service.ItemFilter{}, err
	}
	if parentType == "" && parentID == nil {
		return service.ItemFilter{}, nil
	}
	if parentType == "" || parentID == nil {
		return service.ItemFilter{}, errParentPair
	}
	ref := domain.NewReference(parentType, *parentID)
	return service.ItemFilter{
		Parent:         &ref,
		IgnoreLanguage: !ginutil.QueryBool(c, "limit_language", true),
	}, nil
}
