package handler

import (
	"net/http"

	"github.com/damoang/angple-contents/internal/common"
	"github.com/damoang/angple-contents/internal/domain"
	"github.com/damoang/angple-contents/internal/middleware"
	"github.com/damoang/angple-contents/internal/plugins/sharedcontent"
	"github.com/damoang/angple-contents/pkg/ginutil"
	"github.com/damoang/angple-contents/pkg/i18n"
	"github.com/gin-gonic/gin"
)

// SharedContentHandler handles HTTP requests for shared content
type SharedContentHandler struct {
	service *sharedcontent.Service
}

// NewSharedContentHandler creates a new SharedContentHandler
func NewSharedContentHandler(service *sharedcontent.Service) *SharedContentHandler {
	return &SharedContentHandler{service: service}
}

type sharedContentResponse struct {
	*sharedcontent.SharedContent
	Title       string              `json:"title"`
	Placeholder *domain.Placeholder `json:"placeholder"`
}

type translationRequest struct {
	Title string `json:"title" binding:"required" validate:"max=200"`
}

// Create godoc
// @Summary      공유 콘텐츠 생성 (shared_content 플레이스홀더 포함)
// @Tags         shared-content
// @Router       /shared-content [post]
func (h *SharedContentHandler) Create(c *gin.Context) {
	var req sharedcontent.CreateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.LanguageCode == "" {
		req.LanguageCode = string(middleware.GetLocale(c))
	}

	sc, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create shared content", err)
		return
	}
	common.CreatedResponse(c, sc)
}

// Get godoc
// @Summary      slug 로 공유 콘텐츠 조회 (요청 언어 제목, 플레이스홀더 포함)
// @Tags         shared-content
// @Router       /shared-content/{slug} [get]
func (h *SharedContentHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	sc, err := h.service.GetBySlug(ctx, c.Param("key"))
	if err != nil {
		respondError(c, "Shared content not found", err)
		return
	}
	p, err := h.service.Placeholder(ctx, sc)
	if err != nil {
		respondError(c, "Shared content placeholder not found", err)
		return
	}
	common.SuccessResponse(c, sharedContentResponse{SharedContent: sc, Title: sc.Title(), Placeholder: p}, nil)
}

// Delete godoc
// @Summary      공유 콘텐츠 삭제
// @Tags         shared-content
// @Router       /shared-content/{id} [delete]
func (h *SharedContentHandler) Delete(c *gin.Context) {
	id, err := ginutil.ParamInt64(c, "key")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid shared content ID", err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete shared content", err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}

// SaveTranslation godoc
// @Summary      번역 추가/수정
// @Tags         shared-content
// @Router       /shared-content/{id}/translations/{lang} [put]
func (h *SharedContentHandler) SaveTranslation(c *gin.Context) {
	id, err := ginutil.ParamInt64(c, "key")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid shared content ID", err)
		return
	}
	var req translationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	lang := string(i18n.Normalize(c.Param("lang")))
	if err := h.service.SaveTranslation(c.Request.Context(), id, lang, req.Title); err != nil {
		respondError(c, "Failed to save translation", err)
		return
	}
	common.SuccessResponse(c, gin.H{"language_code": lang, "title": req.Title}, nil)
}

// DeleteTranslation godoc
// @Summary      번역 삭제 (해당 언어 콘텐츠 아이템도 삭제됨)
// @Tags         shared-content
// @Router       /shared-content/{id}/translations/{lang} [delete]
func (h *SharedContentHandler) DeleteTranslation(c *gin.Context) {
	id, err := ginutil.ParamInt64(c, "key")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid shared content ID", err)
		return
	}
	lang := string(i18n.Normalize(c.Param("lang")))
	if err := h.service.DeleteTranslation(c.Request.Context(), id, lang); err != nil {
		respondError(c, "Failed to delete translation", err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": lang}, nil)
}

// Render godoc
// @Summary      요청 언어로 공유 콘텐츠 렌더링
// @Tags         shared-content
// @Router       /shared-content/{slug}/render [get]
func (h *SharedContentHandler) Render(c *gin.Context) {
	html, err := h.service.Render(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, "Failed to render shared content", err)
		return
	}
	common.SuccessResponse(c, gin.H{"html": html}, &common.Meta{Language: string(middleware.GetLocale(c))})
}
