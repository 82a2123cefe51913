package routes

import (
	"github.com/damoang/angple-contents/internal/handler"
	"github.com/gin-gonic/gin"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	placeholderHandler *handler.PlaceholderHandler,
	itemHandler *handler.ItemHandler,
	sharedContentHandler *handler.SharedContentHandler,
) {
	api := router.Group("/api/v1")

	// Placeholders (플레이스홀더)
	placeholders := api.Group("/placeholders")
	placeholders.POST("", placeholderHandler.Create)
	placeholders.GET("/:id", placeholderHandler.Get)
	placeholders.PATCH("/:id", placeholderHandler.Update)
	placeholders.DELETE("/:id", placeholderHandler.Delete)       // 아이템은 연결만 해제
	placeholders.GET("/:id/plugins", placeholderHandler.Plugins) // 허용 콘텐츠 타입
	placeholders.GET("/:id/items", placeholderHandler.Items)     // ?parent_type=&parent_id=&limit_language=
	placeholders.PUT("/:id/order", placeholderHandler.Reorder)   // 순서 변경 (일괄)

	// Content items (콘텐츠 아이템)
	items := api.Group("/items")
	items.POST("", itemHandler.Create)
	items.GET("/:id", itemHandler.Get)
	items.PUT("/:id", itemHandler.Update)
	items.DELETE("/:id", itemHandler.Delete)

	// Shared content (공유 콘텐츠). :key 는 ID 또는 slug
	shared := api.Group("/shared-content")
	shared.POST("", sharedContentHandler.Create)
	shared.GET("/:key", sharedContentHandler.Get) // slug
	shared.DELETE("/:key", sharedContentHandler.Delete)
	shared.PUT("/:key/translations/:lang", sharedContentHandler.SaveTranslation)
	shared.DELETE("/:key/translations/:lang", sharedContentHandler.DeleteTranslation)
	shared.GET("/:key/render", sharedContentHandler.Render)
}
