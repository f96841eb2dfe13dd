package handler

import (
	"github.com/gofiber/fiber/v2"

	"locallink/internal/middleware"
)

// SetupRoutes mounts the API on app. Routes that act on a business named in
// the path are gated with RequireSelf.
func SetupRoutes(app *fiber.App, h *Handlers, authenticator middleware.Authenticator) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	authRequired := middleware.AuthRequired(authenticator)

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Get("/me", authRequired, h.Auth.Me)

	businesses := api.Group("/businesses")
	businesses.Get("/", h.Business.List)
	businesses.Get("/:id", authRequired, h.Business.Get)
	businesses.Put("/:id", authRequired, middleware.RequireSelf("id"), h.Business.Update)
	businesses.Post("/:id/logo", authRequired, middleware.RequireSelf("id"), h.Business.UploadLogo)
	businesses.Post("/:id/images", authRequired, middleware.RequireSelf("id"), h.Business.UploadImages)
	businesses.Delete("/:id/images/*", authRequired, middleware.RequireSelf("id"), h.Business.DeleteImage)

	products := api.Group("/products")
	products.Post("/", authRequired, h.Product.Create)
	products.Get("/search", h.Product.Search)
	products.Get("/business/:businessId", h.Product.ListByBusiness)
	products.Get("/:productId", h.Product.Get)
	products.Put("/:productId", authRequired, h.Product.Update)
	products.Post("/:id/mainImage", authRequired, h.Product.UploadMainImage)
	products.Post("/:id/gallery", authRequired, h.Product.UploadGallery)
	products.Delete("/:id/gallery/*", authRequired, h.Product.DeleteGalleryImage)

	reviews := api.Group("/reviews")
	reviews.Post("/", authRequired, h.Review.Create)
	reviews.Get("/business/:businessId", h.Review.ListByBusiness)
	reviews.Delete("/:id", authRequired, h.Review.Delete)

	orders := api.Group("/orders", authRequired)
	orders.Post("/", h.Order.Create)
	orders.Get("/business/:businessId", middleware.RequireSelf("businessId"), h.Order.ListByBusiness)
	orders.Get("/:id", h.Order.Get)
	orders.Get("/:id/qrcode", h.Order.QRCode)
	orders.Put("/:id/status", h.Order.UpdateStatus)

	connections := api.Group("/connections", authRequired)
	connections.Post("/", h.Connection.Create)
	connections.Put("/:id", h.Connection.UpdateStatus)
	connections.Get("/business/:businessId", middleware.RequireSelf("businessId"), h.Connection.ListByBusiness)

	messages := api.Group("/messages", authRequired)
	messages.Post("/", h.Message.Send)
	messages.Get("/conversation", h.Message.Conversation)

	notifications := api.Group("/notifications", authRequired)
	notifications.Get("/business/:businessId", middleware.RequireSelf("businessId"), h.Notification.ListByBusiness)
	notifications.Get("/business/:businessId/unread-count", middleware.RequireSelf("businessId"), h.Notification.UnreadCount)
	notifications.Put("/business/:businessId/read-all", middleware.RequireSelf("businessId"), h.Notification.MarkAllAsRead)
	notifications.Put("/:id/read", h.Notification.MarkAsRead)
}
