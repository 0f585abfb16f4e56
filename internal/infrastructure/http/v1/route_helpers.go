// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"orderflow/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// DocumentRouteHandler defines the interface for document handlers.
// All document handlers must implement these methods.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Act(c *gin.Context)
	History(c *gin.Context)
	ListComments(c *gin.Context)
	AddComment(c *gin.Context)
	ListAttachments(c *gin.Context)
	AddAttachment(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// This eliminates the need to manually wire up routes for each catalog.
//
// Usage:
//
//	repo := catalog_repo.NewCustomerRepo(txManager)
//	service := customer.NewService(repo, txManager, numerator)
//	handler := handlers.NewCustomerHandler(baseHandler, service)
//	RegisterCatalogRoutes(catalogs.Group("/customers"), handler, "catalog:customer")
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)
}

// RegisterDocumentRoutes registers CRUD, workflow and activity routes
// for a document type. Workflow transitions go through the single
// actions route; the service validates the action against its status
// machine.
//
// Usage:
//
//	repo := document_repo.NewQuotationRepo(txManager)
//	service := quotation.NewService(repo, activitySvc, numerator, txManager, mailer)
//	handler := handlers.NewQuotationHandler(baseHandler, service, activitySvc)
//	RegisterDocumentRoutes(documents.Group("/quotations"), handler, "document:quotation")
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)
	group.POST("/:id/actions/:action", middleware.RequirePermission(permission+":update"), handler.Act)

	group.GET("/:id/history", middleware.RequirePermission(permission+":read"), handler.History)
	group.GET("/:id/comments", middleware.RequirePermission(permission+":read"), handler.ListComments)
	group.POST("/:id/comments", middleware.RequirePermission(permission+":update"), handler.AddComment)
	group.GET("/:id/attachments", middleware.RequirePermission(permission+":read"), handler.ListAttachments)
	group.POST("/:id/attachments", middleware.RequirePermission(permission+":update"), handler.AddAttachment)
}
