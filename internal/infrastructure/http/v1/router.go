// Package v1 provides HTTP API version 1.
package v1

import (
	"context"

	"github.com/gin-gonic/gin"

	"orderflow/internal/core/notify"
	"orderflow/internal/core/numerator"
	"orderflow/internal/domain"
	"orderflow/internal/domain/activity"
	"orderflow/internal/domain/audit"
	"orderflow/internal/domain/auth"
	"orderflow/internal/domain/catalogs/customer"
	"orderflow/internal/domain/catalogs/product"
	"orderflow/internal/domain/catalogs/supplier"
	"orderflow/internal/domain/convert"
	"orderflow/internal/domain/documents/deliverynote"
	"orderflow/internal/domain/documents/finance"
	"orderflow/internal/domain/documents/invoice"
	"orderflow/internal/domain/documents/purchaseorder"
	"orderflow/internal/domain/documents/quotation"
	"orderflow/internal/domain/documents/returns"
	"orderflow/internal/domain/documents/salesorder"
	"orderflow/internal/domain/documents/stockreceipt"
	"orderflow/internal/domain/documents/stockreturn"
	"orderflow/internal/domain/hr"
	"orderflow/internal/infrastructure/http/v1/handlers"
	"orderflow/internal/infrastructure/http/v1/middleware"
	"orderflow/internal/infrastructure/storage/postgres"
	"orderflow/internal/infrastructure/storage/postgres/catalog_repo"
	"orderflow/internal/infrastructure/storage/postgres/document_repo"
	"orderflow/internal/infrastructure/storage/postgres/hr_repo"
	"orderflow/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (health checks).
	Pool *postgres.Pool

	// TxManager runs repository operations and transactions.
	TxManager *postgres.TxManager

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints.
	AuthService *auth.Service

	// Numerator for document number generation.
	Numerator numerator.Generator

	// Mailer delivers quotation and invoice emails.
	Mailer notify.Mailer
}

// services bundles the domain services the routes are wired to. The
// document services reference each other (delivery notes claim serials
// from receipts, returns write back to invoices), so everything is
// built once here.
type services struct {
	activity *activity.Service

	customers *customer.Service
	suppliers *supplier.Service
	products  *product.Service

	quotations     *quotation.Service
	orders         *salesorder.Service
	deliveries     *deliverynote.Service
	invoices       *invoice.Service
	purchaseOrders *purchaseorder.Service
	receipts       *stockreceipt.Service
	stockReturns   *stockreturn.Service
	invReturns     *returns.InvoiceReturnService
	dnReturns      *returns.DeliveryReturnService
	creditNotes    *finance.CreditNoteService
	debitNotes     *finance.DebitNoteService

	candidates *hr.CandidateService
	attendance *hr.AttendanceService
	tasks      *hr.TaskService

	productRepo product.Repository
	pipeline    *convert.Pipeline
}

func buildServices(cfg RouterConfig) *services {
	txm := cfg.TxManager
	act := activity.NewService(document_repo.NewActivityRepo(txm))

	customerRepo := catalog_repo.NewCustomerRepo(txm)
	supplierRepo := catalog_repo.NewSupplierRepo(txm)
	productRepo := catalog_repo.NewProductRepo(txm)

	receipts := stockreceipt.NewService(document_repo.NewStockReceiptRepo(txm), act, cfg.Numerator, txm)
	invoices := invoice.NewService(document_repo.NewInvoiceRepo(txm), act, cfg.Numerator, txm, cfg.Mailer)
	deliveries := deliverynote.NewService(document_repo.NewDeliveryNoteRepo(txm), act, cfg.Numerator, txm, receipts)

	s := &services{
		activity: act,

		customers: customer.NewService(customerRepo, txm, cfg.Numerator),
		suppliers: supplier.NewService(supplierRepo, txm, cfg.Numerator),
		products:  product.NewService(productRepo, txm, cfg.Numerator),

		quotations:     quotation.NewService(document_repo.NewQuotationRepo(txm), act, cfg.Numerator, txm, cfg.Mailer),
		orders:         salesorder.NewService(document_repo.NewSalesOrderRepo(txm), act, cfg.Numerator, txm),
		deliveries:     deliveries,
		invoices:       invoices,
		purchaseOrders: purchaseorder.NewService(document_repo.NewPurchaseOrderRepo(txm), act, cfg.Numerator, txm),
		receipts:       receipts,
		stockReturns:   stockreturn.NewService(document_repo.NewStockReturnRepo(txm), receipts, act, cfg.Numerator, txm),
		invReturns:     returns.NewInvoiceReturnService(document_repo.NewInvoiceReturnRepo(txm), invoices, act, cfg.Numerator, txm),
		dnReturns:      returns.NewDeliveryReturnService(document_repo.NewDeliveryReturnRepo(txm), deliveries, act, cfg.Numerator, txm),
		creditNotes:    finance.NewCreditNoteService(document_repo.NewCreditNoteRepo(txm), act, cfg.Numerator, txm),
		debitNotes:     finance.NewDebitNoteService(document_repo.NewDebitNoteRepo(txm), act, cfg.Numerator, txm),

		candidates: hr.NewCandidateService(hr_repo.NewCandidateRepo(txm), txm, cfg.Numerator),
		attendance: hr.NewAttendanceService(hr_repo.NewAttendanceRepo(txm), txm),
		tasks:      hr.NewTaskService(hr_repo.NewTaskRepo(txm), txm),

		productRepo: productRepo,
	}

	s.pipeline = convert.NewPipeline(
		s.quotations, s.orders, s.deliveries, s.invoices,
		s.invReturns, s.dnReturns, s.productRepo, txm,
	)

	wireAuditHooks(s.quotations.Hooks())
	wireAuditHooks(s.orders.Hooks())
	wireAuditHooks(s.deliveries.Hooks())
	wireAuditHooks(s.invoices.Hooks())
	wireAuditHooks(s.purchaseOrders.Hooks())
	wireAuditHooks(s.receipts.Hooks())
	wireAuditHooks(s.stockReturns.Hooks())

	return s
}

// audited is satisfied by every document through entity.BaseDocument.
type audited interface {
	AuditFields() (createdBy, updatedBy *string)
}

// wireAuditHooks stamps created_by/updated_by from the request user.
func wireAuditHooks[T audited](hooks *domain.HookRegistry[T]) {
	hooks.OnBeforeCreate(func(ctx context.Context, doc T) error {
		createdBy, updatedBy := doc.AuditFields()
		audit.EnrichCreatedByDirect(ctx, createdBy, updatedBy)
		return nil
	})
	hooks.OnBeforeUpdate(func(ctx context.Context, doc T) error {
		_, updatedBy := doc.AuditFields()
		audit.EnrichUpdatedByDirect(ctx, updatedBy)
		return nil
	})
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	svcs := buildServices(cfg)

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, svcs)
		registerDocumentRoutes(protected, svcs)
		registerHRRoutes(protected, svcs)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, svcs *services) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	RegisterCatalogRoutes(catalogs.Group("/customers"),
		handlers.NewCustomerHandler(baseHandler, svcs.customers), "catalog:customer")
	RegisterCatalogRoutes(catalogs.Group("/suppliers"),
		handlers.NewSupplierHandler(baseHandler, svcs.suppliers), "catalog:supplier")
	RegisterCatalogRoutes(catalogs.Group("/products"),
		handlers.NewProductHandler(baseHandler, svcs.products), "catalog:product")
}

// registerDocumentRoutes registers document endpoints, including the
// per-type extras (send-email, acknowledge) and conversions.
func registerDocumentRoutes(rg *gin.RouterGroup, svcs *services) {
	docsGroup := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()
	convertHandler := handlers.NewConvertHandler(baseHandler, svcs.pipeline)

	// --- QUOTATIONS ---
	{
		handler := handlers.NewQuotationHandler(baseHandler, svcs.quotations, svcs.activity)
		group := docsGroup.Group("/quotations")
		RegisterDocumentRoutes(group, handler, "document:quotation")
		group.POST("/:id/send-email",
			middleware.RequirePermission("document:quotation:update"), handler.SendEmail)
		group.POST("/:id/convert/sales-order",
			middleware.RequirePermission("document:sales_order:create"), convertHandler.QuotationToSalesOrder)
	}

	// --- SALES ORDERS ---
	{
		handler := handlers.NewSalesOrderHandler(baseHandler, svcs.orders, svcs.activity)
		group := docsGroup.Group("/sales-orders")
		RegisterDocumentRoutes(group, handler, "document:sales_order")
		group.POST("/:id/convert/delivery-note",
			middleware.RequirePermission("document:delivery_note:create"), convertHandler.SalesOrderToDeliveryNote)
		group.POST("/:id/convert/invoice",
			middleware.RequirePermission("document:invoice:create"), convertHandler.SalesOrderToInvoice)
	}

	// --- DELIVERY NOTES ---
	{
		handler := handlers.NewDeliveryNoteHandler(baseHandler, svcs.deliveries, svcs.activity)
		group := docsGroup.Group("/delivery-notes")
		RegisterDocumentRoutes(group, handler, "document:delivery_note")
		group.POST("/:id/acknowledge",
			middleware.RequirePermission("document:delivery_note:update"), handler.Acknowledge)
		group.POST("/:id/convert/invoice",
			middleware.RequirePermission("document:invoice:create"), convertHandler.DeliveryNoteToInvoice)
	}

	// --- INVOICES ---
	{
		handler := handlers.NewInvoiceHandler(baseHandler, svcs.invoices, svcs.activity)
		group := docsGroup.Group("/invoices")
		RegisterDocumentRoutes(group, handler, "document:invoice")
		group.POST("/:id/send-email",
			middleware.RequirePermission("document:invoice:update"), handler.SendEmail)
		group.POST("/:id/convert/invoice-return",
			middleware.RequirePermission("document:invoice_return:create"), convertHandler.InvoiceToInvoiceReturn)
	}

	// --- PURCHASE ORDERS ---
	{
		handler := handlers.NewPurchaseOrderHandler(baseHandler, svcs.purchaseOrders, svcs.activity)
		RegisterDocumentRoutes(docsGroup.Group("/purchase-orders"), handler, "document:purchase_order")
	}

	// --- STOCK RECEIPTS ---
	{
		handler := handlers.NewStockReceiptHandler(baseHandler, svcs.receipts, svcs.activity)
		RegisterDocumentRoutes(docsGroup.Group("/stock-receipts"), handler, "document:stock_receipt")
	}

	// --- STOCK RETURNS ---
	{
		handler := handlers.NewStockReturnHandler(baseHandler, svcs.stockReturns, svcs.activity)
		RegisterDocumentRoutes(docsGroup.Group("/stock-returns"), handler, "document:stock_return")
	}

	// --- INVOICE RETURNS ---
	{
		handler := handlers.NewInvoiceReturnHandler(baseHandler, svcs.invReturns, svcs.activity)
		group := docsGroup.Group("/invoice-returns")
		RegisterDocumentRoutes(group, handler, "document:invoice_return")
		group.POST("/:id/convert/delivery-note-return",
			middleware.RequirePermission("document:delivery_note_return:create"), convertHandler.InvoiceReturnToDeliveryNoteReturn)
	}

	// --- DELIVERY NOTE RETURNS ---
	{
		handler := handlers.NewDeliveryReturnHandler(baseHandler, svcs.dnReturns, svcs.activity)
		RegisterDocumentRoutes(docsGroup.Group("/delivery-note-returns"), handler, "document:delivery_note_return")
	}

	// --- CREDIT NOTES ---
	{
		handler := handlers.NewCreditNoteHandler(baseHandler, svcs.creditNotes, svcs.activity)
		RegisterDocumentRoutes(docsGroup.Group("/credit-notes"), handler, "document:credit_note")
	}

	// --- DEBIT NOTES ---
	{
		handler := handlers.NewDebitNoteHandler(baseHandler, svcs.debitNotes, svcs.activity)
		RegisterDocumentRoutes(docsGroup.Group("/debit-notes"), handler, "document:debit_note")
	}
}

// registerHRRoutes registers candidate onboarding, attendance, holiday
// and task endpoints.
func registerHRRoutes(rg *gin.RouterGroup, svcs *services) {
	hrGroup := rg.Group("/hr")
	baseHandler := handlers.NewBaseHandler()

	candidates := hrGroup.Group("/candidates")
	RegisterCatalogRoutes(candidates,
		handlers.NewCandidateHandler(baseHandler, svcs.candidates), "hr:candidate")

	h := handlers.NewHRHandler(baseHandler, svcs.candidates, svcs.attendance, svcs.tasks)

	candidates.GET("/:id/documents",
		middleware.RequirePermission("hr:candidate:read"), h.ListDocuments)
	candidates.POST("/:id/documents",
		middleware.RequirePermission("hr:candidate:update"), h.AttachDocument)

	att := hrGroup.Group("/attendance")
	att.POST("/punch", middleware.RequirePermission("hr:attendance:create"), h.Punch)
	att.GET("", middleware.RequirePermission("hr:attendance:read"), h.MyAttendance)

	holidays := hrGroup.Group("/holidays")
	holidays.GET("", middleware.RequirePermission("hr:holiday:read"), h.ListHolidays)
	holidays.POST("", middleware.RequirePermission("hr:holiday:create"), h.CreateHoliday)

	tasks := hrGroup.Group("/tasks")
	tasks.GET("", middleware.RequirePermission("hr:task:read"), h.ListTasks)
	tasks.POST("", middleware.RequirePermission("hr:task:create"), h.CreateTask)
	tasks.GET("/:id", middleware.RequirePermission("hr:task:read"), h.GetTask)
	tasks.PUT("/:id", middleware.RequirePermission("hr:task:update"), h.UpdateTask)
	tasks.DELETE("/:id", middleware.RequirePermission("hr:task:delete"), h.DeleteTask)
}
