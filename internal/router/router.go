package router

import (
	"time"

	"tokopos/internal/config"
	"tokopos/internal/handler"
	"tokopos/internal/infra"
	"tokopos/internal/middleware"
	"tokopos/internal/repository"
	"tokopos/internal/service"
	"tokopos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Deps carries the shared infrastructure built in the composition root.
// The worker pool needs the same dispatcher and notifier the handlers use,
// so they are constructed in main and passed down here.
type Deps struct {
	Config     *config.Config
	LocalDB    *infra.LocalDB
	RDB        *redis.Client
	Client     *infra.BackendClient
	CB         *infra.CircuitBreaker
	Selector   repository.Selector
	Dispatcher *worker.Dispatcher
	Notifier   *service.Notifier
	Layout     infra.ReceiptLayout
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Backend (routed) ← LocalDB/Backend client
func New(d Deps) *gin.Engine {
	if d.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Backends ─────────────────────────────────────────────────────────────
	local := repository.NewLocalBackend(d.LocalDB)
	remote := repository.NewRemoteBackend(d.Client, d.CB, local)
	backend := repository.Route(d.Selector, remote, local)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogSvc := service.NewCatalogService(backend, d.Selector, local)
	cartSvc := service.NewCartService(catalogSvc)
	transactionSvc := service.NewTransactionService(backend)
	dashboardSvc := service.NewDashboardService(d.Selector, d.Client, d.CB, local)
	checkoutSvc := service.NewCheckoutService(cartSvc, backend, d.Dispatcher, d.Notifier, dashboardSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(catalogSvc)
	categoriesH := handler.NewCategoriesHandler(catalogSvc)
	cartH := handler.NewCartHandler(cartSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	transactionsH := handler.NewTransactionsHandler(transactionSvc)
	receiptsH := handler.NewReceiptsHandler(transactionSvc, d.Dispatcher, d.Layout, d.Config.ReceiptStoragePath)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	notificationsH := handler.NewNotificationsHandler(d.Notifier)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(d.LocalDB, d.RDB, d.Selector, d.CB))

	v1 := r.Group("/v1")
	{
		v1.GET("/products", productsH.List)
		v1.GET("/products/:id", productsH.Get)
		v1.POST("/products", productsH.Create)
		v1.PUT("/products/:id", productsH.Update)
		v1.DELETE("/products/:id", productsH.Delete)
		v1.PATCH("/products/:id/stock", productsH.AdjustStock)

		v1.GET("/categories", categoriesH.List)
		v1.POST("/categories", categoriesH.Create)
		v1.PUT("/categories/:id", categoriesH.Rename)
		v1.DELETE("/categories/:id", categoriesH.Delete)

		v1.GET("/cart", cartH.Get)
		v1.POST("/cart/lines", cartH.AddLine)
		v1.PUT("/cart/lines/:productId", cartH.SetQuantity)
		v1.DELETE("/cart/lines/:productId", cartH.RemoveLine)
		v1.DELETE("/cart", cartH.Clear)

		v1.POST("/checkout", checkoutH.Commit)

		v1.GET("/transactions", transactionsH.List)
		v1.GET("/transactions/:code", transactionsH.Get)
		v1.GET("/transactions/:code/receipt", receiptsH.Download)
		v1.POST("/transactions/:code/receipt/email", receiptsH.Email)

		v1.GET("/dashboard", dashboardH.Summary)
		v1.POST("/dashboard/refresh", dashboardH.Refresh)

		v1.GET("/notifications", notificationsH.List)
	}

	return r
}
