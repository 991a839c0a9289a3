package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/handler"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/middleware"
)

// Handlers are the storefront's HTTP handlers
type Handlers struct {
	Catalog  *handler.CatalogHandler
	Review   *handler.ReviewHandler
	Cart     *handler.CartHandler
	Payment  *handler.PaymentHandler
	Wallet   *handler.WalletHandler
	Finance  *handler.FinanceHandler
	Fragment *handler.FragmentHandler
	Health   *handler.HealthHandler
}

// Guards protect route groups
type Guards struct {
	// Auth requires a valid access token
	Auth gin.HandlerFunc
	// Identify attaches the caller's identity when a valid token is sent and
	// never rejects
	Identify gin.HandlerFunc
	// Admin restricts a group to the admin role and runs after Auth
	Admin gin.HandlerFunc
	// Writes limits the public endpoints that create things
	Writes gin.HandlerFunc
}

// Mount registers the API groups under /api/v1 and the health and fragment
// routes at the root of engine.
func Mount(engine *gin.Engine, h Handlers, g Guards) *Router {
	authed := []gin.HandlerFunc{g.Auth, middleware.SpanAttributes()}

	products := NewDomainGroup("catalog", "/products").
		GET("/random", h.Catalog.RandomProducts).
		GET("/search", h.Catalog.Search).
		GET("/:id", h.Catalog.GetProduct).
		GET("/:id/comments", h.Review.ListComments).
		GET("/:id/comments/stats", h.Review.CommentStats).
		GET("/:id/comments/mine", h.Review.HasCommented).
		POST("/:id/comments", g.Writes, h.Review.CreateComment).
		GET("/:id/reviews", h.Review.ListReviews).
		POST("/:id/reviews", g.Writes, h.Review.CreateReview)

	stores := NewDomainGroup("catalog", "/stores").
		GET("/:id", h.Catalog.StorePage)

	cart := NewDomainGroup("cart", "/cart").
		GET("", h.Cart.Get).
		DELETE("", h.Cart.Clear).
		GET("/count", h.Cart.Count).
		POST("/items", h.Cart.Add).
		PUT("/items/:id", h.Cart.Update).
		DELETE("/items/:id", h.Cart.Remove).
		PATCH("/items/:id/select", h.Cart.Select)

	payments := NewDomainGroup("payment", "/payments").
		GET("/methods", h.Payment.Methods).
		POST("/checkout", g.Identify, g.Writes, h.Payment.Checkout).
		POST("/webhook", h.Payment.Webhook).
		GET("/:transaction_id", h.Payment.Verify).
		POST("/:transaction_id/cancel", g.Identify, h.Payment.Cancel)

	wallet := NewDomainGroup("wallet", "/wallet").
		Use(authed...).
		GET("", h.Wallet.Overview).
		GET("/banks", h.Wallet.Banks).
		POST("/withdraw", g.Writes, h.Wallet.Withdraw)

	me := NewDomainGroup("finance", "/me").
		Use(authed...).
		GET("/transactions", h.Finance.MyTransactions)

	admin := NewDomainGroup("admin", "/admin").
		Use(authed...).
		Use(g.Admin)
	admin.Group("finance", "/finance").
		GET("/dashboard", h.Finance.Dashboard).
		GET("/users/:id/transactions", h.Finance.UserTransactions)

	r := NewRouter(engine)
	for _, dg := range []*DomainGroup{products, stores, cart, payments, wallet, me, admin} {
		r.Register(dg)
	}
	r.Setup()

	engine.GET("/health", h.Health.Health)
	fragments := engine.Group("/fragments")
	fragments.GET("/pagination", h.Fragment.Pagination)
	fragments.GET("/stores/:id/products", h.Fragment.StoreProducts)

	return r
}
