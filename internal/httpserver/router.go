package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"giftlink/internal/domain"
	"giftlink/internal/service/adminauth"
	"giftlink/internal/service/checkout"
	"giftlink/internal/service/pricing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps bundles everything the router needs. Consumer-side interfaces keep
// handler tests on hand-rolled stubs.
type Deps struct {
	Products    productRepo
	Discounts   discountAdminRepo
	Orders      orderListRepo
	Gifts       giftRepo
	PricingSvc  *pricing.Service
	CheckoutSvc *checkout.Service
	AdminAuth   *adminauth.Service

	// SecureCookies sets the Secure flag on the admin session cookie
	// (production only).
	SecureCookies  bool
	AllowedOrigins []string
}

type productRepo interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
}

type discountAdminRepo interface {
	List(ctx context.Context) ([]domain.DiscountCode, error)
	Create(ctx context.Context, in domain.DiscountCode) (*domain.DiscountCode, error)
	Update(ctx context.Context, in domain.DiscountCode) (*domain.DiscountCode, error)
}

type orderListRepo interface {
	List(ctx context.Context, limit int) ([]domain.Order, error)
}

type giftRepo interface {
	GetByClaimCode(ctx context.Context, claimCode string) (*domain.Gift, error)
	Claim(ctx context.Context, claimCode string) (*domain.Gift, error)
	List(ctx context.Context, limit int) ([]domain.Gift, error)
}

// buildRouter wires storefront and admin routes.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.AdminAuth == nil {
		// Fail closed: without a configured auth service the admin surface
		// must not exist at all.
		return nil, adminauth.ErrNotConfigured
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	{
		api.GET("/products", listProductsHandler(deps.Products))
		api.POST("/discount/preview", discountPreviewHandler(deps.PricingSvc))
		api.POST("/checkout/quote", checkoutQuoteHandler(deps.CheckoutSvc))
		api.POST("/orders", createOrderHandler(deps.CheckoutSvc))
		api.GET("/gifts/:claimCode", getGiftHandler(deps.Gifts))
		api.POST("/gifts/:claimCode/claim", claimGiftHandler(deps.Gifts))
	}

	router.POST("/admin/login", adminLoginHandler(deps.AdminAuth, deps.SecureCookies))
	router.POST("/admin/logout", adminLogoutHandler(deps.SecureCookies))

	admin := router.Group("/admin/api", adminAuthMiddleware(deps.AdminAuth))
	{
		admin.GET("/discount-codes", listDiscountCodesHandler(deps.Discounts))
		admin.POST("/discount-codes", createDiscountCodeHandler(deps.Discounts))
		admin.PUT("/discount-codes/:code", updateDiscountCodeHandler(deps.Discounts))
		admin.GET("/orders", listOrdersHandler(deps.Orders))
		admin.GET("/gifts", listGiftsHandler(deps.Gifts))
	}

	return router, nil
}

// errorCode maps the discount taxonomy to stable machine-readable strings the
// storefront presents to the user.
func errorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrUnknownProduct):
		return "UnknownProduct", true
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "InvalidQuantity", true
	case errors.Is(err, domain.ErrInvalidCode):
		return "InvalidCode", true
	case errors.Is(err, domain.ErrCodeInactive):
		return "CodeInactive", true
	case errors.Is(err, domain.ErrNotYetValid):
		return "NotYetValid", true
	case errors.Is(err, domain.ErrExpired):
		return "Expired", true
	case errors.Is(err, domain.ErrRedemptionLimitReached):
		return "RedemptionLimitReached", true
	case errors.Is(err, domain.ErrBelowMinimumSubtotal):
		return "BelowMinimumSubtotal", true
	case errors.Is(err, domain.ErrDiscountNotApplicable):
		return "DiscountNotApplicable", true
	case errors.Is(err, domain.ErrBelowMinimumOrderQty):
		return "BelowMinimumOrderQuantity", true
	case errors.Is(err, domain.ErrMoqOutsideTierRanges):
		return "MoqOutsideTierRanges", true
	case errors.Is(err, domain.ErrRedemptionUnavailable):
		return "RedemptionLimitReached", true
	}
	return "", false
}
