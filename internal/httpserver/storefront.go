package httpserver

import (
	"errors"
	"net/http"
	"time"

	"giftlink/internal/domain"
	"giftlink/internal/service/checkout"
	"giftlink/internal/service/pricing"

	"github.com/gin-gonic/gin"
)

func listProductsHandler(repo productRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repo.ListActive(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

type previewRequest struct {
	Items []pricing.CartLine `json:"items" binding:"required"`
	Code  string             `json:"code" binding:"required"`
}

// discountPreviewHandler is side-effect free; the storefront calls it as the
// user types. Business failures come back HTTP 200 with ok:false so the UI
// can surface the message inline.
func discountPreviewHandler(svc *pricing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req previewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "malformed request"})
			return
		}
		quote, err := svc.Evaluate(c.Request.Context(), req.Items, req.Code, time.Now().UTC())
		if err != nil {
			if code, ok := errorCode(err); ok {
				c.JSON(http.StatusOK, gin.H{"ok": false, "error": code})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"ok":                                true,
			"discountAmountCents":               quote.DiscountAmountCents,
			"productSubtotalCents":              quote.ProductSubtotalCents,
			"productSubtotalAfterDiscountCents": quote.ProductSubtotalAfterDiscountCents,
		})
	}
}

func checkoutQuoteHandler(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.QuoteInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "malformed request"})
			return
		}
		quote, err := svc.BuildQuote(c.Request.Context(), req)
		if err != nil {
			if code, ok := errorCode(err); ok {
				c.JSON(http.StatusOK, gin.H{"ok": false, "error": code})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "quote": quote})
	}
}

func createOrderHandler(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.FinalizeInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "malformed request"})
			return
		}
		receipt, err := svc.Finalize(c.Request.Context(), req)
		if err != nil {
			if code, ok := errorCode(err); ok {
				c.JSON(http.StatusConflict, gin.H{"ok": false, "error": code})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true, "order": receipt.Order, "gifts": receipt.Gifts})
	}
}

func getGiftHandler(repo giftRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		gift, err := repo.GetByClaimCode(c.Request.Context(), c.Param("claimCode"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "gift not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"gift": gift})
	}
}

func claimGiftHandler(repo giftRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		gift, err := repo.Claim(c.Request.Context(), c.Param("claimCode"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusConflict, gin.H{"error": "gift not claimable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"gift": gift})
	}
}
