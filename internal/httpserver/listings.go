package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"giftlink/internal/domain"

	"github.com/gin-gonic/gin"
)

func listOrdersHandler(repo orderListRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		orders, err := repo.List(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func listGiftsHandler(repo giftRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		gifts, err := repo.List(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if gifts == nil {
			gifts = []domain.Gift{}
		}
		c.JSON(http.StatusOK, gin.H{"gifts": gifts})
	}
}

// parseTimePtr decodes an optional RFC3339 field, replying 400 on bad input.
func parseTimePtr(c *gin.Context, raw *string, field string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field + " (want RFC3339)"})
		return nil, false
	}
	return &t, true
}
