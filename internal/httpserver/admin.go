package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"giftlink/internal/domain"
	"giftlink/internal/service/adminauth"
	"giftlink/internal/service/pricing"

	"github.com/gin-gonic/gin"
)

const sessionCookieName = "gl_admin"

// adminAuthMiddleware gates every admin route behind the signed session
// cookie. All failure modes collapse into one unauthorized outcome; browser
// clients are bounced to the login page with a return path.
func adminAuthMiddleware(auth *adminauth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err == nil && auth.VerifyToken(token) {
			c.Next()
			return
		}
		if strings.Contains(c.GetHeader("Accept"), "text/html") {
			c.Redirect(http.StatusFound, "/admin/login?next="+c.Request.URL.Path)
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
}

type loginRequest struct {
	Password string `json:"password" form:"password" binding:"required"`
	Next     string `json:"next" form:"next"`
}

func adminLoginHandler(auth *adminauth.Service, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
			return
		}
		if !auth.CheckPassword(req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token, err := auth.CreateToken()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookieName, token, int(auth.TTL().Seconds()), "/", "", secure, true)

		// Open-redirect guard: only return paths inside the admin area.
		next := req.Next
		if !strings.HasPrefix(next, "/admin") {
			next = "/admin"
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "next": next})
	}
}

func adminLogoutHandler(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookieName, "", -1, "/", "", secure, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

type discountCodeRequest struct {
	Code             string               `json:"code" binding:"required"`
	Active           bool                 `json:"active"`
	DiscountType     string               `json:"discountType" binding:"required,oneof=percent fixed partner_tiered"`
	DiscountValue    *int64               `json:"discountValue"`
	ValidFrom        *string              `json:"validFrom"`
	ValidTo          *string              `json:"validTo"`
	MaxRedemptions   *int                 `json:"maxRedemptions"`
	MinSubtotalCents *int64               `json:"minSubtotalCents"`
	PartnerMOQ       *int                 `json:"partnerMoq"`
	PartnerTiers     []domain.PartnerTier `json:"partnerTiers"`
}

func listDiscountCodesHandler(repo discountAdminRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		codes, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if codes == nil {
			codes = []domain.DiscountCode{}
		}
		c.JSON(http.StatusOK, gin.H{"discountCodes": codes})
	}
}

func createDiscountCodeHandler(repo discountAdminRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, ok := bindDiscountCode(c)
		if !ok {
			return
		}
		created, err := repo.Create(c.Request.Context(), *in)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "code already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"discountCode": created})
	}
}

func updateDiscountCodeHandler(repo discountAdminRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, ok := bindDiscountCode(c)
		if !ok {
			return
		}
		in.Code = pricing.NormalizeCode(c.Param("code"))
		updated, err := repo.Update(c.Request.Context(), *in)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "code not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"discountCode": updated})
	}
}

// bindDiscountCode parses, validates and canonicalizes an authored discount
// code. Tier normalization happens here so the stored configuration already
// satisfies the evaluator's ordering assumptions.
func bindDiscountCode(c *gin.Context) (*domain.DiscountCode, bool) {
	var req discountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	in := domain.DiscountCode{
		Code:             pricing.NormalizeCode(req.Code),
		Active:           req.Active,
		DiscountType:     req.DiscountType,
		DiscountValue:    req.DiscountValue,
		MaxRedemptions:   req.MaxRedemptions,
		MinSubtotalCents: req.MinSubtotalCents,
		PartnerMOQ:       req.PartnerMOQ,
	}

	var ok bool
	if in.ValidFrom, ok = parseTimePtr(c, req.ValidFrom, "validFrom"); !ok {
		return nil, false
	}
	if in.ValidTo, ok = parseTimePtr(c, req.ValidTo, "validTo"); !ok {
		return nil, false
	}

	switch req.DiscountType {
	case domain.DiscountTypePercent:
		if req.DiscountValue == nil || *req.DiscountValue < 1 || *req.DiscountValue > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "percent value must be 1-100"})
			return nil, false
		}
	case domain.DiscountTypeFixed:
		if req.DiscountValue == nil || *req.DiscountValue < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fixed value must be at least 1 cent"})
			return nil, false
		}
	case domain.DiscountTypePartnerTiered:
		if len(req.PartnerTiers) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "partner tiers required"})
			return nil, false
		}
		tiers, err := pricing.NormalizeTiers(req.PartnerTiers, req.PartnerMOQ)
		if err != nil {
			code, _ := errorCode(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": code})
			return nil, false
		}
		in.PartnerTiers = tiers
		in.DiscountValue = nil
	}

	return &in, true
}
