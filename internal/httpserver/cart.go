package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront-checkout/internal/domain"
	cartsvc "storefront-checkout/internal/service/cart"
)

// cartKeyHeader names the client's stable cart identity. It is the one piece
// of durable state the storefront owns besides what lives in the backend.
const cartKeyHeader = "X-Cart-Key"

type cartHandlers struct {
	carts *cartsvc.Service
}

type addItemRequest struct {
	ProductID int64           `json:"product_id" binding:"required"`
	Title     string          `json:"title" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

type cartResponse struct {
	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

func cartKey(c *gin.Context) (string, bool) {
	key := c.GetHeader(cartKeyHeader)
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "missing " + cartKeyHeader + " header"})
		return "", false
	}
	return key, true
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid product id"})
		return 0, false
	}
	return id, true
}

func (h cartHandlers) get(c *gin.Context) {
	key, ok := cartKey(c)
	if !ok {
		return
	}
	items, err := h.carts.Items(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(items))
}

func (h cartHandlers) add(c *gin.Context) {
	key, ok := cartKey(c)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid cart item"})
		return
	}
	items, err := h.carts.Add(c.Request.Context(), key, domain.CartItem{
		ProductID: req.ProductID,
		Title:     req.Title,
		UnitPrice: req.UnitPrice,
		ImageURL:  req.ImageURL,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(items))
}

func (h cartHandlers) increment(c *gin.Context) {
	h.bump(c, h.carts.Increment)
}

func (h cartHandlers) decrement(c *gin.Context) {
	h.bump(c, h.carts.Decrement)
}

func (h cartHandlers) bump(c *gin.Context, op func(ctx context.Context, ownerKey string, productID int64) ([]domain.CartItem, error)) {
	key, ok := cartKey(c)
	if !ok {
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}
	items, err := op(c.Request.Context(), key, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(items))
}

func (h cartHandlers) remove(c *gin.Context) {
	key, ok := cartKey(c)
	if !ok {
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}
	items, err := h.carts.Remove(c.Request.Context(), key, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(items))
}

func toCartResponse(items []domain.CartItem) cartResponse {
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartResponse{Items: items, Total: domain.CartTotal(items)}
}
