package http

import (
	"errors"
	"net/http"
	"strconv"

	"joyeria-backend/internal/domain"
	"joyeria-backend/internal/infra/payment"
	"joyeria-backend/internal/repository"
	"joyeria-backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Catalog pages may be shared-cached for a minute and served stale while a
// background revalidation runs.
const catalogCacheControl = "public, max-age=60, stale-while-revalidate=300"

type Handler struct {
	catalog  *services.CatalogService
	orders   *services.OrderService
	checkout *services.CheckoutService
	config   *services.ConfigService
	auth     Authorizer
}

func NewHandler(catalog *services.CatalogService, orders *services.OrderService, checkout *services.CheckoutService, config *services.ConfigService, auth Authorizer) *Handler {
	return &Handler{
		catalog:  catalog,
		orders:   orders,
		checkout: checkout,
		config:   config,
		auth:     auth,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.POST("/orders", h.CreateOrder)
	r.POST("/checkout/preference", h.CreateCheckoutPreference)
	r.POST("/payments/callback", h.PaymentCallback)
	r.GET("/config", h.GetPublicConfig)

	admin := r.Group("/admin", AdminAuth(h.auth))
	admin.GET("/orders", h.AdminListOrders)
	admin.GET("/orders/:id", h.AdminGetOrder)
	admin.PATCH("/orders/:id/status", h.AdminUpdateOrderStatus)
	admin.POST("/products", h.AdminCreateProduct)
	admin.GET("/products/:id", h.AdminGetProduct)
	admin.PUT("/products/:id", h.AdminUpdateProduct)
	admin.DELETE("/products/:id", h.AdminDeleteProduct)
	admin.GET("/config", h.AdminGetConfig)
	admin.PUT("/config", h.AdminUpdateConfig)
}

func (h *Handler) ListProducts(c *gin.Context) {
	params := services.CatalogParams{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		Category:  c.Query("category"),
		MinPrice:  c.Query("minPrice"),
		MaxPrice:  c.Query("maxPrice"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	page, err := h.catalog.List(c.Request.Context(), params)
	if err != nil {
		// The store being unreachable is not "no results".
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
		return
	}

	c.Header("Cache-Control", catalogCacheControl)
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Cache-Control", catalogCacheControl)
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := services.CreateOrderInput{
		CustomerName:    req.CustomerName,
		ShippingAddress: req.ShippingAddress,
		ContactEmail:    req.ContactEmail,
	}
	for _, p := range req.OrderedProducts {
		in.Items = append(in.Items, services.OrderLine{ProductID: p.ProductID, Quantity: p.Quantity})
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateOrderResponse{OrderID: order.ID})
}

func (h *Handler) CreateCheckoutPreference(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]services.CheckoutItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.CheckoutItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	result, err := h.checkout.CreatePreference(c.Request.Context(), items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) PaymentCallback(c *gin.Context) {
	var req PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.orders.ApplyPaymentStatus(c.Request.Context(), req.OrderID, req.Status, req.StatusDetail)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  res.Order.Status,
		"applied": res.Transitioned,
	})
}

func (h *Handler) GetPublicConfig(c *gin.Context) {
	cfg, err := h.config.Public(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "configuration unavailable"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) AdminListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.orders.UpdateOrderStatus(c.Request.Context(), id, req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := req.toDomain()
	if err := h.catalog.CreateProduct(c.Request.Context(), p); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) AdminGetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, err := h.catalog.GetProductAny(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := req.toDomain()
	p.ID = id
	if err := h.catalog.UpdateProduct(c.Request.Context(), p); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AdminGetConfig(c *gin.Context) {
	cfg, err := h.config.Get(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) AdminUpdateConfig(c *gin.Context) {
	var cfg domain.StoreConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.config.Update(c.Request.Context(), &cfg); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// respondError maps service errors onto the response taxonomy: 400 for bad
// input, 404 for unknown ids, 409 for insufficient stock, 502 for gateway
// rejections, 500 for everything else.
func (h *Handler) respondError(c *gin.Context, err error) {
	var vErr services.ValidationError
	var pErr domain.ErrInvalidProduct
	var gErr *payment.GatewayError

	switch {
	case errors.Is(err, repository.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &vErr), errors.As(err, &pErr), errors.Is(err, services.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &gErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": gErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
