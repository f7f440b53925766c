package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-checkout/internal/domain"
	checkoutsvc "storefront-checkout/internal/service/checkout"
)

type sessionHandlers struct {
	checkout *checkoutsvc.Service
}

type startSessionRequest struct {
	Start *int `json:"start"`
}

type stepRequest struct {
	Step int `json:"step"`
}

type shippingRequest struct {
	Key string `json:"key" binding:"required"`
}

type paymentRequest struct {
	Method string `json:"method" binding:"required"`
	Card   *struct {
		HolderName string `json:"holder_name"`
		Number     string `json:"number"`
		Expiry     string `json:"expiry"`
		CVV        string `json:"cvv"`
	} `json:"card"`
	CPF string `json:"cpf"`
}

type selectAddressRequest struct {
	ID int64 `json:"id" binding:"required"`
}

type draftRequest struct {
	Show *bool           `json:"show"`
	Addr *domain.Address `json:"address"`
}

type lookupRequest struct {
	CEP string `json:"cep" binding:"required"`
}

type createAddressRequest struct {
	Label string `json:"label"`
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if v, ok := strings.CutPrefix(header, "Bearer "); ok {
		return v
	}
	return ""
}

func (h sessionHandlers) orchestrator(c *gin.Context) (*checkoutsvc.Orchestrator, bool) {
	id, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid session id"})
		return nil, false
	}
	orch, err := h.checkout.Get(id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return orch, true
}

func (h sessionHandlers) start(c *gin.Context) {
	key, ok := cartKey(c)
	if !ok {
		return
	}
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	var entry *domain.CheckoutStep
	if req.Start != nil {
		if *req.Start < int(domain.StepLogin) || *req.Start > int(domain.StepConfirm) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "start must be between 0 and 5"})
			return
		}
		step := domain.CheckoutStep(*req.Start)
		entry = &step
	}

	orch, err := h.checkout.Start(c.Request.Context(), bearerToken(c), key, entry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionView(orch.Snapshot()))
}

func (h sessionHandlers) get(c *gin.Context) {
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSessionView(orch.Snapshot()))
}

func (h sessionHandlers) end(c *gin.Context) {
	id, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid session id"})
		return
	}
	h.checkout.End(id)
	c.Status(http.StatusNoContent)
}

func (h sessionHandlers) goTo(c *gin.Context) {
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if err := orch.GoTo(c.Request.Context(), domain.CheckoutStep(req.Step)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(orch.Snapshot()))
}

func (h sessionHandlers) setShipping(c *gin.Context) {
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var req shippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "shipping key required"})
		return
	}
	if err := orch.SetShipping(req.Key); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(orch.Snapshot()))
}

func (h sessionHandlers) setPayment(c *gin.Context) {
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "payment method required"})
		return
	}

	var sel domain.PaymentSelection
	switch domain.PaymentMethod(req.Method) {
	case domain.PaymentPix:
		sel = domain.PixPayment{}
	case domain.PaymentCard:
		card := domain.CardPayment{}
		if req.Card != nil {
			card = domain.CardPayment{
				HolderName: req.Card.HolderName,
				Number:     req.Card.Number,
				Expiry:     req.Card.Expiry,
				CVV:        req.Card.CVV,
			}
		}
		sel = card
	case domain.PaymentBoleto:
		sel = domain.BoletoPayment{PayerCPF: req.CPF}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unsupported payment method"})
		return
	}

	orch.SetPayment(sel)
	c.JSON(http.StatusOK, toSessionView(orch.Snapshot()))
}

func (h sessionHandlers) finalize(c *gin.Context) {
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	orderNumber, err := orch.Finalize(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_number": orderNumber})
}

func (h sessionHandlers) refreshAddresses(c *gin.Context) {
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	if err := orch.RefreshAddresses(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(orch.Snapshot()))
}

func (h sessionHandlers) createAddress(c *gin.Context) {
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var req createAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	created, err := orch.CreateAddress(c.Request.Context(), req.Label)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h sessionHandlers) selectAddress(c *gin.Context) {
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var req selectAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "address id required"})
		return
	}
	if err := orch.SelectAddress(req.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(orch.Snapshot()))
}

func (h sessionHandlers) setDraft(c *gin.Context) {
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if req.Addr != nil {
		orch.SetDraftAddress(*req.Addr)
	}
	if req.Show != nil {
		orch.ShowDraftAddress(*req.Show)
	}
	c.JSON(http.StatusOK, toSessionView(orch.Snapshot()))
}

func (h sessionHandlers) lookupPostal(c *gin.Context) {
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "cep required"})
		return
	}
	if err := orch.LookupPostal(c.Request.Context(), req.CEP); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(orch.Snapshot()))
}

func (h sessionHandlers) promoteDefault(c *gin.Context) {
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("addressId"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid address id"})
		return
	}
	if err := orch.PromoteDefaultAddress(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(orch.Snapshot()))
}

func (h sessionHandlers) deleteAddress(c *gin.Context) {
	orch, ok := h.orchestrator(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("addressId"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid address id"})
		return
	}
	if err := orch.DeleteAddress(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(orch.Snapshot()))
}
