package checkouts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// 1. 貸出リソース
	r.POST("/checkouts", h.Checkout)

	// 2. 機材起点 (QR Scan)
	// ターミナル端末（スマホ）からのスキャンで現在の貸出を引く
	r.GET("/items/:code/active-checkout", h.GetActiveCheckout)

	// 3. 返却リソース
	r.POST("/returns", h.CheckIn)
	r.GET("/returns", h.ListReturns)
}

// ---------- handlers ----------

// POST /checkouts
func (h *Handler) Checkout(c *gin.Context) {
	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrInvalid("invalid json or missing required fields")))
		return
	}
	res, err := h.svc.Checkout(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.Header("Location", "/checkouts/"+res.CheckoutULID)
	c.JSON(http.StatusCreated, res)
}

// GET /items/:code/active-checkout
func (h *Handler) GetActiveCheckout(c *gin.Context) {
	res, err := h.svc.GetActiveCheckout(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /returns
func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrInvalid("invalid json")))
		return
	}
	res, err := h.svc.CheckIn(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.Header("Location", "/returns/"+res.ReturnULID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListReturns(c *gin.Context) {
	f := ReturnFilter{
		ItemCode:     c.Query("item_code"),
		CheckoutULID: c.Query("checkout_ulid"),
	}
	p := Page{
		Limit:  parseIntDefault(c.Query("limit"), 50),
		Offset: parseIntDefault(c.Query("offset"), 0),
		Order:  c.DefaultQuery("order", "desc"),
	}
	res, total, err := h.svc.ListReturns(c.Request.Context(), f, p)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"returns": res, "total": total})
}

// ---------- helpers ----------

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

type errorDTO struct {
	Error *APIError `json:"error"`
}

func errorBody(err error) errorDTO {
	var api *APIError
	if !errors.As(err, &api) {
		api = ErrInternal(err.Error())
	}
	return errorDTO{Error: api}
}
