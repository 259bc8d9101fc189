package items

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/items", h.CreateItem)
	r.GET("/items", h.ListItems)
	r.GET("/items/:code", h.GetItem)
	r.PUT("/items/:code", h.UpdateItem)
	// DELETE /items/:code?confirm=1 （貸出・予約が残っている場合は確認必須）
	r.DELETE("/items/:code", h.DeleteItem)
	r.POST("/items/bulk-status", h.BulkStatusChange)
}

// ---------- handlers ----------

// POST /items
func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrInvalid("invalid json or missing required fields")))
		return
	}
	res, err := h.svc.CreateItem(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.Header("Location", "/items/"+res.Code)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) GetItem(c *gin.Context) {
	res, err := h.svc.GetItem(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListItems(c *gin.Context) {
	q := ItemSearchQuery{}
	if v := c.Query("category"); v != "" {
		q.Category = &v
	}
	if v := c.Query("status"); v != "" {
		q.Status = &v
	}
	if v := c.Query("location"); v != "" {
		q.Location = &v
	}
	if v := c.Query("name"); v != "" {
		q.Name = &v
	}
	p := Page{
		Limit:  parseIntDefault(c.Query("limit"), 50),
		Offset: parseIntDefault(c.Query("offset"), 0),
		Order:  c.DefaultQuery("order", "asc"),
	}
	list, total, err := h.svc.ListItems(c.Request.Context(), q, p)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "total": total})
}

func (h *Handler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrInvalid("invalid json")))
		return
	}
	res, err := h.svc.UpdateItem(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	confirmed := c.Query("confirm") == "1" || c.Query("confirm") == "true"
	if err := h.svc.DeleteItem(c.Request.Context(), c.Param("code"), confirmed); err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) BulkStatusChange(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrInvalid("invalid json")))
		return
	}
	res, err := h.svc.BulkStatusChange(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, res)
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
