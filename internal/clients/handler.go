package clients

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/clients", h.list)
	r.POST("/clients", h.create)
	r.GET("/clients/:id", h.get)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrInvalid("invalid json body"))
		return
	}
	res, err := h.svc.CreateClient(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), wrapErr(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrInvalid("invalid client id"))
		return
	}
	res, err := h.svc.GetClient(c.Request.Context(), id)
	if err != nil {
		c.JSON(toHTTPStatus(err), wrapErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) list(c *gin.Context) {
	var q ListQuery
	if v := c.Query("name"); v != "" {
		q.Name = &v
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Offset = n
		}
	}
	items, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(toHTTPStatus(err), wrapErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": items, "total": total})
}

func wrapErr(err error) *APIError {
	if api, ok := err.(*APIError); ok {
		return api
	}
	return ErrInternal(err.Error())
}
