package categories

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/categories", h.ListCategories)
	r.POST("/categories", h.CreateCategory)
	r.PUT("/categories/:id", h.UpdateCategory)
}

func parseBoolish(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "1" || s == "true" || s == "yes" || s == "all"
}

// GET /categories?all=1
func (h *Handler) ListCategories(c *gin.Context) {
	includeDisabled := parseBoolish(c.Query("all"))
	res, err := h.svc.ListCategories(c.Request.Context(), includeDisabled)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrInvalid("invalid json or missing required fields")))
		return
	}
	res, err := h.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrInvalid("invalid category id")))
		return
	}
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrInvalid("invalid json or missing required fields")))
		return
	}
	res, err := h.svc.UpdateCategory(c.Request.Context(), uint(id), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, res)
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
