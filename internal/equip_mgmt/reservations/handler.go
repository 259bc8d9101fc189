package reservations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"KIZAI-backend/internal/equip_mgmt/schedule"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/reservations", h.CreateReservation)
	r.GET("/reservations", h.ListReservations)
	r.GET("/reservations/:reservation_ulid", h.GetReservation)
	r.PUT("/reservations/:reservation_ulid", h.UpdateReservation)
	r.DELETE("/reservations/:reservation_ulid", h.CancelReservation)

	// 保存前の衝突プレビュー（state は一切変えない）
	r.POST("/reservations/conflicts", h.Evaluate)
}

// ---------- handlers ----------

// POST /reservations
func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrInvalid("invalid json or missing required fields")))
		return
	}
	res, err := h.svc.CreateReservation(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.Header("Location", "/reservations/"+res.ReservationULID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) GetReservation(c *gin.Context) {
	res, err := h.svc.GetReservation(c.Request.Context(), c.Param("reservation_ulid"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListReservations(c *gin.Context) {
	f := ReservationFilter{
		ItemCode:    c.Query("item_code"),
		Project:     c.Query("project"),
		RequestedBy: c.Query("requested_by"),
	}
	if v := c.Query("from"); v != "" {
		if t, err := schedule.ParseDate(v); err == nil {
			f.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := schedule.ParseDate(v); err == nil {
			f.To = &t
		}
	}
	p := Page{
		Limit:  parseIntDefault(c.Query("limit"), 50),
		Offset: parseIntDefault(c.Query("offset"), 0),
		Order:  c.DefaultQuery("order", "asc"),
	}
	list, total, err := h.svc.ListReservations(c.Request.Context(), f, p)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list, "total": total})
}

func (h *Handler) UpdateReservation(c *gin.Context) {
	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrInvalid("invalid json or missing required fields")))
		return
	}
	res, err := h.svc.UpdateReservation(c.Request.Context(), c.Param("reservation_ulid"), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CancelReservation(c *gin.Context) {
	if err := h.svc.CancelReservation(c.Request.Context(), c.Param("reservation_ulid")); err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /reservations/conflicts
func (h *Handler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ErrInvalid("invalid json or missing required fields")))
		return
	}
	rep, err := h.svc.Evaluate(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, rep)
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
