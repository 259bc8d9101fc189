package integrity

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/integrity/report", h.report)
}

func (h *Handler) report(c *gin.Context) {
	rep, err := h.svc.BuildReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rep)
}
