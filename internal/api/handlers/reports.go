package handlers

import (
	"net/http"

	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	Counters *services.CounterService
	Drivers  ports.DriverRepository
	Packages ports.PackageRepository
}

func (h *ReportHandler) Statistics(c *gin.Context) {
	s, err := h.Counters.Statistics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatisticsResponse{
		CreateCount: s.CreateCount,
		ReadCount:   s.ReadCount,
		UpdateCount: s.UpdateCount,
		DeleteCount: s.DeleteCount,
	})
}

func (h *ReportHandler) Count(c *gin.Context) {
	counts, err := services.CountRecords(c.Request.Context(), h.Drivers, h.Packages)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{DriverCount: counts.Drivers, PackageCount: counts.Packages})
}
