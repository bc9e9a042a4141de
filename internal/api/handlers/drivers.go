package handlers

import (
	"net/http"

	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/services"

	"github.com/gin-gonic/gin"
)

type DriverHandler struct {
	Service *services.DriverService
}

func (h *DriverHandler) List(c *gin.Context) {
	drivers, err := h.Service.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDriverListResponse(drivers))
}

func (h *DriverHandler) Get(c *gin.Context) {
	d, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDriverResponse(d))
}

func (h *DriverHandler) ListByDepartment(c *gin.Context) {
	drivers, err := h.Service.ListByDepartment(c.Request.Context(), c.Param("department"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDriverListResponse(drivers))
}

func (h *DriverHandler) Create(c *gin.Context) {
	var req dto.CreateDriverRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.Service.Create(c.Request.Context(), req.Input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateDriverResponse{ID: d.ID, DriverCode: d.DriverCode})
}

func (h *DriverHandler) Update(c *gin.Context) {
	var req dto.UpdateDriverRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Service.Update(c.Request.Context(), c.Param("id"), req.Patch()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "Driver updated successfully"})
}

func (h *DriverHandler) Delete(c *gin.Context) {
	n, err := h.Service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{
		Status:       "Driver and assigned packages deleted successfully",
		Acknowledged: true,
		DeletedCount: n,
	})
}
