package handlers

import (
	"net/http"

	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/services"

	"github.com/gin-gonic/gin"
)

type PackageHandler struct {
	Service *services.PackageService
}

func (h *PackageHandler) List(c *gin.Context) {
	pkgs, err := h.Service.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPackageListResponse(pkgs))
}

func (h *PackageHandler) Get(c *gin.Context) {
	p, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPackageResponse(p))
}

func (h *PackageHandler) Create(c *gin.Context) {
	var req dto.CreatePackageRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.Service.Create(c.Request.Context(), req.Input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreatePackageResponse{ID: p.ID, PackageCode: p.PackageCode})
}

func (h *PackageHandler) Update(c *gin.Context) {
	var req dto.UpdatePackageRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := domain.PackagePatch{Destination: req.Destination}
	if err := h.Service.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "Package updated successfully"})
}

func (h *PackageHandler) Delete(c *gin.Context) {
	n, err := h.Service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{
		Status:       "Package deleted successfully",
		Acknowledged: true,
		DeletedCount: n,
	})
}
