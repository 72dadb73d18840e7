package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/service"
	"github.com/farmmitra/farmmitra-api/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DiagnosisHandler handles crop diagnosis requests.
type DiagnosisHandler struct {
	Service *service.DiagnosisService
}

// NewDiagnosisHandler creates a new DiagnosisHandler.
func NewDiagnosisHandler(diagnosisService *service.DiagnosisService) *DiagnosisHandler {
	return &DiagnosisHandler{Service: diagnosisService}
}

// allowedPhotoTypes is the set of accepted crop photo file extensions.
var allowedPhotoTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// DiagnoseCrop handles POST /v1/diagnoses
//
// Multipart form fields: photo (file, required), crop, language.
func (h *DiagnosisHandler) DiagnoseCrop(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedPhotoTypes[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported photo type. Allowed: jpg, png, webp"})
		return
	}

	photo, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read photo"})
		return
	}

	crop := c.PostForm("crop")
	language := c.PostForm("language")

	resp, err := h.Service.DiagnoseCrop(c.Request.Context(), user, photo, crop, language)
	if err != nil {
		logger.Get().Error("failed to diagnose crop", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"diagnosis": resp})
}

// GetDiagnosis handles GET /v1/diagnoses/:diagnosis_id
func (h *DiagnosisHandler) GetDiagnosis(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	diagnosisID, err := parseUintParam(c.Param("diagnosis_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid diagnosis ID"})
		return
	}

	resp, err := h.Service.GetDiagnosis(user, diagnosisID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"diagnosis": resp})
}

// ListDiagnoses handles GET /v1/diagnoses
func (h *DiagnosisHandler) ListDiagnoses(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	page, pageSize := paginationParams(c)

	diagnoses, total, err := h.Service.ListDiagnoses(user, page, pageSize)
	if err != nil {
		logger.Get().Error("failed to list diagnoses", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list diagnoses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"diagnoses": diagnoses, "total": total, "page": page})
}
