package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/service"
	"github.com/farmmitra/farmmitra-api/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VoiceHandler handles voice query requests.
type VoiceHandler struct {
	Service *service.VoiceService
}

// NewVoiceHandler creates a new VoiceHandler.
func NewVoiceHandler(voiceService *service.VoiceService) *VoiceHandler {
	return &VoiceHandler{Service: voiceService}
}

// maxAudioSize caps uploaded audio clips at 15 MB.
const maxAudioSize = 15 << 20

// ProcessVoiceQuery handles POST /v1/voice/query
//
// Multipart form fields: audio (file, required), language, conversation_id,
// encoding, sample_rate.
func (h *VoiceHandler) ProcessVoiceQuery(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxAudioSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio exceeds maximum size of 15MB"})
		return
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read audio"})
		return
	}

	var conversationID uint
	if raw := c.PostForm("conversation_id"); raw != "" {
		conversationID, err = parseUintParam(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation_id"})
			return
		}
	}

	sampleRate := 0
	if raw := c.PostForm("sample_rate"); raw != "" {
		sampleRate, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sample_rate"})
			return
		}
	}

	language := c.PostForm("language")
	encoding := c.PostForm("encoding")

	resp, err := h.Service.ProcessVoiceQuery(c.Request.Context(), user, conversationID, audio, language, encoding, sampleRate)
	if err != nil {
		logger.Get().Error("failed to process voice query", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Transcribe handles POST /v1/voice/transcribe
//
// Multipart form fields: audio (file, required), language, encoding,
// sample_rate.
func (h *VoiceHandler) Transcribe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxAudioSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio exceeds maximum size of 15MB"})
		return
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read audio"})
		return
	}

	sampleRate := 0
	if raw := c.PostForm("sample_rate"); raw != "" {
		sampleRate, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sample_rate"})
			return
		}
	}

	resp, err := h.Service.Transcribe(c.Request.Context(), user, audio, c.PostForm("language"), c.PostForm("encoding"), sampleRate)
	if err != nil {
		logger.Get().Error("failed to transcribe audio", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Synthesize handles POST /v1/voice/synthesize
func (h *VoiceHandler) Synthesize(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Text     string `json:"text" binding:"required"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	audioBase64, err := h.Service.Synthesize(c.Request.Context(), user, req.Text, req.Language)
	if err != nil {
		logger.Get().Error("failed to synthesize speech", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audio_base64": audioBase64})
}

// GetLanguages handles GET /v1/voice/languages
func (h *VoiceHandler) GetLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": h.Service.Languages()})
}

// GetStatus handles GET /v1/voice/status
func (h *VoiceHandler) GetStatus(c *gin.Context) {
	status := h.Service.CheckAvailability(c.Request.Context())
	c.JSON(http.StatusOK, status)
}

// ResetStatus handles POST /v1/voice/status/reset
func (h *VoiceHandler) ResetStatus(c *gin.Context) {
	h.Service.ResetAvailability()
	c.JSON(http.StatusOK, gin.H{"message": "Availability reset"})
}
