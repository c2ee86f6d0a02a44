package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/logo-generator/internal/middleware"
	"github.com/fleveque/logo-generator/internal/model"
	"github.com/fleveque/logo-generator/internal/service"
)

// DetailInvalidBody is returned with 422 when the body isn't a JSON object
// with a string `text`.
const DetailInvalidBody = "invalid request body"

// GenerateHandler handles logo generation requests.
type GenerateHandler struct {
	generator *service.Generator
	logger    *zap.Logger
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(generator *service.Generator, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{
		generator: generator,
		logger:    logger,
	}
}

// Generate validates the request and returns the generated result.
// Route: POST /generate  body: {"text": "Acme Corp"}
//
//	200 {"echo": "Acme Corp"}
//	400 {"detail": "text is required"}     text missing, null or ""
//	422 {"detail": "invalid request body"} body isn't JSON / text isn't a string
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req model.LogoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("rejecting malformed generate body",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{Detail: DetailInvalidBody})
		return
	}

	meta := service.RequestMeta{
		ClientIP:  c.ClientIP(),
		RequestID: middleware.GetRequestID(c),
	}

	resp, err := h.generator.Generate(c.Request.Context(), req, meta)
	if err != nil {
		if errors.Is(err, service.ErrTextRequired) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Detail: err.Error()})
			return
		}
		h.logger.Error("generating logo", zap.String("request_id", meta.RequestID), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Detail: "internal error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
