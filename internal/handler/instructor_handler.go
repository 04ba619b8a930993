package handler

import (
	"errors"
	"net/http"

	"github.com/aulavia/examenes-backend/internal/middleware"
	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/aulavia/examenes-backend/internal/response"
	"github.com/aulavia/examenes-backend/internal/service"
	"github.com/aulavia/examenes-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// InstructorHandler handles instructor-facing token management.
type InstructorHandler struct {
	tokenService *service.TokenService
}

// NewInstructorHandler creates a new InstructorHandler.
func NewInstructorHandler(tokenService *service.TokenService) *InstructorHandler {
	return &InstructorHandler{tokenService: tokenService}
}

// CreateToken godoc
// POST /api/instructor/tokens
// Generates a one-time exam access token for the authenticated instructor.
func (h *InstructorHandler) CreateToken(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateTokenRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, err := h.tokenService.Create(c.Request.Context(), claims.InstructorID, &req)
	if err != nil {
		if errors.Is(err, service.ErrTokenCreationExhausted) {
			response.Fail(c, http.StatusInternalServerError, response.ErrTokenCreationRetry)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"token": token.CodigoToken,
		"vence": token.FechaExpiracion,
	})
}
