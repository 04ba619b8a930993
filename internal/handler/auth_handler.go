package handler

import (
	"errors"
	"net/http"

	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/aulavia/examenes-backend/internal/response"
	"github.com/aulavia/examenes-backend/internal/service"
	"github.com/aulavia/examenes-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles instructor authentication.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// POST /api/instructor/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.InstructorLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, instructor, err := h.authService.Login(c.Request.Context(), req.Usuario, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"instructor": gin.H{
			"id":      instructor.ID,
			"usuario": instructor.Usuario,
			"nombre":  instructor.NombreCompleto,
		},
	})
}
