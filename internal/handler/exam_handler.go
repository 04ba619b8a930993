package handler

import (
	"errors"
	"net/http"

	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/aulavia/examenes-backend/internal/response"
	"github.com/aulavia/examenes-backend/internal/service"
	"github.com/aulavia/examenes-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExamHandler handles the public exam-taking endpoints.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// Start godoc
// POST /examen/iniciar
// Redeems a one-time token and starts the attempt, returning question 1.
func (h *ExamHandler) Start(c *gin.Context) {
	var req model.StartExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.examService.Start(c.Request.Context(), req.NombreCompleto, req.CodigoToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenNotFound):
			response.Fail(c, http.StatusUnauthorized, response.ErrExamTokenNotFound)
		case errors.Is(err, service.ErrTokenUsed):
			response.Fail(c, http.StatusUnauthorized, response.ErrExamTokenUsed)
		case errors.Is(err, service.ErrTokenExpired):
			response.Fail(c, http.StatusUnauthorized, response.ErrExamTokenExpired)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// CurrentQuestion godoc
// GET /examen/:intentoId/pregunta-actual
// Returns the first unanswered question, or the final result if terminal.
func (h *ExamHandler) CurrentQuestion(c *gin.Context) {
	intentoID, err := uuid.Parse(c.Param("intentoId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	progress, result, err := h.examService.CurrentQuestion(c.Request.Context(), intentoID)
	if err != nil {
		failAttempt(c, err)
		return
	}

	if result != nil {
		response.Success(c, http.StatusOK, result)
		return
	}
	response.Success(c, http.StatusOK, progress)
}

// Answer godoc
// POST /examen/responder
// Records one answer strictly in order; serves the next question or, after
// the last position, the final result.
func (h *ExamHandler) Answer(c *gin.Context) {
	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	progress, result, err := h.examService.Answer(c.Request.Context(), req.IntentoID, req.PreguntaIntentoID, req.OpcionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttemptNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
		case errors.Is(err, service.ErrExamFinished):
			response.Fail(c, http.StatusConflict, response.ErrExamFinished)
		case errors.Is(err, service.ErrOutOfOrder):
			response.Fail(c, http.StatusConflict, response.ErrOutOfOrder)
		case errors.Is(err, service.ErrAlreadyAnswered):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyAnswered)
		case errors.Is(err, service.ErrInvalidQuestion):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidQuestion)
		case errors.Is(err, service.ErrInvalidOption):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidOption)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	if result != nil {
		response.Success(c, http.StatusOK, result)
		return
	}
	response.Success(c, http.StatusOK, progress)
}

// Finalize godoc
// POST /examen/finalizar
// Explicit manual termination; idempotent on terminal attempts.
func (h *ExamHandler) Finalize(c *gin.Context) {
	var req model.FinalizeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.examService.Finalize(c.Request.Context(), req.IntentoID)
	if err != nil {
		failAttempt(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Result godoc
// GET /examen/:intentoId/resultado
// Returns the attempt outcome; nota and aprobado are null while in progress.
func (h *ExamHandler) Result(c *gin.Context) {
	intentoID, err := uuid.Parse(c.Param("intentoId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.examService.Result(c.Request.Context(), intentoID)
	if err != nil {
		failAttempt(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// failAttempt maps the attempt-read error cases shared by several endpoints.
func failAttempt(c *gin.Context, err error) {
	if errors.Is(err, service.ErrAttemptNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
		return
	}
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
