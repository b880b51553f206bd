package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/practice-service/internal/services"
	"github.com/SAP-F-2025/practice-service/internal/session"
	"github.com/SAP-F-2025/practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// ===== REQUEST STRUCTURES =====

type StartSessionRequest struct {
	PracticeSetID uint   `json:"practice_set_id" binding:"required"`
	LearnerID     string `json:"learner_id"`
}

type SelectChoiceRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Text       string `json:"text" binding:"required"`
}

type SelectMatchingItemRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Side       string `json:"side" binding:"required,oneof=left right"`
}

type QuestionRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
}

// ===== HANDLERS =====

// StartSession starts a practice session over a stored practice set
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Starting practice session",
		"practice_set_id", req.PracticeSetID,
		"learner_id", req.LearnerID)

	snap, err := h.sessionService.Start(c.Request.Context(), req.PracticeSetID, req.LearnerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snap)
}

// GetSession returns the current session snapshot
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// SelectChoice toggles a choice option on the active question
func (h *SessionHandler) SelectChoice(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req SelectChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	snap, err := h.sessionService.SelectChoice(c.Request.Context(), id, req.QuestionID, req.Text)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// SelectMatchingItem selects an item on one side of the active matching
// question
func (h *SessionHandler) SelectMatchingItem(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req SelectMatchingItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	snap, err := h.sessionService.SelectMatchingItem(c.Request.Context(), id, req.QuestionID, req.Content, session.Side(req.Side))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// UndoPair removes the most recently committed pair
func (h *SessionHandler) UndoPair(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	snap, err := h.sessionService.UndoLastPair(c.Request.Context(), id, req.QuestionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// ClearPairs removes all committed and pending pairs
func (h *SessionHandler) ClearPairs(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	snap, err := h.sessionService.ClearPairs(c.Request.Context(), id, req.QuestionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// NextQuestion commits the active question and advances
func (h *SessionHandler) NextQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.sessionService.Next(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// PreviousQuestion commits the active question and moves back
func (h *SessionHandler) PreviousQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.sessionService.Previous(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// FinishSession completes the session from any question
func (h *SessionHandler) FinishSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.sessionService.Finish(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// RestartSession resets the session to a fresh run over the same questions
func (h *SessionHandler) RestartSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.sessionService.Restart(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// GetReport returns the per-question result report of a completed session
func (h *SessionHandler) GetReport(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	report, err := h.sessionService.Report(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
