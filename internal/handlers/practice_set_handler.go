package handlers

import (
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/SAP-F-2025/practice-service/internal/services"
	"github.com/SAP-F-2025/practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type PracticeSetHandler struct {
	BaseHandler
	setService services.PracticeSetService
}

func NewPracticeSetHandler(setService services.PracticeSetService, logger utils.Logger) *PracticeSetHandler {
	return &PracticeSetHandler{
		BaseHandler: NewBaseHandler(logger),
		setService:  setService,
	}
}

// ===== REQUEST STRUCTURES =====

type CreatePracticeSetRequest struct {
	Title           string                  `json:"title" binding:"required"`
	Description     *string                 `json:"description"`
	CreatedBy       string                  `json:"created_by"`
	ChoiceQuestions []ChoiceQuestionRequest `json:"choice_questions"`
	MatchingPairs   []MatchingPairRequest   `json:"matching_pairs"`
}

type ChoiceQuestionRequest struct {
	Prompt          string                `json:"prompt" binding:"required"`
	Points          int                   `json:"points"`
	TimeLimit       int                   `json:"time_limit"`
	Hint            *string               `json:"hint"`
	MultipleCorrect bool                  `json:"multiple_correct"`
	Options         []ChoiceOptionRequest `json:"options" binding:"required"`
}

type ChoiceOptionRequest struct {
	Text    string `json:"text" binding:"required"`
	Correct bool   `json:"correct"`
}

type MatchingPairRequest struct {
	Points       int    `json:"points"`
	TimeLimit    int    `json:"time_limit"`
	LeftContent  string `json:"left_content" binding:"required"`
	LeftType     string `json:"left_type"`
	RightContent string `json:"right_content" binding:"required"`
	RightType    string `json:"right_type"`
}

func (r *CreatePracticeSetRequest) toModel() (*models.PracticeSet, error) {
	set := &models.PracticeSet{
		Title:       r.Title,
		Description: r.Description,
		CreatedBy:   r.CreatedBy,
	}

	for i, q := range r.ChoiceQuestions {
		cq := models.ChoiceQuestion{
			Position:        i,
			Prompt:          q.Prompt,
			Points:          q.Points,
			TimeLimit:       q.TimeLimit,
			Hint:            q.Hint,
			MultipleCorrect: q.MultipleCorrect,
		}
		options := make([]models.ChoiceOption, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, models.ChoiceOption{Text: opt.Text, Correct: opt.Correct})
		}
		if err := cq.EncodeOptions(options); err != nil {
			return nil, err
		}
		set.ChoiceQuestions = append(set.ChoiceQuestions, cq)
	}

	for i, p := range r.MatchingPairs {
		leftType := models.ContentType(p.LeftType)
		if leftType == "" {
			leftType = models.ContentText
		}
		rightType := models.ContentType(p.RightType)
		if rightType == "" {
			rightType = models.ContentText
		}
		set.MatchingPairs = append(set.MatchingPairs, models.MatchingPair{
			Position:     i,
			Points:       p.Points,
			TimeLimit:    p.TimeLimit,
			LeftContent:  p.LeftContent,
			LeftType:     leftType,
			RightContent: p.RightContent,
			RightType:    rightType,
		})
	}

	return set, nil
}

// ===== HANDLERS =====

// CreatePracticeSet creates a new practice set with its question pools
func (h *PracticeSetHandler) CreatePracticeSet(c *gin.Context) {
	var req CreatePracticeSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	set, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid question options",
			Details: err.Error(),
		})
		return
	}

	if err := h.setService.Create(c.Request.Context(), set); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, set)
}

// ListPracticeSets lists practice sets with optional search and pagination
func (h *PracticeSetHandler) ListPracticeSets(c *gin.Context) {
	filters := repositories.PracticeSetFilters{
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	if createdBy := c.Query("created_by"); createdBy != "" {
		filters.CreatedBy = &createdBy
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filters.Offset = offset
	}

	sets, total, err := h.setService.List(c.Request.Context(), filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"practice_sets": sets,
		"total":         total,
		"limit":         filters.Limit,
		"offset":        filters.Offset,
	})
}

// GetPracticeSet retrieves a practice set with its question pools
func (h *PracticeSetHandler) GetPracticeSet(c *gin.Context) {
	id := ParseUintParam(c, "id")
	if id == 0 {
		return
	}

	set, err := h.setService.GetByIDWithQuestions(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, set)
}

// DeletePracticeSet soft-deletes a practice set
func (h *PracticeSetHandler) DeletePracticeSet(c *gin.Context) {
	id := ParseUintParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.setService.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Practice set deleted"})
}

// ImportPracticeSet creates a practice set from an uploaded xlsx workbook
func (h *PracticeSetHandler) ImportPracticeSet(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing workbook file",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to open uploaded file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing practice set", "filename", fileHeader.Filename)

	title := c.PostForm("title")
	createdBy := c.PostForm("created_by")

	set, err := h.setService.ImportXLSX(c.Request.Context(), file, title, createdBy)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, set)
}
