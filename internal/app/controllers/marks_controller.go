package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/schoolbook/marksdesk/internal/app/models/dto"
	"github.com/schoolbook/marksdesk/internal/app/services"
	"github.com/schoolbook/marksdesk/internal/middleware"
)

// MarksController handles marks ledger endpoints
type MarksController struct {
	marksService services.MarksService
	logger       zerolog.Logger
}

// NewMarksController creates a new MarksController
func NewMarksController(marksService services.MarksService, logger zerolog.Logger) *MarksController {
	return &MarksController{
		marksService: marksService,
		logger:       logger,
	}
}

// CreateMarks records a student's marks for a term
// @Summary Create a marks record
// @Description Records marks for an existing student. One record per student, term and year.
// @Tags marks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMarksRequest true "Marks record"
// @Success 201 {object} dto.APIResponse{data=models.MarksRecord} "Marks record created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Marks already exist for this term and year"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /marks [post]
func (c *MarksController) CreateMarks(ctx *gin.Context) {
	var req dto.CreateMarksRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.marksService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(record))
}

// ListMarks lists marks records
// @Summary List marks records
// @Description Lists records newest year first, then by term, at most 1000
// @Tags marks
// @Produce json
// @Security BearerAuth
// @Param term query string false "Exact term"
// @Param year query int false "Exact year"
// @Param active_only query bool false "Only active records" default(true)
// @Success 200 {object} dto.APIResponse{data=[]models.MarksRecord} "Marks records"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /marks [get]
func (c *MarksController) ListMarks(ctx *gin.Context) {
	var q dto.MarksListQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}

	records, err := c.marksService.List(ctx.Request.Context(), &q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(records))
}

// ListStudentMarks lists the active records of one student
// @Summary List a student's marks
// @Description Lists the student's active records, at most 100
// @Tags marks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID (STU-001)"
// @Param term query string false "Exact term"
// @Param year query int false "Exact year"
// @Success 200 {object} dto.APIResponse{data=[]models.MarksRecord} "Marks records"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /marks/student/{id} [get]
func (c *MarksController) ListStudentMarks(ctx *gin.Context) {
	var q dto.StudentMarksQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}

	records, err := c.marksService.ListForStudent(ctx.Request.Context(), ctx.Param("id"), &q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(records))
}

// GetMarks returns one marks record
// @Summary Get a marks record
// @Tags marks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Marks record ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.MarksRecord} "Marks record"
// @Failure 400 {object} dto.ErrorResponse "Invalid marks ID format"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 404 {object} dto.ErrorResponse "Marks not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /marks/{id} [get]
func (c *MarksController) GetMarks(ctx *gin.Context) {
	record, err := c.marksService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(record))
}

// UpdateMarks applies a partial update
// @Summary Update a marks record
// @Description Updates term, year, subjects or isActive. A subjects list replaces the stored one.
// @Tags marks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Marks record ID" Format(uuid)
// @Param request body dto.UpdateMarksRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.MarksRecord} "Updated marks record"
// @Failure 400 {object} dto.ErrorResponse "Validation error or invalid marks ID format"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 404 {object} dto.ErrorResponse "Marks not found"
// @Failure 409 {object} dto.ErrorResponse "Marks already exist for this term and year"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /marks/{id} [put]
func (c *MarksController) UpdateMarks(ctx *gin.Context) {
	var req dto.UpdateMarksRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.marksService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(record))
}

// DeleteMarks soft-deletes a marks record
// @Summary Deactivate a marks record
// @Description Sets the record's isActive to false. Subject flags are unchanged.
// @Tags marks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Marks record ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.MarksRecord} "Deactivated marks record"
// @Failure 400 {object} dto.ErrorResponse "Invalid marks ID format"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 404 {object} dto.ErrorResponse "Marks not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /marks/{id} [delete]
func (c *MarksController) DeleteMarks(ctx *gin.Context) {
	record, err := c.marksService.SoftDelete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(record))
}

// DeleteSubject soft-deletes one subject of a marks record
// @Summary Deactivate a subject
// @Description Deactivates the first subject whose name matches, ignoring case
// @Tags marks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Marks record ID" Format(uuid)
// @Param name path string true "Subject name"
// @Success 200 {object} dto.APIResponse{data=models.MarksRecord} "Updated marks record"
// @Failure 400 {object} dto.ErrorResponse "Invalid marks ID format"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 404 {object} dto.ErrorResponse "Marks or subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /marks/{id}/subject/{name} [delete]
func (c *MarksController) DeleteSubject(ctx *gin.Context) {
	record, err := c.marksService.SoftDeleteSubject(ctx.Request.Context(), ctx.Param("id"), ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(record))
}

// GetSummary returns aggregate marks statistics
// @Summary Marks summary
// @Description Counts active students and averages the active subjects of active records
// @Tags marks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MarksSummaryResponse} "Summary"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /marks/stats/summary [get]
func (c *MarksController) GetSummary(ctx *gin.Context) {
	summary, err := c.marksService.Summary(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary))
}
