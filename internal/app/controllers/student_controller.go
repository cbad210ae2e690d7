package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/schoolbook/marksdesk/internal/app/models/dto"
	"github.com/schoolbook/marksdesk/internal/app/services"
	"github.com/schoolbook/marksdesk/internal/middleware"
)

// StudentController handles student registry endpoints
type StudentController struct {
	studentService services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// CreateStudent registers a student
// @Summary Create a student
// @Description Registers a student and allocates the next STU-NNN identifier
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 409 {object} dto.ErrorResponse "Student ID already allocated"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(student))
}

// ListStudents lists and searches students
// @Summary List students
// @Description Lists students ordered by student ID, at most 1000
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring of student ID or name, case-insensitive"
// @Param grade query string false "Exact grade"
// @Param active_only query bool false "Only active students" default(true)
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	var q dto.StudentListQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}

	students, err := c.studentService.List(ctx.Request.Context(), &q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// GetStudent returns one student
// @Summary Get a student
// @Description Looks the student up by student ID first, then by internal ID
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID (STU-001) or internal ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.studentService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// UpdateStudent applies a partial update
// @Summary Update a student
// @Description Updates only the fields present in the body
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID (STU-001) or internal ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Updated student"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// DeleteStudent soft-deletes a student
// @Summary Deactivate a student
// @Description Sets isActive to false. Repeating the call succeeds.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID (STU-001) or internal ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Deactivated student"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	student, err := c.studentService.SoftDelete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("studentId", student.StudentID).Str("by", middleware.CurrentUsername(ctx)).Msg("Student deactivated")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// GetStudentProfile returns a student with its marks and statistics
// @Summary Student profile
// @Description Returns the student, its active marks records and their statistics
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID (STU-001) or internal ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfileResponse} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/profile [get]
func (c *StudentController) GetStudentProfile(ctx *gin.Context) {
	profile, err := c.studentService.Profile(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}
