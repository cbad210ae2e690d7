package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/schoolbook/marksdesk/internal/app/controllers"
	"github.com/schoolbook/marksdesk/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth    *controllers.AuthController
	Student *controllers.StudentController
	Marks   *controllers.MarksController
	Health  *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/", c.Health.Root)
	router.GET("/health", c.Health.Health)

	// --- Public Auth routes ---
	auth := router.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/verify", c.Auth.Verify)
	}

	// --- Authenticated Routes Group ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	students := authenticated.Group("/students")
	{
		students.POST("", c.Student.CreateStudent)
		students.GET("", c.Student.ListStudents)
		students.GET("/:id", c.Student.GetStudent)
		students.PUT("/:id", c.Student.UpdateStudent)
		students.DELETE("/:id", c.Student.DeleteStudent)
		students.GET("/:id/profile", c.Student.GetStudentProfile)
	}

	marks := authenticated.Group("/marks")
	{
		marks.POST("", c.Marks.CreateMarks)
		marks.GET("", c.Marks.ListMarks)
		marks.GET("/stats/summary", c.Marks.GetSummary)
		marks.GET("/student/:id", c.Marks.ListStudentMarks)
		marks.GET("/:id", c.Marks.GetMarks)
		marks.PUT("/:id", c.Marks.UpdateMarks)
		marks.DELETE("/:id", c.Marks.DeleteMarks)
		marks.DELETE("/:id/subject/:name", c.Marks.DeleteSubject)
	}
}
