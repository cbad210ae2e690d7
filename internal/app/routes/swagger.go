package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/schoolbook/marksdesk/docs"
)

// SwaggerIndex is the UI entry point advertised by the root endpoint
const SwaggerIndex = "/swagger/index.html"

// SetupSwagger serves the API document and UI under /swagger. The bearer token
// entered in the UI is kept across reloads.
func SetupSwagger(router *gin.Engine) {
	handler := ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
		ginSwagger.DefaultModelsExpandDepth(1),
		ginSwagger.DocExpansion("list"),
		ginSwagger.PersistAuthorization(true),
	)
	router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, SwaggerIndex)
	})
	router.GET("/swagger/*any", handler)
}
