package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"document-mentor/internal/document"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(svc *document.Service) *gin.Engine {
	h := NewHandler(svc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.POST("/process", h.Process)
	r.POST("/ask", h.Ask)
	r.POST("/challenge/init", h.ChallengeInit)
	r.POST("/challenge/evaluate", h.ChallengeEvaluate)
	r.GET("/document/info", h.DocumentInfo)
	r.GET("/health", h.Health)

	return r
}
