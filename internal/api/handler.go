// Package api is the thin HTTP boundary: it validates request shape,
// dispatches to the document service, and serializes results and errors.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"document-mentor/internal/document"
	"document-mentor/internal/models"
)

type Handler struct {
	svc *document.Service
}

func NewHandler(svc *document.Service) *Handler {
	return &Handler{svc: svc}
}

type askRequest struct {
	Query string `json:"query"`
}

type challengeInitRequest struct {
	Chunks []models.Chunk `json:"chunks"`
	Num    int            `json:"num"`
}

type evaluateRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (h *Handler) Process(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No filename provided"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer f.Close()

	result, err := h.svc.Process(c.Request.Context(), f, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Document processing failed")
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sections": result.Sections,
		"chunks":   result.Chunks,
		"summary":  result.Summary,
		"stats":    result.Stats,
		"document_info": gin.H{
			"filename":          fileHeader.Filename,
			"total_chunks":      result.Stats.TotalChunks,
			"processing_status": "success",
		},
	})
}

func (h *Handler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No JSON data provided"})
		return
	}

	result, err := h.svc.Answer(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, models.ErrIndexNotBuilt) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "No document has been processed yet. Please upload a document first.",
				"suggestion": "Use the /process endpoint to upload a PDF or TXT file",
			})
			return
		}
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":        result.Answer,
		"sources":       result.Sources,
		"confidence":    result.Confidence,
		"query":         req.Query,
		"response_type": "qa",
	})
}

func (h *Handler) ChallengeInit(c *gin.Context) {
	var req challengeInitRequest
	// Body is optional: stored chunks are used when none are posted.
	_ = c.ShouldBindJSON(&req)

	questions, err := h.svc.InitChallenge(c.Request.Context(), req.Chunks, req.Num)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{
			"error":      err.Error(),
			"suggestion": "Use the /process endpoint to upload a document",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions":       questions,
		"total_questions": len(questions),
		"status":          "success",
	})
}

func (h *Handler) ChallengeEvaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No JSON data provided"})
		return
	}

	result, err := h.svc.EvaluateChallengeAnswer(c.Request.Context(), req.Question, req.Answer)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback":    result.Feedback,
		"confidence":  result.Confidence,
		"question":    req.Question,
		"user_answer": req.Answer,
		"status":      "success",
	})
}

func (h *Handler) DocumentInfo(c *gin.Context) {
	info, err := h.svc.Info()
	if err != nil {
		c.JSON(errorStatus(err), gin.H{
			"error":      err.Error(),
			"suggestion": "Upload a document using the /process endpoint",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_chunks":       info.TotalChunks,
		"sections":           info.Sections,
		"total_sections":     info.TotalSections,
		"total_characters":   info.TotalCharacters,
		"average_chunk_size": info.AverageChunkSize,
		"status":             "available",
	})
}

func (h *Handler) Health(c *gin.Context) {
	documentStatus := "none"
	if info, err := h.svc.Info(); err == nil {
		documentStatus = "loaded"
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"message":      "Backend is running",
			"document":     documentStatus,
			"total_chunks": info.TotalChunks,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"message":  "Backend is running",
		"document": documentStatus,
	})
}

// errorStatus maps user-correctable core errors to 400 and everything else
// to 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrUnsupportedFormat),
		errors.Is(err, models.ErrNoExtractableText),
		errors.Is(err, models.ErrNoSections),
		errors.Is(err, models.ErrNoChunks),
		errors.Is(err, models.ErrIndexNotBuilt),
		errors.Is(err, models.ErrNoDocument),
		errors.Is(err, models.ErrEmptyInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
