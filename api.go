package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/muhammadolammi/keywordmatch/internal/cache"
	"github.com/muhammadolammi/keywordmatch/internal/keywords"
	"github.com/muhammadolammi/keywordmatch/internal/textsource"
)

type analyzeRequest struct {
	JobText    string `json:"job_text"`
	ResumeText string `json:"resume_text"`
}

type analyzeResponse struct {
	keywords.Result
	MissingText string `json:"missing_text"`
}

type keywordsResponse struct {
	Keywords *keywords.Weights `json:"keywords"`
	Count    int               `json:"count"`
}

// APIHandler serves synchronous analyses over HTTP.
type APIHandler struct {
	matcher *keywords.Matcher
	cache   *cache.KeywordCache
}

func NewAPIHandler(matcher *keywords.Matcher, kwCache *cache.KeywordCache) *APIHandler {
	return &APIHandler{matcher: matcher, cache: kwCache}
}

func NewRouter(h *APIHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.Health)
	api := r.Group("/api")
	{
		api.POST("/analyze", h.Analyze)
		api.POST("/keywords", h.Keywords)
	}
	return r
}

func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Analyze scores a pasted resume against a pasted job description.
func (h *APIHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	jobText, err := textsource.ValidateJobText(req.JobText)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": jobTextError(err)})
		return
	}
	resumeText := strings.TrimSpace(req.ResumeText)
	if resumeText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No resume text provided"})
		return
	}

	ws := h.cache.JobKeywords(c.Request.Context(), h.matcher, jobText)
	res := h.matcher.ScoreMatch(ws, resumeText)
	c.JSON(http.StatusOK, analyzeResponse{Result: res, MissingText: res.MissingText()})
}

// Keywords returns the weighted keywords of a job description.
func (h *APIHandler) Keywords(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	jobText, err := textsource.ValidateJobText(req.JobText)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": jobTextError(err)})
		return
	}

	ws := h.cache.JobKeywords(c.Request.Context(), h.matcher, jobText)
	c.JSON(http.StatusOK, keywordsResponse{Keywords: ws, Count: ws.Len()})
}

func jobTextError(err error) string {
	if errors.Is(err, textsource.ErrJobTextTooShort) {
		return "Paste a job description first (50+ chars)."
	}
	return err.Error()
}
