package main

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/keywordmatch/internal/cache"
	"github.com/muhammadolammi/keywordmatch/internal/keywords"
	"github.com/muhammadolammi/keywordmatch/internal/textsource"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type WorkerConfig struct {
	DB          SessionStore
	Objects     ObjectFetcher
	Updates     UpdatePublisher
	Matcher     *keywords.Matcher
	Cache       *cache.KeywordCache
	OCR         *textsource.OCRClient // nil when no OCR service is configured
	HTTPClient  *http.Client
	RABBITMQUrl string
}

type AnalysesResult struct {
	ResumeID         uuid.UUID          `json:"resume_id"`
	OriginalFilename string             `json:"original_filename"`
	CandidateEmail   string             `json:"candidate_email"`
	MatchScore       int                `json:"match_score"`
	FoundKeywords    []keywords.Keyword `json:"found_keywords"`
	MissingKeywords  []keywords.Keyword `json:"missing_keywords"`
	RelevantSkills   []string           `json:"relevant_skills"`
	MissingSkills    []string           `json:"missing_skills"`
	MissingText      string             `json:"missing_text"`
	Summary          string             `json:"summary"`
	UsedOCR          bool               `json:"used_ocr"`
	// Error result entry
	IsErrorResult bool   `json:"is_error_result"`
	Error         string `json:"error,omitempty"`
}

type AnalysesResults struct {
	ID        uuid.UUID        `json:"id"`
	Results   []AnalysesResult `json:"results" db:"results"`
	CreatedAt time.Time        `json:"created_at"`
	SessionID uuid.UUID        `json:"session_id"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type Session struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Name           string    `json:"name"`
	UserID         uuid.UUID `json:"user_id"`
	Status         string    `json:"status"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description"`
	JobURL         string    `json:"job_url,omitempty"`
}

type SessionUpdate struct {
	SessionID uuid.UUID `json:"session_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
