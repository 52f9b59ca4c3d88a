package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/muhammadolammi/keywordmatch/internal/database"
	"github.com/muhammadolammi/keywordmatch/internal/keywords"
	"github.com/muhammadolammi/keywordmatch/internal/logger"
	"github.com/muhammadolammi/keywordmatch/internal/textsource"
	"github.com/streadway/amqp"
)

const (
	sessionsQueue      = "sessions"
	statusWriteTimeout = 10 * time.Second
)

func errorResult(resume database.Resume, msg string) AnalysesResult {
	return AnalysesResult{
		ResumeID:         resume.ID,
		OriginalFilename: resume.OriginalFilename,
		IsErrorResult:    true,
		Error:            msg,
	}
}

func matchResult(resume database.Resume, rawText string, res keywords.Result) AnalysesResult {
	return AnalysesResult{
		ResumeID:         resume.ID,
		OriginalFilename: resume.OriginalFilename,
		CandidateEmail:   extractEmail(rawText),
		MatchScore:       res.Score,
		FoundKeywords:    res.FoundTop,
		MissingKeywords:  res.MissingTop,
		RelevantSkills:   keywords.Terms(res.FoundTop),
		MissingSkills:    keywords.Terms(res.MissingTop),
		MissingText:      res.MissingText(),
		Summary:          summarize(res),
	}
}

// resolveJobText returns the session's job description, scraping the
// posting page when the stored description is unusable.
func resolveJobText(ctx context.Context, currentSession Session, workerConfig *WorkerConfig) (string, error) {
	text, err := textsource.ValidateJobText(currentSession.JobDescription)
	if err == nil {
		return text, nil
	}
	if currentSession.JobURL == "" {
		return "", err
	}

	logger.FromContext(ctx).Info("fetching job page", slog.String("url", currentSession.JobURL))
	page, fetchErr := retry(ctx, 2, func() (string, error) {
		return textsource.FetchJobText(ctx, workerConfig.HTTPClient, currentSession.JobURL)
	})
	if fetchErr != nil {
		return "", fmt.Errorf("job description unavailable: %w", errors.Join(err, fetchErr))
	}
	return textsource.ValidateJobText(page)
}

// resumeText downloads and extracts one resume, falling back to the OCR
// service for scanned PDFs.
func resumeText(ctx context.Context, resume database.Resume, workerConfig *WorkerConfig) (text string, usedOCR bool, err error) {
	fileBytes, err := retry(ctx, 3, func() ([]byte, error) {
		return workerConfig.Objects.Fetch(ctx, resume.ObjectKey)
	})
	if err != nil {
		return "", false, fmt.Errorf("file download error: %w", err)
	}

	text, err = textsource.ExtractResumeText(resume.Mime, fileBytes)
	isPDF := strings.HasPrefix(resume.Mime, textsource.MimePDF)
	if err != nil && (!isPDF || workerConfig.OCR == nil) {
		return "", false, fmt.Errorf("text extraction error: %w", err)
	}

	// Scanned or unreadable PDFs go through the OCR service when there is one.
	if isPDF && workerConfig.OCR != nil && (err != nil || textsource.NeedsOCR(text)) {
		ocrText, ocrErr := workerConfig.OCR.Extract(ctx, resume.OriginalFilename, fileBytes)
		if ocrErr != nil {
			return "", false, fmt.Errorf("ocr error: %w", errors.Join(err, ocrErr))
		}
		text, usedOCR = ocrText, true
	}

	text = textsource.ClampExtracted(text)
	if text == "" {
		return "", usedOCR, errors.New("no text found in resume")
	}
	return text, usedOCR, nil
}

// analyzeSession scores every resume of a session against its job
// description and stores the results. A failing resume becomes an error
// entry; only session level failures are returned.
func analyzeSession(ctx context.Context, currentSession Session, workerConfig *WorkerConfig) (*AnalysesResults, error) {
	log := logger.FromContext(ctx)

	jobText, err := resolveJobText(ctx, currentSession, workerConfig)
	if err != nil {
		return nil, err
	}
	jobKeywords := workerConfig.Cache.JobKeywords(ctx, workerConfig.Matcher, jobText)
	log.Debug("job keywords extracted", slog.Int("keywords", jobKeywords.Len()))

	resumes, err := workerConfig.DB.GetResumesBySession(ctx, currentSession.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting resumes for session: %v, err: %w", currentSession.ID, err)
	}

	results := &AnalysesResults{
		SessionID: currentSession.ID,
		Results:   make([]AnalysesResult, 0, len(resumes)),
	}

	for _, resume := range resumes {
		text, usedOCR, err := resumeText(ctx, resume, workerConfig)
		if err != nil {
			log.Warn("resume skipped", slog.String("object_key", resume.ObjectKey), slog.Any("error", err))
			results.Results = append(results.Results, errorResult(resume, err.Error()))
			continue
		}

		res := workerConfig.Matcher.ScoreMatch(jobKeywords, text)
		entry := matchResult(resume, text, res)
		entry.UsedOCR = usedOCR
		results.Results = append(results.Results, entry)
	}
	log.Info("session analyzed", slog.Int("resumes", len(resumes)))

	// save final result to db
	resultsJSON, err := json.Marshal(results.Results)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyses results: %w", err)
	}

	_, err = retry(ctx, 3, func() (struct{}, error) {
		return struct{}{}, workerConfig.DB.CreateOrUpdateAnalysesResults(ctx, database.CreateOrUpdateAnalysesResultsParams{
			Results:   resultsJSON,
			SessionID: results.SessionID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save analyses results after retries: %w", err)
	}

	return results, nil
}

// setStatus records a session status in the database and announces it.
// The write outlives a cancelled ctx so shutdown never strands a session
// in processing.
func setStatus(ctx context.Context, workerConfig *WorkerConfig, session Session, status, message string) {
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()
	if err := workerConfig.DB.UpdateSessionStatus(ctx, database.UpdateSessionStatusParams{
		Status: status,
		ID:     session.ID,
	}); err != nil {
		log.Warn("failed to update session status", slog.String("status", status), slog.Any("error", err))
	}
	if err := workerConfig.Updates.Publish(newSessionUpdate(session.ID, status, message)); err != nil {
		log.Warn("failed to publish update", slog.String("status", status), slog.Any("error", err))
	}
}

// handleMessage processes one queue message end to end.
func handleMessage(ctx context.Context, workerID int, body []byte, workerConfig *WorkerConfig) {
	session := Session{}
	if err := json.Unmarshal(body, &session); err != nil {
		slog.Error("error unmarshalling message body", slog.Int("worker", workerID), slog.Any("error", err))
		setStatus(ctx, workerConfig, session, StatusFailed, "analysis failed")
		return
	}

	ctx = logger.WithSessionID(ctx, session.ID.String())
	log := logger.FromContext(ctx)
	log.Info("processing session", slog.Int("worker", workerID))

	setStatus(ctx, workerConfig, session, StatusProcessing, "analysis started")

	if _, err := analyzeSession(ctx, session, workerConfig); err != nil {
		log.Error("analysis failed", slog.Any("error", err))
		msg := "analysis failed"
		if errors.Is(err, textsource.ErrJobTextTooShort) {
			msg = "job description too short"
		}
		setStatus(ctx, workerConfig, session, StatusFailed, msg)
		return
	}

	setStatus(ctx, workerConfig, session, StatusCompleted, "analysis completed")
}

func worker(ctx context.Context, id int, workerConfig *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()
	//    to consume message on the queue
	conn, err := amqp.Dial(workerConfig.RABBITMQUrl)
	if err != nil {
		slog.Error("error dialling rabbitmq", slog.Int("worker", id), slog.Any("error", err))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		slog.Error("error connecting to rabbitmq channel", slog.Int("worker", id), slog.Any("error", err))
		return
	}
	defer ch.Close()
	_, err = ch.QueueDeclare(
		sessionsQueue, // queue name
		true,          // durable (survives broker restarts)
		false,         // auto-delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		slog.Error("failed to declare queue", slog.Int("worker", id), slog.Any("error", err))
		return
	}

	msgs, err := ch.Consume(
		sessionsQueue, // queue name
		"",            // consumer tag
		true,          // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		slog.Error("error consuming rabbitmq messages", slog.Int("worker", id), slog.Any("error", err))
		return
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopping", slog.Int("worker", id))
			return
		case msg, ok := <-msgs:
			if !ok {
				slog.Warn("delivery channel closed", slog.Int("worker", id))
				return
			}
			handleMessage(ctx, id, msg.Body, workerConfig)
		}
	}
}

// StartConsumerWorkerPool runs numWorkers consumers and blocks until they
// all stop.
func (workerConfig *WorkerConfig) StartConsumerWorkerPool(ctx context.Context, numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		slog.Info("worker started", slog.Int("worker", i+1))
		go worker(ctx, i+1, workerConfig, &wg)
	}
	wg.Wait() // block until all workers finish
}
