package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/muhammadolammi/keywordmatch/internal/database"
	"github.com/muhammadolammi/keywordmatch/internal/keywords"
	"github.com/streadway/amqp"
)

// SessionStore is the part of *database.Queries the worker needs.
type SessionStore interface {
	GetResumesBySession(ctx context.Context, sessionID uuid.UUID) ([]database.Resume, error)
	UpdateSessionStatus(ctx context.Context, arg database.UpdateSessionStatusParams) error
	CreateOrUpdateAnalysesResults(ctx context.Context, arg database.CreateOrUpdateAnalysesResultsParams) error
}

type ObjectFetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

type UpdatePublisher interface {
	Publish(update SessionUpdate) error
}

var retryInitialInterval = 500 * time.Millisecond

// retry retries fn up to attempts times with exponential backoff.
func retry[T any](ctx context.Context, attempts uint, fn func() (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval
	bo.MaxInterval = 5 * time.Second

	result, err := backoff.Retry(ctx, fn, backoff.WithBackOff(bo), backoff.WithMaxTries(attempts))
	if err != nil {
		return result, fmt.Errorf("after %d attempts: %w", attempts, err)
	}
	return result, nil
}

// --- File Download ---

type r2Store struct {
	client *s3.Client
	bucket string
}

func (r *r2Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	return DownloadFromR2(ctx, r.client, r.bucket, key)
}

func DownloadFromR2(ctx context.Context, client *s3.Client, bucket, key string) ([]byte, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	_, err = io.Copy(buf, out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

// --- Status updates ---

type amqpPublisher struct {
	conn *amqp.Connection
}

func (p *amqpPublisher) Publish(update SessionUpdate) error {
	return publishSessionUpdate(p.conn, update)
}

func publishSessionUpdate(rabbitConn *amqp.Connection, update SessionUpdate) error {
	ch, err := rabbitConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return err
	}
	routingKey := fmt.Sprintf("session.%s", update.SessionID)

	return ch.Publish(
		"session_updates", // exchange
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func newSessionUpdate(sessionID uuid.UUID, status, message string) SessionUpdate {
	return SessionUpdate{
		SessionID: sessionID,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// --- Result helpers ---

var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}`)

func extractEmail(text string) string {
	return emailRe.FindString(text)
}

func summarize(res keywords.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d%% of the job keyword weight found in the resume.", res.Score)
	if found := keywords.Terms(head(res.FoundTop, 5)); len(found) > 0 {
		fmt.Fprintf(&b, " Strongest matches: %s.", strings.Join(found, ", "))
	}
	if missing := keywords.Terms(head(res.MissingTop, 5)); len(missing) > 0 {
		fmt.Fprintf(&b, " Top gaps: %s.", strings.Join(missing, ", "))
	}
	return b.String()
}

func head(ks []keywords.Keyword, n int) []keywords.Keyword {
	if len(ks) > n {
		return ks[:n]
	}
	return ks
}
