package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/muhammadolammi/keywordmatch/internal/cache"
	"github.com/muhammadolammi/keywordmatch/internal/config"
	"github.com/muhammadolammi/keywordmatch/internal/database"
	"github.com/muhammadolammi/keywordmatch/internal/keywords"
	"github.com/muhammadolammi/keywordmatch/internal/logger"
	"github.com/muhammadolammi/keywordmatch/internal/textsource"
	"github.com/streadway/amqp"
)

func main() {
	cfg, err := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		slog.Error("error opening db", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2.AccessKey, cfg.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Error("error creating aws config", slog.Any("error", err))
		os.Exit(1)
	}
	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2.Endpoint())
	})

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		slog.Error("error connecting to RabbitMQ", slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()

	kwCache := cache.New(ctx, cfg.RedisURL, cfg.KeywordCacheTTL)
	defer kwCache.Close()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	var ocr *textsource.OCRClient
	if cfg.OCRAPIURL != "" {
		ocr = textsource.NewOCRClient(cfg.OCRAPIURL, &http.Client{Timeout: 90 * time.Second})
		slog.Info("ocr fallback enabled", slog.String("url", ocr.BaseURL()))
	}

	matcher := keywords.NewMatcher(cfg.Limits)

	workerConfig := WorkerConfig{
		DB:          database.New(db),
		Objects:     &r2Store{client: s3Client, bucket: cfg.R2.Bucket},
		Updates:     &amqpPublisher{conn: conn},
		Matcher:     matcher,
		Cache:       kwCache,
		OCR:         ocr,
		HTTPClient:  httpClient,
		RABBITMQUrl: cfg.RabbitMQURL,
	}

	if cfg.HTTPPort != "" {
		srv := startAPI(cfg.HTTPPort, NewAPIHandler(matcher, kwCache))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	slog.Info("starting consumer worker pool",
		slog.Int("workers", cfg.Workers),
		slog.Int("job_text_limit", matcher.Limits().JobText),
		slog.Int("resume_text_limit", matcher.Limits().ResumeText),
	)
	workerConfig.StartConsumerWorkerPool(ctx, cfg.Workers)
}

func startAPI(port string, h *APIHandler) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("api server listening", slog.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api server failed", slog.Any("error", err))
		}
	}()
	return srv
}
