package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"clicksign-esign/internal/domain/entity"
	"clicksign-esign/internal/domain/repository"
	"clicksign-esign/internal/infrastructure/database"
	"clicksign-esign/pkg/clicksign"
)

const (
	maxStoredBodyLength = 10000
	defaultLogLimit     = 50
	maxLogLimit         = 500
)

type apiLogRepository struct {
	db     *database.Database
	logger *zap.Logger
}

// NewAPILogRepository creates a new API log repository
func NewAPILogRepository(db *database.Database, logger *zap.Logger) repository.APILogRepository {
	return &apiLogRepository{
		db:     db,
		logger: logger,
	}
}

// Save saves an API log entry to the database
func (r *apiLogRepository) Save(ctx context.Context, log *entity.APILog) error {
	query := `
		INSERT INTO api_logs (endpoint, method, request_body, response_body, status_code, duration_ms, failed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		log.Endpoint,
		log.Method,
		log.RequestBody,
		log.ResponseBody,
		log.StatusCode,
		log.Duration,
		log.Failed,
		log.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to save API log",
			zap.String("endpoint", log.Endpoint),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save API log: %w", err)
	}

	return nil
}

func (r *apiLogRepository) FindRecent(ctx context.Context, limit int) ([]entity.APILog, error) {
	query := `
		SELECT id, endpoint, method, request_body, response_body, status_code, duration_ms, failed, created_at
		FROM api_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	return r.query(ctx, query, clampLimit(limit))
}

func (r *apiLogRepository) Search(ctx context.Context, term string, limit int) ([]entity.APILog, error) {
	query := `
		SELECT id, endpoint, method, request_body, response_body, status_code, duration_ms, failed, created_at
		FROM api_logs
		WHERE endpoint ILIKE $1 OR request_body ILIKE $1 OR response_body ILIKE $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	return r.query(ctx, query, "%"+term+"%", clampLimit(limit))
}

func (r *apiLogRepository) query(ctx context.Context, query string, args ...interface{}) ([]entity.APILog, error) {
	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query API logs: %w", err)
	}
	defer rows.Close()

	logs := []entity.APILog{}
	for rows.Next() {
		var log entity.APILog
		if err := rows.Scan(
			&log.ID,
			&log.Endpoint,
			&log.Method,
			&log.RequestBody,
			&log.ResponseBody,
			&log.StatusCode,
			&log.Duration,
			&log.Failed,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan API log: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate API logs: %w", err)
	}

	return logs, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLogLimit
	}
	if limit > maxLogLimit {
		return maxLogLimit
	}
	return limit
}

// ExchangeRecorder stores every Clicksign exchange as an API log without
// blocking the request.
type ExchangeRecorder struct {
	logs   repository.APILogRepository
	logger *zap.Logger
}

func NewExchangeRecorder(logs repository.APILogRepository, logger *zap.Logger) *ExchangeRecorder {
	return &ExchangeRecorder{logs: logs, logger: logger}
}

func (r *ExchangeRecorder) RecordExchange(_ context.Context, ex clicksign.Exchange) {
	apiLog := NewAPILog(ex, time.Now())

	// Save asynchronously to not block the request
	go func() {
		if err := r.logs.Save(context.Background(), apiLog); err != nil {
			r.logger.Warn("Failed to save API log to database",
				zap.String("endpoint", apiLog.Endpoint),
				zap.Error(err),
			)
		}
	}()
}

// NewAPILog converts an exchange into a stored log, eliding embedded base64
// contents and capping body size.
func NewAPILog(ex clicksign.Exchange, now time.Time) *entity.APILog {
	return &entity.APILog{
		Endpoint:     ex.Endpoint,
		Method:       ex.Method,
		RequestBody:  capBody(clicksign.TruncateBase64InJSON(string(ex.RequestBody), 100)),
		ResponseBody: capBody(string(ex.ResponseBody)),
		StatusCode:   ex.StatusCode,
		Duration:     ex.Duration.Milliseconds(),
		Failed:       ex.Failed,
		CreatedAt:    now,
	}
}

func capBody(s string) string {
	if len(s) > maxStoredBodyLength {
		return s[:maxStoredBodyLength] + "... [truncated]"
	}
	return s
}
