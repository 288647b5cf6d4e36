package service

import (
	"context"
	"errors"
	"sync/atomic"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
)

// ErrStoreUnavailable is returned by every record operation while the store is degraded.
var ErrStoreUnavailable = errors.New("record store is unavailable")

// RecordService exposes the record store to the delivery layer and tracks whether it is usable.
type RecordService interface {
	// Bootstrap initializes the store and verifies the schema. A failure leaves the service degraded.
	Bootstrap(ctx context.Context) error
	Enabled() bool
	Save(ctx context.Context, req dto.RecordRequest) (repository.Result, error)
	Retrieve(ctx context.Context, req dto.RecordRequest) (repository.Result, error)
	Update(ctx context.Context, req dto.RecordRequest) (repository.Result, error)
	Delete(ctx context.Context, req dto.RecordRequest) (repository.Result, error)
	ListAll(ctx context.Context) ([]entity.AnalysisRecord, error)
	Health(ctx context.Context) dto.HealthResponse
}

// NewRecordService creates a record service. It starts degraded until Bootstrap succeeds.
func NewRecordService(repo repository.AnalysisRecordRepository, log *logger.Logger) RecordService {
	return &recordService{
		repo:   repo,
		logger: log,
	}
}

type recordService struct {
	repo    repository.AnalysisRecordRepository
	logger  *logger.Logger
	enabled atomic.Bool
}

func (s *recordService) Bootstrap(ctx context.Context) error {
	if err := s.repo.Initialize(ctx); err != nil {
		s.enabled.Store(false)
		s.logger.ErrorContext(ctx, "Record store disabled", logger.ErrorField(err))
		return err
	}
	if !s.repo.SchemaExists(ctx) {
		s.enabled.Store(false)
		s.logger.ErrorContext(ctx, "Table 'analysis_data' could not be created. Please check your database setup.")
		return repository.ErrStorageInit
	}
	s.enabled.Store(true)
	s.logger.InfoContext(ctx, "Table 'analysis_data' is confirmed to exist.")
	return nil
}

func (s *recordService) Enabled() bool {
	return s.enabled.Load()
}

func (s *recordService) Save(ctx context.Context, req dto.RecordRequest) (repository.Result, error) {
	if !s.Enabled() {
		return repository.Result{}, ErrStoreUnavailable
	}
	return s.repo.Save(ctx, req.Topic, req.Parameters, req.Content), nil
}

func (s *recordService) Retrieve(ctx context.Context, req dto.RecordRequest) (repository.Result, error) {
	if !s.Enabled() {
		return repository.Result{}, ErrStoreUnavailable
	}
	return s.repo.Retrieve(ctx, req.Topic, req.Parameters), nil
}

func (s *recordService) Update(ctx context.Context, req dto.RecordRequest) (repository.Result, error) {
	if !s.Enabled() {
		return repository.Result{}, ErrStoreUnavailable
	}
	return s.repo.Update(ctx, req.Topic, req.Parameters, req.Content), nil
}

func (s *recordService) Delete(ctx context.Context, req dto.RecordRequest) (repository.Result, error) {
	if !s.Enabled() {
		return repository.Result{}, ErrStoreUnavailable
	}
	return s.repo.Delete(ctx, req.Topic, req.Parameters), nil
}

func (s *recordService) ListAll(ctx context.Context) ([]entity.AnalysisRecord, error) {
	if !s.Enabled() {
		return []entity.AnalysisRecord{}, ErrStoreUnavailable
	}
	return s.repo.ListAll(ctx), nil
}

// Health re-checks the schema on every call.
func (s *recordService) Health(ctx context.Context) dto.HealthResponse {
	exists := s.repo.SchemaExists(ctx)
	status := "ok"
	if !exists || !s.Enabled() {
		status = "degraded"
	}
	return dto.HealthResponse{
		Status:       status,
		SchemaExists: exists,
	}
}

// ToRecordResponse converts a store result into the API body.
func ToRecordResponse(r repository.Result) dto.RecordResponse {
	return dto.RecordResponse{
		Outcome: string(r.Outcome),
		Message: r.Message(),
		Content: r.Content,
	}
}
