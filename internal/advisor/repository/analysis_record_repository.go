package repository

import (
	"context"
	"fmt"
	"strings"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/sqlite"

	"gorm.io/gorm"
)

const createAnalysisTable = `CREATE TABLE IF NOT EXISTS analysis_data (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	topic TEXT NOT NULL,
	parameters TEXT NOT NULL,
	content TEXT NOT NULL
)`

// AnalysisRecordRepository persists analysis and advice texts keyed by (topic, parameters).
//
// Every call opens its own connection to the SQLite file and closes it before returning.
// Only Initialize reports failure as an error; the other operations log engine failures
// and encode them in the returned Result.
type AnalysisRecordRepository interface {
	Initialize(ctx context.Context) error
	SchemaExists(ctx context.Context) bool
	Save(ctx context.Context, topic, parameters, content string) Result
	Retrieve(ctx context.Context, topic, parameters string) Result
	Update(ctx context.Context, topic, parameters, newContent string) Result
	Delete(ctx context.Context, topic, parameters string) Result
	ListAll(ctx context.Context) []entity.AnalysisRecord
}

// NewAnalysisRecordRepository creates a repository for the SQLite file described by cfg.
func NewAnalysisRecordRepository(cfg sqlite.Config, log *logger.Logger) AnalysisRecordRepository {
	if cfg.Log == nil {
		cfg.Log = log
	}
	return &analysisRecordRepository{
		cfg:  cfg,
		log:  log,
		open: sqlite.Open,
	}
}

type analysisRecordRepository struct {
	cfg  sqlite.Config
	log  *logger.Logger
	open func(sqlite.Config) (*gorm.DB, error)
}

// withConn runs fn on a fresh connection and always releases it.
func (r *analysisRecordRepository) withConn(ctx context.Context, fn func(db *gorm.DB) error) (err error) {
	db, err := r.open(r.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := sqlite.Close(db); closeErr != nil {
			r.log.WarnContext(ctx, "Failed to close sqlite connection", logger.ErrorField(closeErr), logger.StringField("path", r.cfg.Path))
		}
	}()
	return fn(db.WithContext(ctx))
}

// Initialize creates the database file and the analysis_data table if they do not exist.
func (r *analysisRecordRepository) Initialize(ctx context.Context) error {
	err := r.withConn(ctx, func(db *gorm.DB) error {
		return db.Exec(createAnalysisTable).Error
	})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to initialize database", logger.ErrorField(err), logger.StringField("path", r.cfg.Path))
		return fmt.Errorf("%w: %w", ErrStorageInit, err)
	}
	r.log.InfoContext(ctx, "Database initialized and table is ready", logger.StringField("table", entity.AnalysisRecord{}.TableName()))
	return nil
}

// SchemaExists reports whether the analysis_data table is present.
// It returns false when the check itself fails.
func (r *analysisRecordRepository) SchemaExists(ctx context.Context) bool {
	var count int64
	err := r.withConn(ctx, func(db *gorm.DB) error {
		return db.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", entity.AnalysisRecord{}.TableName()).
			Scan(&count).Error
	})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to check table existence", logger.ErrorField(err))
		return false
	}
	if count == 0 {
		r.log.WarnContext(ctx, "Table does not exist", logger.StringField("table", entity.AnalysisRecord{}.TableName()))
		return false
	}
	return true
}

// Save appends a new record. Existing records with the same key are left untouched.
func (r *analysisRecordRepository) Save(ctx context.Context, topic, parameters, content string) Result {
	if strings.TrimSpace(topic) == "" || strings.TrimSpace(parameters) == "" {
		return failed(OpSave, ErrInvalidRecord)
	}

	record := entity.AnalysisRecord{Topic: topic, Parameters: parameters, Content: content}
	err := r.withConn(ctx, func(db *gorm.DB) error {
		return db.Create(&record).Error
	})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to save content", logger.ErrorField(err), logger.StringField("topic", topic))
		return failed(OpSave, fmt.Errorf("%w: %w", ErrStorageWrite, err))
	}

	r.log.DebugContext(ctx, "Content saved", logger.StringField("topic", topic), logger.IntField("id", int(record.ID)))
	return Result{Op: OpSave, Outcome: OutcomeSaved, Content: content}
}

// Retrieve returns the content of the lowest-id record matching topic and parameters.
func (r *analysisRecordRepository) Retrieve(ctx context.Context, topic, parameters string) Result {
	var records []entity.AnalysisRecord
	err := r.withConn(ctx, func(db *gorm.DB) error {
		return db.Where("topic = ? AND parameters = ?", topic, parameters).
			Order("id ASC").
			Limit(1).
			Find(&records).Error
	})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to retrieve content", logger.ErrorField(err), logger.StringField("topic", topic))
		return failed(OpRetrieve, fmt.Errorf("%w: %w", ErrStorageRead, err))
	}
	if len(records) == 0 {
		r.log.DebugContext(ctx, "No content found", logger.StringField("topic", topic), logger.StringField("parameters", parameters))
		return Result{Op: OpRetrieve, Outcome: OutcomeNotFound}
	}
	return Result{Op: OpRetrieve, Outcome: OutcomeFound, Content: records[0].Content}
}

// Update rewrites the content of every record matching topic and parameters.
func (r *analysisRecordRepository) Update(ctx context.Context, topic, parameters, newContent string) Result {
	var affected int64
	err := r.withConn(ctx, func(db *gorm.DB) error {
		res := db.Model(&entity.AnalysisRecord{}).
			Where("topic = ? AND parameters = ?", topic, parameters).
			Update("content", newContent)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to update content", logger.ErrorField(err), logger.StringField("topic", topic))
		return failed(OpUpdate, fmt.Errorf("%w: %w", ErrStorageWrite, err))
	}
	if affected == 0 {
		return Result{Op: OpUpdate, Outcome: OutcomeNotFound}
	}

	r.log.DebugContext(ctx, "Content updated", logger.StringField("topic", topic), logger.IntField("rows", int(affected)))
	return Result{Op: OpUpdate, Outcome: OutcomeUpdated, Content: newContent}
}

// Delete removes every record matching topic and parameters.
func (r *analysisRecordRepository) Delete(ctx context.Context, topic, parameters string) Result {
	var affected int64
	err := r.withConn(ctx, func(db *gorm.DB) error {
		res := db.Where("topic = ? AND parameters = ?", topic, parameters).Delete(&entity.AnalysisRecord{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to delete content", logger.ErrorField(err), logger.StringField("topic", topic))
		return failed(OpDelete, fmt.Errorf("%w: %w", ErrStorageWrite, err))
	}
	if affected == 0 {
		return Result{Op: OpDelete, Outcome: OutcomeNotFound}
	}

	r.log.DebugContext(ctx, "Content deleted", logger.StringField("topic", topic), logger.IntField("rows", int(affected)))
	return Result{Op: OpDelete, Outcome: OutcomeDeleted}
}

// ListAll returns every record ordered by id. On failure it logs and returns an empty slice.
func (r *analysisRecordRepository) ListAll(ctx context.Context) []entity.AnalysisRecord {
	records := []entity.AnalysisRecord{}
	err := r.withConn(ctx, func(db *gorm.DB) error {
		return db.Order("id ASC").Find(&records).Error
	})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to retrieve all records", logger.ErrorField(err))
		return []entity.AnalysisRecord{}
	}
	return records
}
