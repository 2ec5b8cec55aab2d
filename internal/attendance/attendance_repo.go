package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-colaboradores/internal/shared/dbtx"

	"gorm.io/gorm"
)

type RecordFilter struct {
	From       time.Time
	To         time.Time
	UserID     string
	LocationID string
	Type       string
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *AttendanceRecord) error
	FindForDay(ctx context.Context, userID, locationID string, from, to time.Time) ([]AttendanceRecord, error)
	FindInRange(ctx context.Context, filter RecordFilter) ([]AttendanceRecord, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, rec *AttendanceRecord) error {
	return r.conn(ctx).Create(rec).Error
}

// FindForDay returns the records of one user at one location inside [from, to).
func (r *repository) FindForDay(ctx context.Context, userID, locationID string, from, to time.Time) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.conn(ctx).
		Where("user_id = ?", userID).
		Where("location_id = ?", locationID).
		Where("recorded_at >= ? AND recorded_at < ?", from, to).
		Order("recorded_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindInRange(ctx context.Context, filter RecordFilter) ([]AttendanceRecord, error) {
	q := r.conn(ctx).
		Where("recorded_at >= ? AND recorded_at < ?", filter.From, filter.To)
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.LocationID != "" {
		q = q.Where("location_id = ?", filter.LocationID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var rows []AttendanceRecord
	err := q.Order("recorded_at ASC").Find(&rows).Error
	return rows, err
}
