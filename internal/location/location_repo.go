package location

import (
	"context"
	"database/sql"

	"go-colaboradores/internal/shared/dbtx"

	"gorm.io/gorm"
)

//go:generate mockgen -source=location_repo.go -destination=mock/location_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, loc *Location) error
	FindAll(ctx context.Context) ([]Location, error)
	FindByID(ctx context.Context, id string) (*Location, error)
	FindByIDs(ctx context.Context, ids []string) ([]Location, error)
	FindActiveAssigned(ctx context.Context, userID string) ([]Location, error)
	Update(ctx context.Context, loc *Location) error
	UpdateStatus(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, loc *Location) error {
	return r.conn(ctx).Create(loc).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Location, error) {
	var locs []Location
	err := r.conn(ctx).Order("name ASC").Find(&locs).Error
	return locs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Location, error) {
	var loc Location
	if err := r.conn(ctx).First(&loc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// FindByIDs returns the locations that still exist; missing ids are skipped.
func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var locs []Location
	err := r.conn(ctx).Where("id IN ?", ids).Find(&locs).Error
	return locs, err
}

func (r *repository) FindActiveAssigned(ctx context.Context, userID string) ([]Location, error) {
	var locs []Location
	err := r.conn(ctx).
		Joins("JOIN user_locations ON user_locations.location_id = locations.id").
		Where("user_locations.user_id = ? AND locations.active = ?", userID, true).
		Order("locations.name ASC").
		Find(&locs).Error
	return locs, err
}

func (r *repository) Update(ctx context.Context, loc *Location) error {
	return r.conn(ctx).
		Model(&Location{ID: loc.ID}).
		Select("name", "description", "latitude", "longitude", "radius_meters").
		Updates(loc).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id string, active bool) error {
	res := r.conn(ctx).Model(&Location{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the location and its assignments. Attendance records keep
// their location id.
func (r *repository) Delete(ctx context.Context, id string) error {
	db := r.conn(ctx)
	if err := db.Where("location_id = ?", id).Delete(&UserLocation{}).Error; err != nil {
		return err
	}
	res := db.Delete(&Location{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
