package puesto

import (
	"context"
	"database/sql"

	"go-colaboradores/internal/shared/dbtx"

	"gorm.io/gorm"
)

const countSelect = "puestos.*, (SELECT COUNT(*) FROM collaborators WHERE collaborators.puesto_id = puestos.id) AS collaborator_count"

//go:generate mockgen -source=puesto_repo.go -destination=mock/puesto_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Puesto) error
	FindAllWithCount(ctx context.Context) ([]PuestoWithCount, error)
	FindByID(ctx context.Context, id string) (*PuestoWithCount, error)
	Exists(ctx context.Context, id string) (bool, error)
	CountCollaborators(ctx context.Context, id string) (int64, error)
	Update(ctx context.Context, p *Puesto) error
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
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, p *Puesto) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) FindAllWithCount(ctx context.Context) ([]PuestoWithCount, error) {
	var rows []PuestoWithCount
	err := r.conn(ctx).
		Table("puestos").
		Select(countSelect).
		Order("puestos.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*PuestoWithCount, error) {
	var rows []PuestoWithCount
	err := r.conn(ctx).
		Table("puestos").
		Select(countSelect).
		Where("puestos.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.conn(ctx).Model(&Puesto{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *repository) CountCollaborators(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.conn(ctx).Table("collaborators").Where("puesto_id = ?", id).Count(&n).Error
	return n, err
}

func (r *repository) Update(ctx context.Context, p *Puesto) error {
	return r.conn(ctx).
		Model(&Puesto{ID: p.ID}).
		Select("name", "description").
		Updates(p).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&Puesto{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
