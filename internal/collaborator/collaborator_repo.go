package collaborator

import (
	"context"
	"database/sql"
	"strings"

	"go-colaboradores/internal/shared/dbtx"

	"gorm.io/gorm"
)

//go:generate mockgen -source=collaborator_repo.go -destination=mock/collaborator_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Collaborator) error
	FindAll(ctx context.Context, filter ListFilter) ([]Collaborator, error)
	FindByID(ctx context.Context, id string) (*Collaborator, error)
	FindFirstMatch(ctx context.Context, query string) (*Collaborator, error)
	Update(ctx context.Context, c *Collaborator) error
	UpdateStatus(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Query    string
	PuestoID string
	Active   *bool
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

func likePattern(q string) string {
	q = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(q)
	return "%" + q + "%"
}

func (r *repository) Create(ctx context.Context, c *Collaborator) error {
	return r.conn(ctx).Create(c).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Collaborator, error) {
	q := r.conn(ctx).Model(&Collaborator{})
	if s := strings.TrimSpace(filter.Query); s != "" {
		p := likePattern(s)
		q = q.Where("name ILIKE ? OR number ILIKE ?", p, p)
	}
	if filter.PuestoID != "" {
		q = q.Where("puesto_id = ?", filter.PuestoID)
	}
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}

	var rows []Collaborator
	err := q.Order("number ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Collaborator, error) {
	var c Collaborator
	if err := r.conn(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindFirstMatch returns the lowest numbered collaborator whose name
// contains query (case-insensitive) or whose number contains it.
func (r *repository) FindFirstMatch(ctx context.Context, query string) (*Collaborator, error) {
	p := likePattern(query)
	var c Collaborator
	err := r.conn(ctx).
		Where("name ILIKE ? OR number LIKE ?", p, p).
		Order("number ASC").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Update(ctx context.Context, c *Collaborator) error {
	return r.conn(ctx).
		Model(&Collaborator{ID: c.ID}).
		Select("number", "name", "puesto_id").
		Updates(c).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id string, active bool) error {
	res := r.conn(ctx).Model(&Collaborator{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&Collaborator{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
