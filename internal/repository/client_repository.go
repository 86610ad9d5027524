package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
)

// DependentTables are the service tables that reference client.client_id.
var DependentTables = []string{
	"washroom_records",
	"coat_check_records",
	"sanctuary_records",
	"clinic_records",
	"safe_sleep_records",
	"client_activity",
}

type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, q Query) ([]model.Client, int64, error)
	Search(ctx context.Context, needle string, limit int) ([]model.Client, error)
	Create(ctx context.Context, c *model.Client) error
	Save(ctx context.Context, c *model.Client) error
	Delete(ctx context.Context, id int64) (int64, error)
	All(ctx context.Context) ([]model.Client, error)
	Lookup(ctx context.Context, ids []int64) (map[int64]model.Client, error)
	Reassign(ctx context.Context, from []int64, to int64) error
	DeleteDependents(ctx context.Context, clientID int64) error
}

var _ ClientRepository = (*GormClientRepository)(nil)

type GormClientRepository struct {
	*Store[model.Client]
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{Store: NewStore[model.Client](db, "client_id")}
}

func (r *GormClientRepository) WithTx(tx *gorm.DB) *GormClientRepository {
	return &GormClientRepository{Store: r.Store.WithTx(tx)}
}

// Search is a case-insensitive substring match on full_name.
func (r *GormClientRepository) Search(ctx context.Context, needle string, limit int) ([]model.Client, error) {
	q := Query{Order: "full_name ASC, client_id ASC", Limit: limit}
	if needle != "" {
		q.Scopes = append(q.Scopes, Contains("full_name", needle))
	}
	items, _, err := r.List(ctx, q)
	return items, err
}

func (r *GormClientRepository) All(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := r.db.WithContext(ctx).Order("client_id ASC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Lookup loads the given clients keyed by id. Missing ids are absent from the map.
func (r *GormClientRepository) Lookup(ctx context.Context, ids []int64) (map[int64]model.Client, error) {
	out := make(map[int64]model.Client, len(ids))
	for _, chunk := range chunkIDs(ids, 500) {
		var clients []model.Client
		if err := r.db.WithContext(ctx).Where("client_id IN ?", chunk).Find(&clients).Error; err != nil {
			return nil, err
		}
		for _, c := range clients {
			out[c.ID] = c
		}
	}
	return out, nil
}

// Reassign points every dependent record of the from clients at to.
func (r *GormClientRepository) Reassign(ctx context.Context, from []int64, to int64) error {
	if len(from) == 0 {
		return nil
	}
	for _, table := range DependentTables {
		err := r.db.WithContext(ctx).
			Table(table).
			Where("client_id IN ?", from).
			Update("client_id", to).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// DeleteDependents removes every service record owned by the client.
func (r *GormClientRepository) DeleteDependents(ctx context.Context, clientID int64) error {
	for _, table := range DependentTables {
		if err := r.db.WithContext(ctx).Exec("DELETE FROM "+table+" WHERE client_id = ?", clientID).Error; err != nil {
			return err
		}
	}
	return nil
}

func chunkIDs(ids []int64, size int) [][]int64 {
	var out [][]int64
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
