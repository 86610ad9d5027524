package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/calendar"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
)

// Scope narrows a query.
type Scope = func(*gorm.DB) *gorm.DB

// Query describes a list request.
type Query struct {
	Scopes []Scope
	Order  string
	Limit  int
	Offset int
}

// Store is a GORM repository over one table keyed by an integer id column.
type Store[T any] struct {
	db       *gorm.DB
	idColumn string
}

func NewStore[T any](db *gorm.DB, idColumn string) *Store[T] {
	return &Store[T]{db: db, idColumn: idColumn}
}

// WithTx returns a copy of the store bound to tx.
func (s *Store[T]) WithTx(tx *gorm.DB) *Store[T] {
	return &Store[T]{db: tx, idColumn: s.idColumn}
}

// GetByID returns gorm.ErrRecordNotFound when no row matches.
func (s *Store[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	var v T
	if err := s.db.WithContext(ctx).First(&v, s.idColumn+" = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store[T]) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(new(T)).
		Where(s.idColumn+" = ?", id).
		Count(&n).Error
	return n > 0, err
}

// List returns the matching page and the total number of matches.
func (s *Store[T]) List(ctx context.Context, q Query) ([]T, int64, error) {
	tx := s.db.WithContext(ctx).Model(new(T)).Scopes(q.Scopes...)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := q.Order
	if order == "" {
		order = s.idColumn + " ASC"
	}
	tx = tx.Order(order)
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit).Offset(q.Offset)
	}

	var items []T
	if err := tx.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// First returns the first row matching scopes, or nil when there is none.
func (s *Store[T]) First(ctx context.Context, scopes ...Scope) (*T, error) {
	var items []T
	err := s.db.WithContext(ctx).
		Model(new(T)).
		Scopes(scopes...).
		Order(s.idColumn + " ASC").
		Limit(1).
		Find(&items).Error
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

func (s *Store[T]) Create(ctx context.Context, v *T) error {
	return s.db.WithContext(ctx).Create(v).Error
}

// Save writes every column of v.
func (s *Store[T]) Save(ctx context.Context, v *T) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error
}

// Delete removes the row and reports how many rows went away.
func (s *Store[T]) Delete(ctx context.Context, id int64) (int64, error) {
	res := s.db.WithContext(ctx).Delete(new(T), s.idColumn+" = ?", id)
	return res.RowsAffected, res.Error
}

func (s *Store[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&n).Error
	return n, err
}

// Eq filters column = v.
func Eq(column string, v any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", v)
	}
}

// IsNull filters rows where column is NULL.
func IsNull(column string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column + " IS NULL")
	}
}

// NotID excludes one row, used when re-checking an updated record against its peers.
func NotID(column string, id int64) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if id == 0 {
			return db
		}
		return db.Where(column+" <> ?", id)
	}
}

// Within filters column into the half-open range.
func Within(column string, r calendar.TimeRange) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" < ?", r.Start, r.End)
	}
}

// WithinDays filters a date-only column into the half-open range of days.
// Days are bound as YYYY-MM-DD so no time zone conversion applies.
func WithinDays(column string, r calendar.TimeRange) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" < ?", dayParam(r.Start), dayParam(r.End))
	}
}

// FromDay filters a date-only column to day and later.
func FromDay(column string, day time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ?", dayParam(day))
	}
}

// BeforeDay filters a date-only column to days strictly before day.
func BeforeDay(column string, day time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" < ?", dayParam(day))
	}
}

func dayParam(day time.Time) string {
	return day.Format(model.DateLayout)
}

// AtLeast filters column >= t.
func AtLeast(column string, t time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ?", t)
	}
}

// Before filters column < t.
func Before(column string, t time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" < ?", t)
	}
}

// Contains is a case-insensitive substring match.
func Contains(column, needle string) Scope {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(needle))) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", column), pattern)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
