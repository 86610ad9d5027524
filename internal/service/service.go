package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/calendar"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/repository"
)

// Recorder observes successful record creation.
type Recorder interface {
	RecordCreated(service string)
}

type Options struct {
	Location *time.Location
	Now      func() time.Time
	Logger   *zap.Logger
	Recorder Recorder
}

// Services is the CRUD layer over every record type.
type Services struct {
	Clients          *ClientService
	Washrooms        *WashroomService
	CoatChecks       *CoatCheckService
	Sanctuary        *SanctuaryService
	Clinic           *ClinicService
	SafeSleep        *SafeSleepService
	Activities       *ActivityService
	ClientActivities *ClientActivityService
}

func New(repos *repository.Repositories, opts Options) *Services {
	b := newBase(repos, opts)
	return &Services{
		Clients:          &ClientService{base: b},
		Washrooms:        &WashroomService{base: b},
		CoatChecks:       &CoatCheckService{base: b},
		Sanctuary:        &SanctuaryService{base: b},
		Clinic:           &ClinicService{base: b},
		SafeSleep:        &SafeSleepService{base: b},
		Activities:       &ActivityService{base: b},
		ClientActivities: &ClientActivityService{base: b},
	}
}

type base struct {
	repos    *repository.Repositories
	loc      *time.Location
	now      func() time.Time
	log      *zap.Logger
	recorder Recorder
}

func newBase(repos *repository.Repositories, opts Options) *base {
	b := &base{
		repos:    repos,
		loc:      opts.Location,
		now:      opts.Now,
		log:      opts.Logger,
		recorder: opts.Recorder,
	}
	if b.loc == nil {
		b.loc = time.UTC
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	return b
}

func (b *base) created(service string) {
	if b.recorder != nil {
		b.recorder.RecordCreated(service)
	}
}

// dayOf returns the local calendar day of an instant.
func (b *base) dayOf(t time.Time) model.Date {
	return model.NewDate(calendar.DayOf(t, b.loc))
}

// instant parses a timestamp field, defaulting to now when absent.
func (b *base) instant(field string, s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return b.now().UTC(), nil
	}
	return parseInstant(field, *s, b.loc)
}

func requireClient(ctx context.Context, tx *repository.Repositories, id int64) error {
	ok, err := tx.Clients.Exists(ctx, id)
	if err != nil {
		return internal("check client", err)
	}
	if !ok {
		return notFound("client", id)
	}
	return nil
}

func requireActivity(ctx context.Context, tx *repository.Repositories, id int64) error {
	ok, err := tx.Activities.Exists(ctx, id)
	if err != nil {
		return internal("check activity", err)
	}
	if !ok {
		return notFound("activity", id)
	}
	return nil
}

// load fetches one row by id, mapping a missing row to NOT_FOUND.
func load[T any](ctx context.Context, store *repository.Store[T], entity string, id int64) (*T, error) {
	v, err := store.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(entity, id)
	}
	if err != nil {
		return nil, internal("get "+entity, err)
	}
	return v, nil
}

// remove deletes one row by id, mapping a missing row to NOT_FOUND.
func remove[T any](ctx context.Context, store *repository.Store[T], entity string, id int64) error {
	n, err := store.Delete(ctx, id)
	if err != nil {
		return internal("delete "+entity, err)
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}

func list[T any](ctx context.Context, store *repository.Store[T], entity string, f ListFilter, scopes []repository.Scope) (calendar.Page[T], error) {
	page, size, limit, offset := calendar.PageWindow(f.Page, f.PageSize)
	items, total, err := store.List(ctx, repository.Query{Scopes: scopes, Limit: limit, Offset: offset})
	if err != nil {
		return calendar.Page[T]{}, internal("list "+entity, err)
	}
	return calendar.NewPage(items, page, size, total), nil
}

// commonScopes applies the client and date filters. Date-only columns match
// whole days, timestamp columns match local days.
func (b *base) commonScopes(f ListFilter, dateOnly bool) []repository.Scope {
	var scopes []repository.Scope
	if f.ClientID != nil {
		scopes = append(scopes, repository.Eq("client_id", *f.ClientID))
	}

	from, to := f.From, f.To
	if f.Date != nil {
		from, to = f.Date, f.Date
	}
	if from != nil {
		if dateOnly {
			scopes = append(scopes, repository.FromDay("date", from.Time()))
		} else {
			scopes = append(scopes, repository.AtLeast("date", calendar.AtMidnight(from.Time(), b.loc).UTC()))
		}
	}
	if to != nil {
		next := to.Time().AddDate(0, 0, 1)
		if dateOnly {
			scopes = append(scopes, repository.BeforeDay("date", next))
		} else {
			scopes = append(scopes, repository.Before("date", calendar.AtMidnight(next, b.loc).UTC()))
		}
	}
	return scopes
}

func (b *base) logOpen(service string, id int64) {
	b.log.Debug("record saved without time_out", zap.String("service", service), zap.Int64("id", id))
}
