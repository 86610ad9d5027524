package service

import (
	"context"
	"strings"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/calendar"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/repository"
)

type ActivityService struct {
	*base
}

func (s *ActivityService) Create(ctx context.Context, req CreateActivityRequest) (*model.Activity, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fieldError("activity_name", "activity_name is required")
	}

	a := &model.Activity{
		Name:      name,
		Date:      *req.Date,
		StartTime: utcPtr(req.StartTime),
		EndTime:   utcPtr(req.EndTime),
	}
	if req.Attendance != nil {
		a.Attendance = *req.Attendance
	}
	if a.StartTime != nil {
		if err := checkOrder("start_time", "end_time", *a.StartTime, a.EndTime); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Activities.Create(ctx, a); err != nil {
		return nil, internal("create activity", err)
	}
	s.created("activity")
	return a, nil
}

func (s *ActivityService) Get(ctx context.Context, id int64) (*model.Activity, error) {
	return load(ctx, s.repos.Activities.Store, "activity", id)
}

func (s *ActivityService) List(ctx context.Context, f ListFilter) (calendar.Page[model.Activity], error) {
	f.ClientID = nil
	return list(ctx, s.repos.Activities.Store, "activity", f, s.commonScopes(f, true))
}

func (s *ActivityService) Update(ctx context.Context, id int64, req UpdateActivityRequest) (*model.Activity, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	a, err := load(ctx, s.repos.Activities.Store, "activity", id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fieldError("activity_name", "activity_name is required")
		}
		a.Name = name
	}
	if req.Date != nil {
		a.Date = *req.Date
	}
	if req.StartTime != nil {
		a.StartTime = utcPtr(req.StartTime)
	}
	if req.EndTime != nil {
		a.EndTime = utcPtr(req.EndTime)
	}
	if req.Attendance != nil {
		a.Attendance = *req.Attendance
	}
	if a.StartTime != nil {
		if err := checkOrder("start_time", "end_time", *a.StartTime, a.EndTime); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Activities.Save(ctx, a); err != nil {
		return nil, internal("update activity", err)
	}
	return a, nil
}

// Delete removes the activity and its attendance rows.
func (s *ActivityService) Delete(ctx context.Context, id int64) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := requireActivity(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.ClientActivities.DeleteForActivity(ctx, id); err != nil {
			return err
		}
		return remove(ctx, tx.Activities.Store, "activity", id)
	})
	return wrap("delete activity", err, nil)
}

// ClientActivityService records attendance. Every row counts towards the
// attendance counter of its activity.
type ClientActivityService struct {
	*base
}

func (s *ClientActivityService) Create(ctx context.Context, req CreateClientActivityRequest) (*model.ClientActivity, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	at, err := s.instant("date", req.Date)
	if err != nil {
		return nil, err
	}

	rec := &model.ClientActivity{
		ClientID:   req.ClientID,
		ActivityID: req.ActivityID,
		Date:       at,
		Score:      req.Score,
	}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := requireClient(ctx, tx, rec.ClientID); err != nil {
			return err
		}
		if err := requireActivity(ctx, tx, rec.ActivityID); err != nil {
			return err
		}
		if err := tx.ClientActivities.Create(ctx, rec); err != nil {
			return err
		}
		return tx.Activities.AdjustAttendance(ctx, rec.ActivityID, 1)
	})
	if err != nil {
		return nil, wrap("create client activity", err, nil)
	}
	s.created("activity")
	return rec, nil
}

func (s *ClientActivityService) Get(ctx context.Context, id int64) (*model.ClientActivity, error) {
	return load(ctx, s.repos.ClientActivities.Store, "client activity", id)
}

func (s *ClientActivityService) List(ctx context.Context, f ListFilter) (calendar.Page[model.ClientActivity], error) {
	scopes := s.commonScopes(f, false)
	if f.ActivityID != nil {
		scopes = append(scopes, repository.Eq("activity_id", *f.ActivityID))
	}
	return list(ctx, s.repos.ClientActivities.Store, "client activity", f, scopes)
}

func (s *ClientActivityService) Update(ctx context.Context, id int64, req UpdateClientActivityRequest) (*model.ClientActivity, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	var rec *model.ClientActivity
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		cur, err := load(ctx, tx.ClientActivities.Store, "client activity", id)
		if err != nil {
			return err
		}
		if req.ClientID != nil && *req.ClientID != cur.ClientID {
			if err := requireClient(ctx, tx, *req.ClientID); err != nil {
				return err
			}
			cur.ClientID = *req.ClientID
		}
		if req.ActivityID != nil && *req.ActivityID != cur.ActivityID {
			if err := requireActivity(ctx, tx, *req.ActivityID); err != nil {
				return err
			}
			if err := tx.Activities.AdjustAttendance(ctx, cur.ActivityID, -1); err != nil {
				return err
			}
			if err := tx.Activities.AdjustAttendance(ctx, *req.ActivityID, 1); err != nil {
				return err
			}
			cur.ActivityID = *req.ActivityID
		}
		if req.Date != nil {
			at, err := parseInstant("date", *req.Date, s.loc)
			if err != nil {
				return err
			}
			cur.Date = at
		}
		if req.Score != nil {
			cur.Score = req.Score
		}
		rec = cur
		return tx.ClientActivities.Save(ctx, cur)
	})
	if err != nil {
		return nil, wrap("update client activity", err, nil)
	}
	return rec, nil
}

func (s *ClientActivityService) Delete(ctx context.Context, id int64) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		cur, err := load(ctx, tx.ClientActivities.Store, "client activity", id)
		if err != nil {
			return err
		}
		if err := remove(ctx, tx.ClientActivities.Store, "client activity", id); err != nil {
			return err
		}
		return tx.Activities.AdjustAttendance(ctx, cur.ActivityID, -1)
	})
	return wrap("delete client activity", err, nil)
}
