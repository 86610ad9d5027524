package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/calendar"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/repository"
)

const (
	searchLimit  = 200
	suggestLimit = 5
)

type ClientService struct {
	*base
}

func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*model.Client, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	name := NormalizeName(req.FullName)
	if name == "" {
		return nil, fieldError("full_name", "full_name is required")
	}

	c := &model.Client{
		FullName:  name,
		Nickname:  trimmed(req.Nickname),
		BirthYear: req.BirthYear,
		Gender:    upper(req.Gender),
	}
	if err := s.repos.Clients.Create(ctx, c); err != nil {
		return nil, internal("create client", err)
	}
	s.created("client")
	return c, nil
}

func (s *ClientService) Get(ctx context.Context, id int64) (*model.Client, error) {
	return load(ctx, s.repos.Clients.Store, "client", id)
}

func (s *ClientService) List(ctx context.Context, f ListFilter) (calendar.Page[model.Client], error) {
	var scopes []repository.Scope
	if f.FullName != "" {
		scopes = append(scopes, repository.Contains("full_name", f.FullName))
	}
	return list(ctx, s.repos.Clients.Store, "client", f, scopes)
}

func (s *ClientService) Update(ctx context.Context, id int64, req UpdateClientRequest) (*model.Client, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	c, err := load(ctx, s.repos.Clients.Store, "client", id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		name := NormalizeName(*req.FullName)
		if name == "" {
			return nil, fieldError("full_name", "full_name is required")
		}
		c.FullName = name
	}
	if req.Nickname != nil {
		c.Nickname = trimmed(req.Nickname)
	}
	if req.BirthYear != nil {
		c.BirthYear = req.BirthYear
	}
	if req.Gender != nil {
		c.Gender = upper(req.Gender)
	}

	if err := s.repos.Clients.Save(ctx, c); err != nil {
		return nil, internal("update client", err)
	}
	return c, nil
}

// Delete removes the client together with every service record it owns.
// Attendance counters of the affected activities are decremented.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := requireClient(ctx, tx, id); err != nil {
			return err
		}

		counts, err := tx.ClientActivities.AttendanceByActivity(ctx, repository.Eq("client_id", id))
		if err != nil {
			return err
		}
		for activityID, n := range counts {
			if err := tx.Activities.AdjustAttendance(ctx, activityID, -n); err != nil {
				return err
			}
		}

		if err := tx.Clients.DeleteDependents(ctx, id); err != nil {
			return err
		}
		return remove(ctx, tx.Clients.Store, "client", id)
	})
	return wrap("delete client", err, nil)
}

// Search is a case-insensitive substring lookup capped at 200 rows.
func (s *ClientService) Search(ctx context.Context, query string) ([]model.Client, error) {
	clients, err := s.repos.Clients.Search(ctx, strings.TrimSpace(query), searchLimit)
	if err != nil {
		return nil, internal("search clients", err)
	}
	return clients, nil
}

// Suggest returns up to five existing clients whose name resembles query.
// Suggestions never block creating a client with the same name.
func (s *ClientService) Suggest(ctx context.Context, query string) ([]model.Client, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Client{}, nil
	}
	clients, err := s.repos.Clients.Search(ctx, query, suggestLimit)
	if err != nil {
		return nil, internal("suggest clients", err)
	}
	return clients, nil
}

// Clean normalizes every client name and merges clients whose normalized
// names are identical into the lowest id. Records of merged clients are moved
// to the surviving client before the duplicates are deleted.
func (s *ClientService) Clean(ctx context.Context) (CleanResult, error) {
	var res CleanResult
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		clients, err := tx.Clients.All(ctx)
		if err != nil {
			return err
		}

		keep := make(map[string]int64, len(clients))
		dups := make(map[int64][]int64)
		var order []int64
		for i := range clients {
			c := &clients[i]
			name := NormalizeName(c.FullName)
			if name != c.FullName {
				c.FullName = name
				if err := tx.Clients.Save(ctx, c); err != nil {
					return err
				}
				res.Standardized++
			}

			// clients are ordered by id, so the first one seen survives
			survivor, seen := keep[name]
			if !seen {
				keep[name] = c.ID
				continue
			}
			if _, ok := dups[survivor]; !ok {
				order = append(order, survivor)
			}
			dups[survivor] = append(dups[survivor], c.ID)
		}

		for _, survivor := range order {
			ids := dups[survivor]
			released, err := releaseExtraBeds(ctx, tx, append([]int64{survivor}, ids...))
			if err != nil {
				return err
			}
			res.BedsReleased += released
			if err := tx.Clients.Reassign(ctx, ids, survivor); err != nil {
				return err
			}
			for _, id := range ids {
				if _, err := tx.Clients.Delete(ctx, id); err != nil {
					return err
				}
				res.Removed++
			}
		}
		return nil
	})
	if err != nil {
		return CleanResult{}, wrap("clean clients", err, nil)
	}
	s.log.Info("client names cleaned",
		zap.Int("standardized", res.Standardized),
		zap.Int("removed", res.Removed),
		zap.Int("beds_released", res.BedsReleased),
	)
	return res, nil
}

// releaseExtraBeds leaves a merged group with at most one occupied bed: the
// first one held in group order. The others are marked vacated.
func releaseExtraBeds(ctx context.Context, tx *repository.Repositories, group []int64) (int, error) {
	var keep int64
	for _, id := range group {
		rec, err := tx.SafeSleep.OccupiedByClient(ctx, id, 0)
		if err != nil {
			return 0, err
		}
		if rec != nil {
			keep = rec.ID
			break
		}
	}
	if keep == 0 {
		return 0, nil
	}
	n, err := tx.SafeSleep.ReleaseBeds(ctx, group, keep)
	return int(n), err
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func upper(s *string) *string {
	v := trimmed(s)
	if v == nil {
		return nil
	}
	u := strings.ToUpper(*v)
	return &u
}
