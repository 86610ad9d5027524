package service

import (
	"context"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/calendar"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/repository"
)

// ---- clinic ----

type ClinicService struct {
	*base
}

func (s *ClinicService) Create(ctx context.Context, req CreateClinicRequest) (*model.ClinicRecord, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	at, err := s.instant("date", req.Date)
	if err != nil {
		return nil, err
	}

	rec := &model.ClinicRecord{
		ClientID:       req.ClientID,
		Date:           calendar.ClampNotAfter(at, s.now().UTC()),
		PurposeOfVisit: trimmed(req.PurposeOfVisit),
	}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := requireClient(ctx, tx, rec.ClientID); err != nil {
			return err
		}
		return tx.Clinic.Create(ctx, rec)
	})
	if err != nil {
		return nil, wrap("create clinic record", err, nil)
	}
	s.created("clinic")
	return rec, nil
}

func (s *ClinicService) Get(ctx context.Context, id int64) (*model.ClinicRecord, error) {
	return load(ctx, s.repos.Clinic.Store, "clinic record", id)
}

func (s *ClinicService) List(ctx context.Context, f ListFilter) (calendar.Page[model.ClinicRecord], error) {
	return list(ctx, s.repos.Clinic.Store, "clinic record", f, s.commonScopes(f, false))
}

func (s *ClinicService) Update(ctx context.Context, id int64, req UpdateClinicRequest) (*model.ClinicRecord, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	var rec *model.ClinicRecord
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		cur, err := load(ctx, tx.Clinic.Store, "clinic record", id)
		if err != nil {
			return err
		}
		if req.ClientID != nil && *req.ClientID != cur.ClientID {
			if err := requireClient(ctx, tx, *req.ClientID); err != nil {
				return err
			}
			cur.ClientID = *req.ClientID
		}
		if req.Date != nil {
			at, err := parseInstant("date", *req.Date, s.loc)
			if err != nil {
				return err
			}
			cur.Date = calendar.ClampNotAfter(at, s.now().UTC())
		}
		if req.PurposeOfVisit != nil {
			cur.PurposeOfVisit = trimmed(req.PurposeOfVisit)
		}
		rec = cur
		return tx.Clinic.Save(ctx, cur)
	})
	if err != nil {
		return nil, wrap("update clinic record", err, nil)
	}
	return rec, nil
}

func (s *ClinicService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.repos.Clinic.Store, "clinic record", id)
}

// ---- safe sleep ----

type SafeSleepService struct {
	*base
}

func bedBusy(bed int) *Error {
	return conflict("Bed %d is currently occupied", bed)
}

func clientHasBed(held *model.SafeSleepRecord) *Error {
	if held != nil && held.BedNo != nil {
		return conflict("Client already occupies bed %d", *held.BedNo)
	}
	return conflict("Client already occupies a bed")
}

// ensureBedFree enforces one occupant per bed and one occupied bed per client.
func ensureBedFree(ctx context.Context, tx *repository.Repositories, rec *model.SafeSleepRecord) error {
	if !rec.Open() {
		return nil
	}
	held, err := tx.SafeSleep.OccupiedByClient(ctx, rec.ClientID, rec.ID)
	if err != nil {
		return internal("check client bed", err)
	}
	if held != nil {
		return clientHasBed(held)
	}
	if rec.BedNo == nil {
		return nil
	}
	taken, err := tx.SafeSleep.OccupiedBed(ctx, *rec.BedNo, rec.ID)
	if err != nil {
		return internal("check bed occupancy", err)
	}
	if taken != nil {
		return bedBusy(*rec.BedNo)
	}
	return nil
}

func bedRace(rec *model.SafeSleepRecord) func() *Error {
	return func() *Error {
		if rec != nil && rec.BedNo != nil {
			return bedBusy(*rec.BedNo)
		}
		return clientHasBed(nil)
	}
}

func (s *SafeSleepService) Create(ctx context.Context, req CreateSafeSleepRequest) (*model.SafeSleepRecord, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	at, err := s.instant("date", req.Date)
	if err != nil {
		return nil, err
	}

	rec := &model.SafeSleepRecord{
		ClientID: req.ClientID,
		Date:     calendar.ClampNotAfter(at, s.now().UTC()),
		BedNo:    req.BedNo,
	}
	if req.IsOccupied != nil {
		rec.IsOccupied = *req.IsOccupied
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := requireClient(ctx, tx, rec.ClientID); err != nil {
			return err
		}
		if err := ensureBedFree(ctx, tx, rec); err != nil {
			return err
		}
		return tx.SafeSleep.Create(ctx, rec)
	})
	if err != nil {
		return nil, wrap("create safe sleep record", err, bedRace(rec))
	}
	s.created("safesleep")
	return rec, nil
}

func (s *SafeSleepService) Get(ctx context.Context, id int64) (*model.SafeSleepRecord, error) {
	return load(ctx, s.repos.SafeSleep.Store, "safe sleep record", id)
}

func (s *SafeSleepService) List(ctx context.Context, f ListFilter) (calendar.Page[model.SafeSleepRecord], error) {
	scopes := s.commonScopes(f, false)
	if f.BedNo != nil {
		scopes = append(scopes, repository.Eq("bed_no", *f.BedNo))
	}
	if f.IsOccupied != nil {
		scopes = append(scopes, repository.Eq("is_occupied", *f.IsOccupied))
	}
	if f.OpenOnly {
		scopes = append(scopes, repository.Eq("is_occupied", true))
	}
	return list(ctx, s.repos.SafeSleep.Store, "safe sleep record", f, scopes)
}

func (s *SafeSleepService) Update(ctx context.Context, id int64, req UpdateSafeSleepRequest) (*model.SafeSleepRecord, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	var rec *model.SafeSleepRecord
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		cur, err := load(ctx, tx.SafeSleep.Store, "safe sleep record", id)
		if err != nil {
			return err
		}
		if req.ClientID != nil && *req.ClientID != cur.ClientID {
			if err := requireClient(ctx, tx, *req.ClientID); err != nil {
				return err
			}
			cur.ClientID = *req.ClientID
		}
		if req.Date != nil {
			at, err := parseInstant("date", *req.Date, s.loc)
			if err != nil {
				return err
			}
			cur.Date = calendar.ClampNotAfter(at, s.now().UTC())
		}
		if req.BedNo != nil {
			cur.BedNo = req.BedNo
		}
		if req.IsOccupied != nil {
			cur.IsOccupied = *req.IsOccupied
		}
		if err := ensureBedFree(ctx, tx, cur); err != nil {
			return err
		}
		rec = cur
		return tx.SafeSleep.Save(ctx, cur)
	})
	if err != nil {
		return nil, wrap("update safe sleep record", err, bedRace(rec))
	}
	return rec, nil
}

func (s *SafeSleepService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.repos.SafeSleep.Store, "safe sleep record", id)
}
