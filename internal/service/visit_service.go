package service

import (
	"context"
	"strings"
	"time"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/calendar"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/repository"
)

// dateOr returns d when given, otherwise the local day of timeIn.
func (b *base) dateOr(d *model.Date, timeIn time.Time) model.Date {
	if d != nil && !d.IsZero() {
		return *d
	}
	return b.dayOf(timeIn)
}

// ---- washroom ----

type WashroomService struct {
	*base
}

func stallBusy(stall string) *Error {
	return conflict("Washroom %s is currently occupied", stall)
}

func ensureStallFree(ctx context.Context, tx *repository.Repositories, stall string, exceptID int64) error {
	open, err := tx.Washrooms.OpenForStall(ctx, stall, exceptID)
	if err != nil {
		return internal("check washroom occupancy", err)
	}
	if open != nil {
		return stallBusy(stall)
	}
	return nil
}

func (s *WashroomService) Create(ctx context.Context, req CreateWashroomRequest) (*model.WashroomRecord, error) {
	req.WashroomType = strings.ToUpper(strings.TrimSpace(req.WashroomType))
	if err := validateInput(req); err != nil {
		return nil, err
	}

	rec := &model.WashroomRecord{
		ClientID:     req.ClientID,
		WashroomType: req.WashroomType,
		TimeIn:       req.TimeIn.UTC(),
		TimeOut:      utcPtr(req.TimeOut),
	}
	rec.Date = s.dateOr(req.Date, rec.TimeIn)
	if err := checkOrder("time_in", "time_out", rec.TimeIn, rec.TimeOut); err != nil {
		return nil, err
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := requireClient(ctx, tx, rec.ClientID); err != nil {
			return err
		}
		if rec.Open() {
			if err := ensureStallFree(ctx, tx, rec.WashroomType, 0); err != nil {
				return err
			}
		}
		return tx.Washrooms.Create(ctx, rec)
	})
	if err != nil {
		return nil, wrap("create washroom record", err, func() *Error { return stallBusy(rec.WashroomType) })
	}

	if rec.Open() {
		s.logOpen("washroom", rec.ID)
	}
	s.created("washroom")
	return rec, nil
}

func (s *WashroomService) Get(ctx context.Context, id int64) (*model.WashroomRecord, error) {
	return load(ctx, s.repos.Washrooms.Store, "washroom record", id)
}

func (s *WashroomService) List(ctx context.Context, f ListFilter) (calendar.Page[model.WashroomRecord], error) {
	scopes := s.commonScopes(f, true)
	if f.Washroom != "" {
		scopes = append(scopes, repository.Eq("washroom_type", strings.ToUpper(f.Washroom)))
	}
	if f.OpenOnly {
		scopes = append(scopes, repository.IsNull("time_out"))
	}
	return list(ctx, s.repos.Washrooms.Store, "washroom record", f, scopes)
}

func (s *WashroomService) Update(ctx context.Context, id int64, req UpdateWashroomRequest) (*model.WashroomRecord, error) {
	if req.WashroomType != nil {
		v := strings.ToUpper(strings.TrimSpace(*req.WashroomType))
		req.WashroomType = &v
	}
	if err := validateInput(req); err != nil {
		return nil, err
	}

	var rec *model.WashroomRecord
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		cur, err := load(ctx, tx.Washrooms.Store, "washroom record", id)
		if err != nil {
			return err
		}
		if req.ClientID != nil && *req.ClientID != cur.ClientID {
			if err := requireClient(ctx, tx, *req.ClientID); err != nil {
				return err
			}
			cur.ClientID = *req.ClientID
		}
		if req.WashroomType != nil {
			cur.WashroomType = *req.WashroomType
		}
		if req.TimeIn != nil {
			cur.TimeIn = req.TimeIn.UTC()
		}
		if req.TimeOut != nil {
			cur.TimeOut = utcPtr(req.TimeOut)
		}
		if req.Date != nil {
			cur.Date = *req.Date
		}
		if err := checkOrder("time_in", "time_out", cur.TimeIn, cur.TimeOut); err != nil {
			return err
		}
		if cur.Open() {
			if err := ensureStallFree(ctx, tx, cur.WashroomType, cur.ID); err != nil {
				return err
			}
		}
		rec = cur
		return tx.Washrooms.Save(ctx, cur)
	})
	if err != nil {
		return nil, wrap("update washroom record", err, func() *Error { return stallBusy(rec.WashroomType) })
	}
	return rec, nil
}

func (s *WashroomService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.repos.Washrooms.Store, "washroom record", id)
}

// ---- coat check ----

type CoatCheckService struct {
	*base
}

func binBusy(bin int) *Error {
	return conflict("Bin %d is currently in use", bin)
}

func ensureBinFree(ctx context.Context, tx *repository.Repositories, bin int, exceptID int64) error {
	open, err := tx.CoatChecks.OpenForBin(ctx, bin, exceptID)
	if err != nil {
		return internal("check bin occupancy", err)
	}
	if open != nil {
		return binBusy(bin)
	}
	return nil
}

func (s *CoatCheckService) Create(ctx context.Context, req CreateCoatCheckRequest) (*model.CoatCheckRecord, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	rec := &model.CoatCheckRecord{
		ClientID: req.ClientID,
		BinNo:    *req.BinNo,
		TimeIn:   req.TimeIn.UTC(),
		TimeOut:  utcPtr(req.TimeOut),
	}
	rec.Date = s.dateOr(req.Date, rec.TimeIn)
	if err := checkOrder("time_in", "time_out", rec.TimeIn, rec.TimeOut); err != nil {
		return nil, err
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := requireClient(ctx, tx, rec.ClientID); err != nil {
			return err
		}
		if rec.Open() {
			if err := ensureBinFree(ctx, tx, rec.BinNo, 0); err != nil {
				return err
			}
		}
		return tx.CoatChecks.Create(ctx, rec)
	})
	if err != nil {
		return nil, wrap("create coat check record", err, func() *Error { return binBusy(rec.BinNo) })
	}

	if rec.Open() {
		s.logOpen("coatcheck", rec.ID)
	}
	s.created("coatcheck")
	return rec, nil
}

func (s *CoatCheckService) Get(ctx context.Context, id int64) (*model.CoatCheckRecord, error) {
	return load(ctx, s.repos.CoatChecks.Store, "coat check record", id)
}

func (s *CoatCheckService) List(ctx context.Context, f ListFilter) (calendar.Page[model.CoatCheckRecord], error) {
	scopes := s.commonScopes(f, true)
	if f.BinNo != nil {
		scopes = append(scopes, repository.Eq("bin_no", *f.BinNo))
	}
	if f.OpenOnly {
		scopes = append(scopes, repository.IsNull("time_out"))
	}
	return list(ctx, s.repos.CoatChecks.Store, "coat check record", f, scopes)
}

func (s *CoatCheckService) Update(ctx context.Context, id int64, req UpdateCoatCheckRequest) (*model.CoatCheckRecord, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	var rec *model.CoatCheckRecord
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		cur, err := load(ctx, tx.CoatChecks.Store, "coat check record", id)
		if err != nil {
			return err
		}
		if req.ClientID != nil && *req.ClientID != cur.ClientID {
			if err := requireClient(ctx, tx, *req.ClientID); err != nil {
				return err
			}
			cur.ClientID = *req.ClientID
		}
		if req.BinNo != nil {
			cur.BinNo = *req.BinNo
		}
		if req.TimeIn != nil {
			cur.TimeIn = req.TimeIn.UTC()
		}
		if req.TimeOut != nil {
			cur.TimeOut = utcPtr(req.TimeOut)
		}
		if req.Date != nil {
			cur.Date = *req.Date
		}
		if err := checkOrder("time_in", "time_out", cur.TimeIn, cur.TimeOut); err != nil {
			return err
		}
		if cur.Open() {
			if err := ensureBinFree(ctx, tx, cur.BinNo, cur.ID); err != nil {
				return err
			}
		}
		rec = cur
		return tx.CoatChecks.Save(ctx, cur)
	})
	if err != nil {
		return nil, wrap("update coat check record", err, func() *Error { return binBusy(rec.BinNo) })
	}
	return rec, nil
}

func (s *CoatCheckService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.repos.CoatChecks.Store, "coat check record", id)
}

// ---- sanctuary ----

type SanctuaryService struct {
	*base
}

func (s *SanctuaryService) Create(ctx context.Context, req CreateSanctuaryRequest) (*model.SanctuaryRecord, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	rec := &model.SanctuaryRecord{
		ClientID:       req.ClientID,
		TimeIn:         req.TimeIn.UTC(),
		TimeOut:        utcPtr(req.TimeOut),
		PurposeOfVisit: trimmed(req.PurposeOfVisit),
		IfServiced:     *req.IfServiced,
	}
	rec.Date = s.dateOr(req.Date, rec.TimeIn)
	if err := checkOrder("time_in", "time_out", rec.TimeIn, rec.TimeOut); err != nil {
		return nil, err
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := requireClient(ctx, tx, rec.ClientID); err != nil {
			return err
		}
		return tx.Sanctuary.Create(ctx, rec)
	})
	if err != nil {
		return nil, wrap("create sanctuary record", err, nil)
	}

	if rec.TimeOut == nil {
		s.logOpen("sanctuary", rec.ID)
	}
	s.created("sanctuary")
	return rec, nil
}

func (s *SanctuaryService) Get(ctx context.Context, id int64) (*model.SanctuaryRecord, error) {
	return load(ctx, s.repos.Sanctuary.Store, "sanctuary record", id)
}

func (s *SanctuaryService) List(ctx context.Context, f ListFilter) (calendar.Page[model.SanctuaryRecord], error) {
	scopes := s.commonScopes(f, true)
	if f.OpenOnly {
		scopes = append(scopes, repository.IsNull("time_out"))
	}
	return list(ctx, s.repos.Sanctuary.Store, "sanctuary record", f, scopes)
}

func (s *SanctuaryService) Update(ctx context.Context, id int64, req UpdateSanctuaryRequest) (*model.SanctuaryRecord, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	var rec *model.SanctuaryRecord
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		cur, err := load(ctx, tx.Sanctuary.Store, "sanctuary record", id)
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
			cur.Date = *req.Date
		}
		if req.TimeIn != nil {
			cur.TimeIn = req.TimeIn.UTC()
		}
		if req.TimeOut != nil {
			cur.TimeOut = utcPtr(req.TimeOut)
		}
		if req.PurposeOfVisit != nil {
			cur.PurposeOfVisit = trimmed(req.PurposeOfVisit)
		}
		if req.IfServiced != nil {
			cur.IfServiced = *req.IfServiced
		}
		if err := checkOrder("time_in", "time_out", cur.TimeIn, cur.TimeOut); err != nil {
			return err
		}
		rec = cur
		return tx.Sanctuary.Save(ctx, cur)
	})
	if err != nil {
		return nil, wrap("update sanctuary record", err, nil)
	}
	return rec, nil
}

func (s *SanctuaryService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.repos.Sanctuary.Store, "sanctuary record", id)
}
