package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/calendar"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/config"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/db"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.NewGormDB(&config.DBConfig{Driver: "sqlite", Path: ":memory:"}, gormlogger.Discard)
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = model.Migrate(gdb)
	require.NoError(t, err)
	return gdb
}

func seedClient(t *testing.T, repos *Repositories, name string) *model.Client {
	t.Helper()
	c := &model.Client{FullName: name}
	require.NoError(t, repos.Clients.Create(context.Background(), c))
	return c
}

func utc(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	repos := New(openTestDB(t))

	c := seedClient(t, repos, "Jane Doe")
	assert.NotZero(t, c.ID)

	got, err := repos.Clients.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.FullName)

	_, err = repos.Clients.GetByID(ctx, c.ID+100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ok, err := repos.Clients.Exists(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got.FullName = "Jane Smith"
	require.NoError(t, repos.Clients.Save(ctx, got))
	reloaded, err := repos.Clients.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", reloaded.FullName)

	n, err := repos.Clients.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repos.Clients.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestClientRepository_Search(t *testing.T) {
	ctx := context.Background()
	repos := New(openTestDB(t))

	seedClient(t, repos, "Jane Doe")
	seedClient(t, repos, "John Doe")
	seedClient(t, repos, "Mary 100% Real")

	found, err := repos.Clients.Search(ctx, "DOE", 10)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	capped, err := repos.Clients.Search(ctx, "doe", 1)
	require.NoError(t, err)
	assert.Len(t, capped, 1)

	literal, err := repos.Clients.Search(ctx, "100%", 10)
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, "Mary 100% Real", literal[0].FullName)
}

func TestWashroomRepository_OpenForStall(t *testing.T) {
	ctx := context.Background()
	repos := New(openTestDB(t))
	c := seedClient(t, repos, "Jane Doe")

	rec := &model.WashroomRecord{
		ClientID:     c.ID,
		WashroomType: model.WashroomA,
		TimeIn:       utc(2025, 3, 12, 10, 0),
		Date:         model.NewDate(utc(2025, 3, 12, 0, 0)),
	}
	require.NoError(t, repos.Washrooms.Create(ctx, rec))

	open, err := repos.Washrooms.OpenForStall(ctx, model.WashroomA, 0)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, rec.ID, open.ID)

	self, err := repos.Washrooms.OpenForStall(ctx, model.WashroomA, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, self)

	other, err := repos.Washrooms.OpenForStall(ctx, model.WashroomB, 0)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSafeSleepRepository_Occupancy(t *testing.T) {
	ctx := context.Background()
	repos := New(openTestDB(t))
	c := seedClient(t, repos, "Jane Doe")

	bed := 3
	rec := &model.SafeSleepRecord{ClientID: c.ID, Date: utc(2025, 3, 12, 21, 0), BedNo: &bed, IsOccupied: true}
	require.NoError(t, repos.SafeSleep.Create(ctx, rec))

	byBed, err := repos.SafeSleep.OccupiedBed(ctx, 3, 0)
	require.NoError(t, err)
	require.NotNil(t, byBed)

	byClient, err := repos.SafeSleep.OccupiedByClient(ctx, c.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, byClient)

	dup := &model.SafeSleepRecord{ClientID: c.ID, Date: utc(2025, 3, 12, 22, 0), IsOccupied: true}
	err = repos.SafeSleep.Create(ctx, dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestActivityRepository_AdjustAttendance(t *testing.T) {
	ctx := context.Background()
	repos := New(openTestDB(t))

	a := &model.Activity{Name: "Art", Date: model.NewDate(utc(2025, 3, 12, 0, 0))}
	require.NoError(t, repos.Activities.Create(ctx, a))

	require.NoError(t, repos.Activities.AdjustAttendance(ctx, a.ID, 2))
	require.NoError(t, repos.Activities.AdjustAttendance(ctx, a.ID, -5))

	got, err := repos.Activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Attendance)
}

func TestClientRepository_ReassignAndDeleteDependents(t *testing.T) {
	ctx := context.Background()
	repos := New(openTestDB(t))
	keep := seedClient(t, repos, "Jane Doe")
	dup := seedClient(t, repos, "Jane Doe")

	day := model.NewDate(utc(2025, 3, 12, 0, 0))
	require.NoError(t, repos.Sanctuary.Create(ctx, &model.SanctuaryRecord{ClientID: dup.ID, Date: day, TimeIn: utc(2025, 3, 12, 11, 0)}))
	require.NoError(t, repos.Clinic.Create(ctx, &model.ClinicRecord{ClientID: dup.ID, Date: utc(2025, 3, 12, 11, 0)}))

	require.NoError(t, repos.Clients.Reassign(ctx, []int64{dup.ID}, keep.ID))

	n, err := repos.Sanctuary.Count(ctx, Eq("client_id", keep.ID))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, repos.Clients.DeleteDependents(ctx, keep.ID))
	n, err = repos.Clinic.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUsageRepository_Queries(t *testing.T) {
	ctx := context.Background()
	repos := New(openTestDB(t))
	a := seedClient(t, repos, "Jane Doe")
	b := seedClient(t, repos, "John Doe")

	day := model.NewDate(utc(2025, 3, 12, 0, 0))
	out := utc(2025, 3, 12, 10, 30)
	require.NoError(t, repos.Washrooms.Create(ctx, &model.WashroomRecord{ClientID: a.ID, WashroomType: "A", TimeIn: utc(2025, 3, 12, 10, 0), TimeOut: &out, Date: day}))
	require.NoError(t, repos.Washrooms.Create(ctx, &model.WashroomRecord{ClientID: a.ID, WashroomType: "A", TimeIn: utc(2025, 3, 12, 14, 0), Date: day}))
	require.NoError(t, repos.Washrooms.Create(ctx, &model.WashroomRecord{ClientID: b.ID, WashroomType: "B", TimeIn: utc(2025, 3, 11, 9, 0), Date: model.NewDate(utc(2025, 3, 11, 0, 0))}))

	src := UsageSource{Table: "washroom_records", DateColumn: "date", TimeColumn: "time_in", DateOnly: true}
	p := calendar.ResolvePeriod(calendar.PeriodDay, utc(2025, 3, 12, 15, 0), time.UTC)

	n, err := repos.Usage.Count(ctx, src, p.DateBounds())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	ids, err := repos.Usage.DistinctClients(ctx, src, p.DateBounds())
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID}, ids)

	touches, err := repos.Usage.Touches(ctx, src, p.DateBounds())
	require.NoError(t, err)
	require.Len(t, touches, 2)
	for _, tc := range touches {
		require.NotNil(t, tc.At)
		assert.True(t, tc.Day.Equal(day.Time()))
	}

	latest, err := repos.Usage.Latest(ctx, src, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, 14, latest[0].At.UTC().Hour())
}

func TestWithinDays_BindsCalendarDates(t *testing.T) {
	gdb := openTestDB(t)
	// days are bound as plain dates, never as instants
	r := calendar.TimeRange{Start: utc(2025, 3, 12, 0, 0), End: utc(2025, 3, 13, 0, 0)}

	stmt := gdb.Session(&gorm.Session{DryRun: true}).
		Table("washroom_records").
		Scopes(WithinDays("date", r), FromDay("date", r.Start), BeforeDay("date", r.End)).
		Find(&[]model.WashroomRecord{}).Statement

	assert.Equal(t, []any{"2025-03-12", "2025-03-13", "2025-03-12", "2025-03-13"}, stmt.Vars)
}

func TestRepositories_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repos := New(openTestDB(t))

	err := repos.Transaction(ctx, func(tx *Repositories) error {
		if err := tx.Clients.Create(ctx, &model.Client{FullName: "Temp"}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	n, err := repos.Clients.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
