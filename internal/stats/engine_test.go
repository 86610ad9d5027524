package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/config"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/db"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/repository"
)

// Wednesday, 3pm.
var fixedNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

func at(day, hour, min int) time.Time {
	return time.Date(2025, 3, day, hour, min, 0, 0, time.UTC)
}

func newTestEngine(t *testing.T) (*Engine, *repository.Repositories) {
	t.Helper()
	gdb, err := db.NewGormDB(&config.DBConfig{Driver: "sqlite", Path: ":memory:"}, gormlogger.Discard)
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	_, err = model.Migrate(gdb)
	require.NoError(t, err)

	repos := repository.New(gdb)
	e := NewEngine(repos.Usage, repos.Clients, Options{
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	})
	return e, repos
}

// seed stores two clients and a week of mixed activity:
//
//	ann: washroom Wed 10:00, coat check Wed 10:30, clinic Wed 11:00,
//	     activity Wed 11:00 (score 8), washroom Sat 10:00
//	bob: sanctuary Wed 20:00, safe sleep Tue 21:00, activity Wed 13:00 (score 6)
func seed(t *testing.T, repos *repository.Repositories) (ann, bob *model.Client) {
	t.Helper()
	ctx := context.Background()
	f := "F"
	ann = &model.Client{FullName: "Ann Lee", Gender: &f}
	bob = &model.Client{FullName: "Bob Marsh"}
	require.NoError(t, repos.Clients.Create(ctx, ann))
	require.NoError(t, repos.Clients.Create(ctx, bob))

	wed := model.NewDate(at(12, 0, 0))
	out := at(12, 10, 20)
	satOut := at(15, 10, 20)
	require.NoError(t, repos.Washrooms.Create(ctx, &model.WashroomRecord{ClientID: ann.ID, WashroomType: "A", TimeIn: at(12, 10, 0), TimeOut: &out, Date: wed}))
	require.NoError(t, repos.Washrooms.Create(ctx, &model.WashroomRecord{ClientID: ann.ID, WashroomType: "A", TimeIn: at(15, 10, 0), TimeOut: &satOut, Date: model.NewDate(at(15, 0, 0))}))
	require.NoError(t, repos.CoatChecks.Create(ctx, &model.CoatCheckRecord{ClientID: ann.ID, BinNo: 4, TimeIn: at(12, 10, 30), Date: wed}))
	require.NoError(t, repos.Clinic.Create(ctx, &model.ClinicRecord{ClientID: ann.ID, Date: at(12, 11, 0)}))
	require.NoError(t, repos.Sanctuary.Create(ctx, &model.SanctuaryRecord{ClientID: bob.ID, TimeIn: at(12, 20, 0), Date: wed}))
	require.NoError(t, repos.SafeSleep.Create(ctx, &model.SafeSleepRecord{ClientID: bob.ID, Date: at(11, 21, 0)}))

	art := &model.Activity{Name: "Art", Date: wed}
	require.NoError(t, repos.Activities.Create(ctx, art))
	eight, six := 8, 6
	require.NoError(t, repos.ClientActivities.Create(ctx, &model.ClientActivity{ClientID: ann.ID, ActivityID: art.ID, Date: at(12, 11, 0), Score: &eight}))
	require.NoError(t, repos.ClientActivities.Create(ctx, &model.ClientActivity{ClientID: bob.ID, ActivityID: art.ID, Date: at(12, 13, 0), Score: &six}))
	return ann, bob
}

func values(points []Point) []int {
	out := make([]int, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

func TestClientStatistics_EmptyDay(t *testing.T) {
	e, _ := newTestEngine(t)

	rep, err := e.ClientStatistics(context.Background(), "day")
	require.NoError(t, err)

	assert.Equal(t, "day", rep.Range)
	assert.Equal(t, "2025-03-12", rep.StartDate)
	assert.Equal(t, "2025-03-12", rep.EndDate)
	assert.Zero(t, rep.TotalClients)
	assert.Zero(t, rep.TotalVisitors)
	assert.Len(t, rep.ServiceBreakdown, 6)
	for label, n := range rep.ServiceBreakdown {
		assert.Zero(t, n, label)
	}
	require.Len(t, rep.ChartData, 10)
	assert.Equal(t, "9am", rep.ChartData[0].Label)
	assert.Equal(t, "6pm", rep.ChartData[9].Label)
	assert.Equal(t, make([]int, 10), values(rep.ChartData))
	assert.Empty(t, rep.GenderBreakdown)
}

func TestClientStatistics_Day(t *testing.T) {
	e, repos := newTestEngine(t)
	seed(t, repos)

	rep, err := e.ClientStatistics(context.Background(), "day")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{
		"Washroom":   1,
		"Coat Check": 1,
		"Sanctuary":  1,
		"Clinic":     1,
		"Safe Sleep": 0,
		"Activity":   2,
	}, rep.ServiceBreakdown)
	assert.Equal(t, 6, rep.TotalVisitors)
	assert.Equal(t, 2, rep.TotalClients)
	assert.LessOrEqual(t, rep.TotalClients, rep.TotalVisitors)

	// 10am holds the timed entries, 3pm the date-only ones, 8pm is dropped
	assert.Equal(t, []int{0, 2, 0, 0, 0, 0, 3, 0, 0, 0}, values(rep.ChartData))
	assert.Equal(t, []int{0, 1, 0, 0, 0, 0, 2, 0, 0, 0}, values(rep.UniqueChartData))
	assert.Equal(t, map[string]int{"F": 1, "U": 1}, rep.GenderBreakdown)
}

func TestClientStatistics_WeekMonthYear(t *testing.T) {
	e, repos := newTestEngine(t)
	seed(t, repos)
	ctx := context.Background()

	week, err := e.ClientStatistics(ctx, "week")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", week.StartDate)
	assert.Equal(t, "2025-03-16", week.EndDate)
	assert.Equal(t, 8, week.TotalVisitors)
	assert.Equal(t, 2, week.TotalClients)
	assert.Equal(t, []int{0, 1, 6, 0, 0, 1, 0}, values(week.ChartData))
	assert.Equal(t, []int{0, 1, 2, 0, 0, 1, 0}, values(week.UniqueChartData))
	assert.Equal(t, "Mon", week.ChartData[0].Label)

	month, err := e.ClientStatistics(ctx, "month")
	require.NoError(t, err)
	require.Len(t, month.ChartData, 31)
	assert.Equal(t, "12", month.ChartData[11].Label)
	assert.Equal(t, 6, month.ChartData[11].Value)

	year, err := e.ClientStatistics(ctx, "year")
	require.NoError(t, err)
	require.Len(t, year.ChartData, 12)
	assert.Equal(t, "Mar", year.ChartData[2].Label)
	assert.Equal(t, 8, year.ChartData[2].Value)
	assert.Equal(t, 2, year.UniqueChartData[2].Value)

	unknown, err := e.ClientStatistics(ctx, "fortnight")
	require.NoError(t, err)
	assert.Equal(t, "day", unknown.Range)
}

func TestDepartmentStatistics(t *testing.T) {
	e, repos := newTestEngine(t)
	seed(t, repos)
	ctx := context.Background()

	rep, err := e.DepartmentStatistics(ctx, "washroom", "week")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Washroom": 2}, rep.ServiceBreakdown)
	assert.Equal(t, 2, rep.TotalVisitors)
	assert.Equal(t, 1, rep.TotalClients)

	act, err := e.DepartmentStatistics(ctx, "activity", "day")
	require.NoError(t, err)
	assert.Equal(t, 2, act.TotalVisitors)
	assert.Equal(t, 2, act.ChartData[6].Value)

	_, err = e.DepartmentStatistics(ctx, "kitchen", "day")
	assert.ErrorIs(t, err, ErrUnknownDepartment)
}

func TestHeatmap(t *testing.T) {
	e, repos := newTestEngine(t)
	seed(t, repos)
	ctx := context.Background()

	wash, err := e.Heatmap(ctx, "washroom", "week")
	require.NoError(t, err)
	assert.Len(t, wash.Data, 5)
	assert.Equal(t, 1, wash.Data["Wednesday"]["10"])
	// Saturday is not on the grid
	assert.Equal(t, 1, wash.Total)

	clinic, err := e.Heatmap(ctx, "clinic", "week")
	require.NoError(t, err)
	assert.Equal(t, 1, clinic.Data["Wednesday"]["9"])

	sanctuary, err := e.Heatmap(ctx, "sanctuary", "week")
	require.NoError(t, err)
	assert.Zero(t, sanctuary.Total)
	assert.Equal(t, 0, sanctuary.Data["Monday"]["18"])

	_, err = e.Heatmap(ctx, "nope", "week")
	assert.ErrorIs(t, err, ErrUnknownDepartment)
}

func TestActivityScores(t *testing.T) {
	e, repos := newTestEngine(t)
	ctx := context.Background()

	empty, err := e.ActivityScores(ctx, "day")
	require.NoError(t, err)
	assert.Nil(t, empty.AverageScore)
	assert.Zero(t, empty.Responses)

	seed(t, repos)
	rep, err := e.ActivityScores(ctx, "day")
	require.NoError(t, err)
	require.NotNil(t, rep.AverageScore)
	assert.InDelta(t, 7.0, *rep.AverageScore, 0.001)
	assert.Equal(t, 2, rep.Responses)
	assert.InDelta(t, 8.0, rep.ChartData[2].Value, 0.001)
	assert.InDelta(t, 6.0, rep.ChartData[4].Value, 0.001)
}

func TestRecent(t *testing.T) {
	e, repos := newTestEngine(t)
	seed(t, repos)
	ctx := context.Background()

	recent, err := e.Recent(ctx, 3, false)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "Washroom", recent[0].Service)
	assert.Equal(t, "2025-03-15", recent[0].Date)
	assert.Equal(t, "#6ECAEE", recent[0].Color)
	assert.Equal(t, "Ann Lee", recent[0].Name)
	assert.Equal(t, "Sanctuary", recent[1].Service)
	assert.Equal(t, "Activity", recent[2].Service)

	deduped, err := e.Recent(ctx, 3, true)
	require.NoError(t, err)
	require.Len(t, deduped, 2)
	assert.Equal(t, "Ann Lee", deduped[0].Name)
	assert.Equal(t, "Bob Marsh", deduped[1].Name)
}
