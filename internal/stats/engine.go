package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/calendar"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/repository"
)

var ErrUnknownDepartment = errors.New("unknown department")

// UsageReader is the read side of the record store.
type UsageReader interface {
	Count(ctx context.Context, src repository.UsageSource, r calendar.TimeRange) (int64, error)
	DistinctClients(ctx context.Context, src repository.UsageSource, r calendar.TimeRange) ([]int64, error)
	Touches(ctx context.Context, src repository.UsageSource, r calendar.TimeRange) ([]repository.Touch, error)
	Latest(ctx context.Context, src repository.UsageSource, limit int) ([]repository.Touch, error)
	Scores(ctx context.Context, r calendar.TimeRange) ([]repository.Score, error)
}

// ClientLookup resolves client ids to clients.
type ClientLookup interface {
	Lookup(ctx context.Context, ids []int64) (map[int64]model.Client, error)
}

type Options struct {
	Location *time.Location
	Now      func() time.Time
	Logger   *zap.Logger
}

// Engine computes every usage statistic from one set of bucketing and
// counting rules.
type Engine struct {
	usage   UsageReader
	clients ClientLookup
	loc     *time.Location
	now     func() time.Time
	log     *zap.Logger
}

func NewEngine(usage UsageReader, clients ClientLookup, opts Options) *Engine {
	e := &Engine{usage: usage, clients: clients, loc: opts.Location, now: opts.Now, log: opts.Logger}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

type Point struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type Report struct {
	Range            string         `json:"range"`
	StartDate        string         `json:"start_date"`
	EndDate          string         `json:"end_date"`
	TotalClients     int            `json:"total_clients"`
	TotalVisitors    int            `json:"total_visitors"`
	ServiceBreakdown map[string]int `json:"service_breakdown"`
	GenderBreakdown  map[string]int `json:"gender_breakdown"`
	ChartData        []Point        `json:"chart_data"`
	UniqueChartData  []Point        `json:"unique_chart_data"`
}

// ClientStatistics aggregates all six services.
func (e *Engine) ClientStatistics(ctx context.Context, rangeKeyword string) (*Report, error) {
	return e.report(ctx, Departments, calendar.ParsePeriodKind(rangeKeyword))
}

// DepartmentStatistics aggregates a single service.
func (e *Engine) DepartmentStatistics(ctx context.Context, key, rangeKeyword string) (*Report, error) {
	d, ok := DepartmentByKey(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, key)
	}
	return e.report(ctx, []Department{d}, calendar.ParsePeriodKind(rangeKeyword))
}

func (e *Engine) period(kind calendar.PeriodKind) calendar.Period {
	return calendar.ResolvePeriod(kind, e.now(), e.loc)
}

// bounds picks the range matching the type of the department's date column.
func (e *Engine) bounds(d Department, p calendar.Period) calendar.TimeRange {
	if d.CalendarDate() {
		return p.DateBounds()
	}
	return p.InstantBounds()
}

func (e *Engine) dayOf(d Department, t repository.Touch) time.Time {
	if d.CalendarDate() {
		return calendar.DayOf(t.Day, time.UTC)
	}
	return calendar.DayOf(t.Day, e.loc)
}

// bucketOf places one entry into Buckets(p), or returns -1.
//
// In the hourly layout timed entries go by their time-in hour, and entries
// without a time-in all fall into the current hour clamped to opening hours.
func (e *Engine) bucketOf(p calendar.Period, d Department, t repository.Touch) int {
	hour := -1
	if p.Kind == calendar.PeriodDay {
		if d.Timed() {
			if t.At == nil {
				return -1
			}
			hour = t.At.In(e.loc).Hour()
		} else {
			hour = calendar.ClampHour(p.Now.Hour())
		}
	}
	return calendar.BucketIndex(p, e.dayOf(d, t), hour)
}

func (e *Engine) report(ctx context.Context, depts []Department, kind calendar.PeriodKind) (*Report, error) {
	p := e.period(kind)
	buckets := calendar.Buckets(p)

	visits := make([]int, len(buckets))
	uniques := make([]map[int64]struct{}, len(buckets))
	for i := range uniques {
		uniques[i] = make(map[int64]struct{})
	}
	clients := make(map[int64]struct{})

	rep := &Report{
		Range:            string(p.Kind),
		StartDate:        p.First.Format(model.DateLayout),
		EndDate:          p.Last.Format(model.DateLayout),
		ServiceBreakdown: make(map[string]int, len(depts)),
	}

	for _, d := range depts {
		r := e.bounds(d, p)

		n, err := e.usage.Count(ctx, d.Source, r)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", d.Key, err)
		}
		rep.ServiceBreakdown[d.Label] = int(n)
		rep.TotalVisitors += int(n)

		ids, err := e.usage.DistinctClients(ctx, d.Source, r)
		if err != nil {
			return nil, fmt.Errorf("distinct clients %s: %w", d.Key, err)
		}
		for _, id := range ids {
			clients[id] = struct{}{}
		}

		touches, err := e.usage.Touches(ctx, d.Source, r)
		if err != nil {
			return nil, fmt.Errorf("entries %s: %w", d.Key, err)
		}
		for _, t := range touches {
			idx := e.bucketOf(p, d, t)
			if idx < 0 {
				continue
			}
			visits[idx]++
			uniques[idx][t.ClientID] = struct{}{}
		}
	}
	rep.TotalClients = len(clients)

	rep.ChartData = make([]Point, len(buckets))
	rep.UniqueChartData = make([]Point, len(buckets))
	for i, b := range buckets {
		rep.ChartData[i] = Point{Label: b.Label, Value: visits[i]}
		rep.UniqueChartData[i] = Point{Label: b.Label, Value: len(uniques[i])}
	}

	genders, err := e.genderBreakdown(ctx, clients)
	if err != nil {
		return nil, err
	}
	rep.GenderBreakdown = genders

	e.log.Debug("statistics computed",
		zap.String("range", rep.Range),
		zap.Int("departments", len(depts)),
		zap.Int("total_clients", rep.TotalClients),
		zap.Int("total_visitors", rep.TotalVisitors),
	)
	return rep, nil
}

// genderBreakdown counts distinct clients per gender code, "U" when unknown.
func (e *Engine) genderBreakdown(ctx context.Context, clients map[int64]struct{}) (map[string]int, error) {
	out := map[string]int{}
	if len(clients) == 0 {
		return out, nil
	}
	ids := make([]int64, 0, len(clients))
	for id := range clients {
		ids = append(ids, id)
	}
	byID, err := e.clients.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup clients: %w", err)
	}
	for _, id := range ids {
		g := "U"
		if c, ok := byID[id]; ok && c.Gender != nil && strings.TrimSpace(*c.Gender) != "" {
			g = strings.ToUpper(strings.TrimSpace(*c.Gender))
		}
		out[g]++
	}
	return out, nil
}

// Weekdays and hours covered by the heatmap grid.
var (
	HeatmapDays  = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	HeatmapHours = []int{9, 10, 11, 12, 13, 14, 15, 16, 17, 18}
)

type Heatmap struct {
	Department string                    `json:"dept"`
	Range      string                    `json:"range"`
	StartDate  string                    `json:"start_date"`
	EndDate    string                    `json:"end_date"`
	Days       []string                  `json:"days"`
	Hours      []int                     `json:"hours"`
	Total      int                       `json:"total"`
	Data       map[string]map[string]int `json:"data"`
}

// Heatmap counts one department's entries on a weekday by hour grid. Entries
// without a time-in land in the first hour; weekend and out-of-hours entries
// are left out.
func (e *Engine) Heatmap(ctx context.Context, key, rangeKeyword string) (*Heatmap, error) {
	d, ok := DepartmentByKey(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, key)
	}
	p := e.period(calendar.ParsePeriodKind(rangeKeyword))

	hm := &Heatmap{
		Department: d.Key,
		Range:      string(p.Kind),
		StartDate:  p.First.Format(model.DateLayout),
		EndDate:    p.Last.Format(model.DateLayout),
		Days:       HeatmapDays,
		Hours:      HeatmapHours,
		Data:       make(map[string]map[string]int, len(HeatmapDays)),
	}
	for _, day := range HeatmapDays {
		row := make(map[string]int, len(HeatmapHours))
		for _, h := range HeatmapHours {
			row[strconv.Itoa(h)] = 0
		}
		hm.Data[day] = row
	}

	touches, err := e.usage.Touches(ctx, d.Source, e.bounds(d, p))
	if err != nil {
		return nil, fmt.Errorf("entries %s: %w", d.Key, err)
	}
	for _, t := range touches {
		wd := e.dayOf(d, t).Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		hour := calendar.FirstHour
		if d.Timed() && t.At != nil {
			hour = t.At.In(e.loc).Hour()
		}
		if hour < calendar.FirstHour || hour > calendar.LastHour {
			continue
		}
		hm.Data[wd.String()][strconv.Itoa(hour)]++
		hm.Total++
	}
	return hm, nil
}

type ScorePoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type ScoreReport struct {
	Range        string       `json:"range"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	AverageScore *float64     `json:"average_score"`
	Responses    int          `json:"responses"`
	ChartData    []ScorePoint `json:"chart_data"`
}

// ActivityScores averages satisfaction scores over the period and per bucket.
// Scores are placed by the hour they were recorded at.
func (e *Engine) ActivityScores(ctx context.Context, rangeKeyword string) (*ScoreReport, error) {
	p := e.period(calendar.ParsePeriodKind(rangeKeyword))
	buckets := calendar.Buckets(p)

	scores, err := e.usage.Scores(ctx, p.InstantBounds())
	if err != nil {
		return nil, fmt.Errorf("scores: %w", err)
	}

	sums := make([]int, len(buckets))
	counts := make([]int, len(buckets))
	total := 0
	for _, s := range scores {
		total += s.Score
		hour := -1
		if p.Kind == calendar.PeriodDay {
			hour = s.Date.In(e.loc).Hour()
		}
		idx := calendar.BucketIndex(p, calendar.DayOf(s.Date, e.loc), hour)
		if idx < 0 {
			continue
		}
		sums[idx] += s.Score
		counts[idx]++
	}

	rep := &ScoreReport{
		Range:     string(p.Kind),
		StartDate: p.First.Format(model.DateLayout),
		EndDate:   p.Last.Format(model.DateLayout),
		Responses: len(scores),
		ChartData: make([]ScorePoint, len(buckets)),
	}
	if len(scores) > 0 {
		avg := round2(float64(total) / float64(len(scores)))
		rep.AverageScore = &avg
	}
	for i, b := range buckets {
		v := 0.0
		if counts[i] > 0 {
			v = round2(float64(sums[i]) / float64(counts[i]))
		}
		rep.ChartData[i] = ScorePoint{Label: b.Label, Value: v}
	}
	return rep, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type RecentEntry struct {
	ClientID int64  `json:"client_id"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Service  string `json:"service"`
	Color    string `json:"color"`

	at time.Time
}

// Recent merges the newest entries of every service, newest first. With
// dedupe only the newest entry per client is kept. Client names are resolved;
// entries of missing clients are labelled "Client #<id>".
func (e *Engine) Recent(ctx context.Context, limit int, dedupe bool) ([]RecentEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var entries []RecentEntry
	for _, d := range Departments {
		// with dedupe a single client can crowd out the others
		fetch := limit
		if dedupe {
			fetch = limit * 5
		}
		touches, err := e.usage.Latest(ctx, d.Source, fetch)
		if err != nil {
			return nil, fmt.Errorf("latest %s: %w", d.Key, err)
		}
		for _, t := range touches {
			at := t.Day
			if t.At != nil {
				at = *t.At
			}
			entries = append(entries, RecentEntry{
				ClientID: t.ClientID,
				Date:     e.dayOf(d, t).Format(model.DateLayout),
				Service:  d.Label,
				Color:    d.Color,
				at:       at,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].at.After(entries[j].at) })

	out := make([]RecentEntry, 0, limit)
	seen := make(map[int64]struct{})
	for _, en := range entries {
		if len(out) == limit {
			break
		}
		if dedupe {
			if _, ok := seen[en.ClientID]; ok {
				continue
			}
			seen[en.ClientID] = struct{}{}
		}
		out = append(out, en)
	}

	ids := make([]int64, 0, len(out))
	for _, en := range out {
		ids = append(ids, en.ClientID)
	}
	byID, err := e.clients.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup clients: %w", err)
	}
	for i := range out {
		if c, ok := byID[out[i].ClientID]; ok {
			out[i].Name = c.FullName
		} else {
			out[i].Name = fmt.Sprintf("Client #%d", out[i].ClientID)
		}
	}
	return out, nil
}
