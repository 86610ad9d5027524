package stats

import "github.com/bilgann/The-Backdoor-Mission-Project/internal/repository"

// Department describes how one service table is measured.
type Department struct {
	Key    string // URL key, e.g. "coatcheck"
	Label  string // display label, e.g. "Coat Check"
	Color  string
	Source repository.UsageSource
}

// CalendarDate reports whether the date column holds a calendar date rather
// than a timestamp.
func (d Department) CalendarDate() bool { return d.Source.DateOnly }

// Timed reports whether entries carry a time-in.
func (d Department) Timed() bool { return d.Source.TimeColumn != "" }

var Departments = []Department{
	{
		Key: "washroom", Label: "Washroom", Color: "#6ECAEE",
		Source: repository.UsageSource{Table: "washroom_records", DateColumn: "date", TimeColumn: "time_in", DateOnly: true},
	},
	{
		Key: "coatcheck", Label: "Coat Check", Color: "#FE2323",
		Source: repository.UsageSource{Table: "coat_check_records", DateColumn: "date", TimeColumn: "time_in", DateOnly: true},
	},
	{
		Key: "sanctuary", Label: "Sanctuary", Color: "#D9F373",
		Source: repository.UsageSource{Table: "sanctuary_records", DateColumn: "date", TimeColumn: "time_in", DateOnly: true},
	},
	{
		Key: "clinic", Label: "Clinic", Color: "#FA488F",
		Source: repository.UsageSource{Table: "clinic_records", DateColumn: "date"},
	},
	{
		Key: "safesleep", Label: "Safe Sleep", Color: "#2C3B9C",
		Source: repository.UsageSource{Table: "safe_sleep_records", DateColumn: "date"},
	},
	{
		Key: "activity", Label: "Activity", Color: "#A8A8A8",
		Source: repository.UsageSource{Table: "client_activity", DateColumn: "date"},
	},
}

// DepartmentByKey looks a department up by its URL key.
func DepartmentByKey(key string) (Department, bool) {
	for _, d := range Departments {
		if d.Key == key {
			return d, true
		}
	}
	return Department{}, false
}
