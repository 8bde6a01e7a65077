package export

// PlanRow is one rendered line of a weekly plan export.
type PlanRow struct {
	Day       string
	Activity  string
	Category  string
	Duration  string
	StartTime string
	Completed string
}

// PlanDocument is the renderable form of a generated timetable.
type PlanDocument struct {
	Title     string
	WeekStart string
	WeekEnd   string
	Method    string
	Rows      []PlanRow
}

var planHeaders = []string{"Day", "Activity", "Category", "Duration", "Start", "Completed"}

func (r PlanRow) values() []string {
	return []string{r.Day, r.Activity, r.Category, r.Duration, r.StartTime, r.Completed}
}
