package domain

import (
	"strings"
	"time"
)

// RoutineDay is one weekday of a user's admin-assigned weekly routine.
type RoutineDay struct {
	Day       string            `bson:"day" json:"day"` // "Monday" … "Sunday"
	Workout   string            `bson:"workout" json:"workout"`
	Exercises []RoutineExercise `bson:"exercises,omitempty" json:"exercises"`
}

type RoutineExercise struct {
	Name     string `bson:"name" json:"name"`
	Sets     int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps     string `bson:"reps,omitempty" json:"reps,omitempty"` // "8-12", "AMRAP"
	Duration int    `bson:"duration,omitempty" json:"duration,omitempty"`
	Notes    string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ParseWeekday accepts full or three-letter English day names in any case.
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, true
		}
	}
	return 0, false
}

// NormalizeRoutine canonicalises day names, rejects unknown days and keeps
// at most one entry per weekday (a later entry wins). The result is ordered
// Monday first.
func NormalizeRoutine(days []RoutineDay) ([]RoutineDay, bool) {
	byDay := make(map[time.Weekday]RoutineDay, len(days))
	for _, d := range days {
		wd, ok := ParseWeekday(d.Day)
		if !ok {
			return nil, false
		}
		d.Day = wd.String()
		byDay[wd] = d
	}

	out := make([]RoutineDay, 0, len(byDay))
	for i := 1; i <= 7; i++ {
		wd := time.Weekday(i % 7)
		if d, ok := byDay[wd]; ok {
			out = append(out, d)
		}
	}
	return out, true
}

// RoutineFor returns the routine entry for the weekday of t, or nil (rest day).
func RoutineFor(routine []RoutineDay, t time.Time) *RoutineDay {
	for i := range routine {
		if wd, ok := ParseWeekday(routine[i].Day); ok && wd == t.Weekday() {
			return &routine[i]
		}
	}
	return nil
}
