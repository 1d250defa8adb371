package domain

import (
	"sort"
	"time"
)

// WorkoutStats summarises a user's training history for the dashboard.
type WorkoutStats struct {
	TotalWorkouts int `json:"totalWorkouts"`
	TotalDuration int `json:"totalDuration"` // minutes
	TotalCalories int `json:"totalCalories"`
	CurrentStreak int `json:"currentStreak"` // consecutive days
	LongestStreak int `json:"longestStreak"`
	ThisWeek      int `json:"thisWeek"` // workouts since Monday
	EventsJoined  int `json:"eventsJoined"`
}

// ComputeStats derives WorkoutStats from workouts as of now. Days are
// calendar days in now's location.
func ComputeStats(workouts []Workout, now time.Time) WorkoutStats {
	stats := WorkoutStats{TotalWorkouts: len(workouts)}
	dates := make([]time.Time, 0, len(workouts))
	weekStart := startOfWeek(now)

	for _, w := range workouts {
		stats.TotalDuration += w.Duration
		stats.TotalCalories += w.CaloriesBurned
		dates = append(dates, w.Date)
		d := w.Date.In(now.Location())
		if !d.Before(weekStart) && !d.After(now) {
			stats.ThisWeek++
		}
	}

	days := distinctDays(dates, now.Location())
	stats.CurrentStreak = currentStreak(days, now)
	stats.LongestStreak = longestStreak(days)
	return stats
}

// day is a calendar date without time of day.
type day struct {
	y int
	m time.Month
	d int
}

func dayOf(t time.Time) day {
	y, m, d := t.Date()
	return day{y, m, d}
}

func (d day) time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC)
}

func (d day) prev() day {
	return dayOf(d.time().AddDate(0, 0, -1))
}

// distinctDays returns the unique calendar days, newest first.
func distinctDays(dates []time.Time, loc *time.Location) []day {
	seen := make(map[day]struct{}, len(dates))
	out := make([]day, 0, len(dates))
	for _, t := range dates {
		d := dayOf(t.In(loc))
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].time().After(out[j].time()) })
	return out
}

// currentStreak counts consecutive days ending today. A streak that ended
// yesterday is still alive because today's workout may not be logged yet.
func currentStreak(days []day, now time.Time) int {
	if len(days) == 0 {
		return 0
	}
	today := dayOf(now)
	// Skip days in the future (workouts scheduled ahead).
	i := 0
	for i < len(days) && days[i].time().After(today.time()) {
		i++
	}
	if i == len(days) {
		return 0
	}

	expect := today
	if days[i] != today {
		expect = today.prev()
		if days[i] != expect {
			return 0
		}
	}

	streak := 0
	for ; i < len(days) && days[i] == expect; i++ {
		streak++
		expect = expect.prev()
	}
	return streak
}

// longestStreak returns the longest run of consecutive days. days must be newest first.
func longestStreak(days []day) int {
	if len(days) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i] == days[i-1].prev() {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
		}
	}
	return best
}

func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
