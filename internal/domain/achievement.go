package domain

import "time"

// Achievement is a milestone a user has earned.
type Achievement struct {
	Key         string    `bson:"key" json:"key"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	EarnedAt    time.Time `bson:"earnedAt" json:"earnedAt"`
}

// Milestone defines an achievement and the rule for earning it.
type Milestone struct {
	Key         string
	Title       string
	Description string
	Earned      func(WorkoutStats) bool
}

// Milestones is the fixed achievement catalog, in display order.
var Milestones = []Milestone{
	{"first_workout", "First Step", "Logged your first workout", func(s WorkoutStats) bool { return s.TotalWorkouts >= 1 }},
	{"workouts_10", "Getting Serious", "Logged 10 workouts", func(s WorkoutStats) bool { return s.TotalWorkouts >= 10 }},
	{"workouts_50", "Dedicated", "Logged 50 workouts", func(s WorkoutStats) bool { return s.TotalWorkouts >= 50 }},
	{"workouts_100", "Centurion", "Logged 100 workouts", func(s WorkoutStats) bool { return s.TotalWorkouts >= 100 }},
	{"streak_3", "Warming Up", "Worked out 3 days in a row", func(s WorkoutStats) bool { return s.LongestStreak >= 3 }},
	{"streak_7", "Week Warrior", "Worked out 7 days in a row", func(s WorkoutStats) bool { return s.LongestStreak >= 7 }},
	{"streak_30", "Unstoppable", "Worked out 30 days in a row", func(s WorkoutStats) bool { return s.LongestStreak >= 30 }},
	{"hours_10", "Ten Hours In", "Trained for a total of 10 hours", func(s WorkoutStats) bool { return s.TotalDuration >= 600 }},
	{"calories_10k", "Furnace", "Burned 10,000 calories", func(s WorkoutStats) bool { return s.TotalCalories >= 10000 }},
	{"first_event", "Team Player", "Joined your first group event", func(s WorkoutStats) bool { return s.EventsJoined >= 1 }},
}

// NewAchievements returns milestones earned under stats that are not in
// already, stamped with now.
func NewAchievements(stats WorkoutStats, already []Achievement, now time.Time) []Achievement {
	have := make(map[string]bool, len(already))
	for _, a := range already {
		have[a.Key] = true
	}
	var out []Achievement
	for _, m := range Milestones {
		if have[m.Key] || !m.Earned(stats) {
			continue
		}
		out = append(out, Achievement{
			Key:         m.Key,
			Title:       m.Title,
			Description: m.Description,
			EarnedAt:    now.UTC(),
		})
	}
	return out
}
