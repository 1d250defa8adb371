package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty levels shared by the exercise catalog and scheduled events.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// IsValidDifficulty reports whether d is one of the known levels.
func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Exercise is an entry in the shared exercise catalog.
type Exercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Category     string             `bson:"category" json:"category"`       // e.g. "strength", "cardio"
	MuscleGroup  string             `bson:"muscleGroup" json:"muscleGroup"` // e.g. "chest", "legs"
	Difficulty   string             `bson:"difficulty" json:"difficulty"`
	Instructions string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Equipment    string             `bson:"equipment,omitempty" json:"equipment,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseFilter selects catalog entries. Empty fields match everything.
type ExerciseFilter struct {
	Category    string
	MuscleGroup string
	Difficulty  string
	Query       string // case-insensitive name match
}

// IsZero reports whether the filter matches the whole catalog.
func (f ExerciseFilter) IsZero() bool {
	return f == ExerciseFilter{}
}
