package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a logged training session owned by exactly one user.
type Workout struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Duration       int                `bson:"duration" json:"duration"` // minutes
	CaloriesBurned int                `bson:"caloriesBurned" json:"caloriesBurned"`
	Date           time.Time          `bson:"date" json:"date"`
	Exercises      []WorkoutExercise  `bson:"exercises,omitempty" json:"exercises"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutExercise is one exercise performed within a workout. ExerciseID links
// to the catalog when the exercise was picked from it.
type WorkoutExercise struct {
	ExerciseID *primitive.ObjectID `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"`
	Name       string              `bson:"name" json:"name"`
	Sets       int                 `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps       int                 `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight     float64             `bson:"weight,omitempty" json:"weight,omitempty"`
	Duration   int                 `bson:"duration,omitempty" json:"duration,omitempty"`
	Notes      string              `bson:"notes,omitempty" json:"notes,omitempty"`
}

// WorkoutFilter narrows a user's workout listing. Zero times mean unbounded.
type WorkoutFilter struct {
	From time.Time
	To   time.Time
}
