package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an iFitness account. Regular users own workouts, goals and progress
// images; admins additionally manage other users and schedule events.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // unique, stored lowercased
	PasswordHash string             `bson:"passwordHash" json:"-"` // never exposed
	IsAdmin      bool               `bson:"isAdmin" json:"isAdmin"`

	// age, weight, height and fitnessGoal sit at the top level of the document
	Profile `bson:",inline"`

	Suspended       bool       `bson:"suspended" json:"suspended"`
	SuspendedReason string     `bson:"suspendedReason,omitempty" json:"suspendedReason,omitempty"`
	SuspendedAt     *time.Time `bson:"suspendedAt,omitempty" json:"suspendedAt,omitempty"`

	WeeklyRoutine []RoutineDay  `bson:"weeklyRoutine,omitempty" json:"weeklyRoutine"`
	Goals         []Goal        `bson:"goals,omitempty" json:"goals"`
	Achievements  []Achievement `bson:"achievements,omitempty" json:"achievements"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Profile holds the self-reported body metrics shown on the profile page.
type Profile struct {
	Age         int     `bson:"age,omitempty" json:"age,omitempty"`
	Weight      float64 `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	Height      float64 `bson:"height,omitempty" json:"height,omitempty"` // cm
	FitnessGoal string  `bson:"fitnessGoal,omitempty" json:"fitnessGoal,omitempty"`
}

// Suspension describes the suspension state reported to polling clients.
type Suspension struct {
	Suspended   bool       `json:"suspended"`
	Reason      string     `json:"reason,omitempty"`
	SuspendedAt *time.Time `json:"suspendedAt,omitempty"`
}

func (u *User) Suspension() Suspension {
	return Suspension{
		Suspended:   u.Suspended,
		Reason:      u.SuspendedReason,
		SuspendedAt: u.SuspendedAt,
	}
}

// FindGoal returns the goal with the given ID, or nil.
func (u *User) FindGoal(id primitive.ObjectID) *Goal {
	for i := range u.Goals {
		if u.Goals[i].ID == id {
			return &u.Goals[i]
		}
	}
	return nil
}

// HasAchievement reports whether the achievement key was already earned.
func (u *User) HasAchievement(key string) bool {
	for _, a := range u.Achievements {
		if a.Key == key {
			return true
		}
	}
	return false
}
