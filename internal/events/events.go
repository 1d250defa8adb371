package events

import "context"

// Subjects of the domain events published by the API.
const (
	SubjectUserRegistered  = "ifitness.user.registered"
	SubjectUserSuspended   = "ifitness.user.suspended"
	SubjectUserUnsuspended = "ifitness.user.unsuspended"
	SubjectUserDeleted     = "ifitness.user.deleted"
	SubjectWorkoutLogged   = "ifitness.workout.logged"
	SubjectEventCreated    = "ifitness.event.created"
	SubjectEventJoined     = "ifitness.event.joined"
)

// Publisher sends domain events. Payloads are JSON encoded.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close()
}

// UserEvent is the payload of the user.* subjects.
type UserEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Reason string `json:"reason,omitempty"`
	By     string `json:"by,omitempty"` // acting admin
}

// WorkoutEvent is the payload of workout.logged.
type WorkoutEvent struct {
	WorkoutID string `json:"workoutId"`
	UserID    string `json:"userId"`
	Duration  int    `json:"duration"`
	Calories  int    `json:"calories"`
}

// GroupEvent is the payload of the event.* subjects.
type GroupEvent struct {
	EventID string `json:"eventId"`
	Kind    string `json:"kind"`
	Title   string `json:"title,omitempty"`
	UserID  string `json:"userId,omitempty"`
}

// Noop discards events; used when NATS is not configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
func (Noop) Close()                                     {}
