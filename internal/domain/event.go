package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventKind distinguishes the two kinds of admin-scheduled group events.
type EventKind string

const (
	KindBootcamp EventKind = "bootcamp"
	KindOutdoor  EventKind = "outdoor"
)

// Label is the human readable name used in emails.
func (k EventKind) Label() string {
	if k == KindOutdoor {
		return "outdoor activity"
	}
	return "bootcamp"
}

// EventStatus is derived from the event window, never stored.
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventActive    EventStatus = "active"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// IsValidEventStatus reports whether s names a lifecycle state.
func IsValidEventStatus(s EventStatus) bool {
	switch s {
	case EventUpcoming, EventActive, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// ParticipantStatus records a user's answer to an event invitation.
type ParticipantStatus string

const (
	ParticipantAccepted ParticipantStatus = "accepted"
	ParticipantDeclined ParticipantStatus = "declined"
)

// Participant is a user's answer to an event. There is at most one entry per user.
type Participant struct {
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	AcceptedAt time.Time          `bson:"acceptedAt" json:"acceptedAt"` // time of the latest answer
	Status     ParticipantStatus  `bson:"status" json:"status"`
}

// Event is a bootcamp or outdoor activity with a fixed time window.
type Event struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind            EventKind          `bson:"kind" json:"kind"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Location        string             `bson:"location,omitempty" json:"location,omitempty"`
	Difficulty      string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	StartTime       time.Time          `bson:"startTime" json:"startTime"`
	EndTime         time.Time          `bson:"endTime" json:"endTime"`
	MaxParticipants int                `bson:"maxParticipants" json:"maxParticipants"` // 0 means unlimited
	Cancelled       bool               `bson:"cancelled" json:"cancelled"`
	Participants    []Participant      `bson:"participants" json:"participants"`
	CreatedBy       primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// StatusAt computes the lifecycle state at instant now. The window is half-open:
// an event is active from StartTime up to, but excluding, EndTime.
func (e *Event) StatusAt(now time.Time) EventStatus {
	switch {
	case e.Cancelled:
		return EventCancelled
	case now.Before(e.StartTime):
		return EventUpcoming
	case now.Before(e.EndTime):
		return EventActive
	default:
		return EventCompleted
	}
}

// IsOpenAt reports whether users may still answer the invitation.
func (e *Event) IsOpenAt(now time.Time) bool {
	s := e.StatusAt(now)
	return s == EventUpcoming || s == EventActive
}

// Participant returns the entry for userID, or nil.
func (e *Event) Participant(userID primitive.ObjectID) *Participant {
	for i := range e.Participants {
		if e.Participants[i].UserID == userID {
			return &e.Participants[i]
		}
	}
	return nil
}

// AcceptedCount is the number of users who accepted.
func (e *Event) AcceptedCount() int {
	n := 0
	for _, p := range e.Participants {
		if p.Status == ParticipantAccepted {
			n++
		}
	}
	return n
}

// IsFull reports whether the capacity limit has been reached.
func (e *Event) IsFull() bool {
	return e.MaxParticipants > 0 && e.AcceptedCount() >= e.MaxParticipants
}

// AcceptedUserIDs lists the users who accepted.
func (e *Event) AcceptedUserIDs() []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, p := range e.Participants {
		if p.Status == ParticipantAccepted {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

// EventFilter narrows event listings.
type EventFilter struct {
	Kind          EventKind
	ParticipantID *primitive.ObjectID // only events this user accepted
}

// CurrentEvent picks what a countdown banner should show: the earliest active
// event, otherwise the soonest upcoming one. Returns nil if neither exists.
func CurrentEvent(events []Event, now time.Time) *Event {
	var active, next *Event
	for i := range events {
		e := &events[i]
		switch e.StatusAt(now) {
		case EventActive:
			if active == nil || e.StartTime.Before(active.StartTime) {
				active = e
			}
		case EventUpcoming:
			if next == nil || e.StartTime.Before(next.StartTime) {
				next = e
			}
		}
	}
	if active != nil {
		return active
	}
	return next
}
