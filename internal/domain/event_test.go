package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEvent_StatusAt(t *testing.T) {
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	e := Event{StartTime: start, EndTime: start.Add(time.Hour)}

	testCases := []struct {
		name string
		now  time.Time
		want EventStatus
	}{
		{"before start", start.Add(-time.Second), EventUpcoming},
		{"at start", start, EventActive},
		{"midway", start.Add(30 * time.Minute), EventActive},
		{"at end", start.Add(time.Hour), EventCompleted},
		{"after end", start.Add(48 * time.Hour), EventCompleted},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.StatusAt(tc.now))
		})
	}

	e.Cancelled = true
	assert.Equal(t, EventCancelled, e.StatusAt(start.Add(-time.Hour)))
	assert.False(t, e.IsOpenAt(start.Add(-time.Hour)))
}

func TestEvent_Participants(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	e := Event{
		MaxParticipants: 2,
		Participants: []Participant{
			{UserID: a, Status: ParticipantAccepted},
			{UserID: b, Status: ParticipantDeclined},
		},
	}

	assert.Equal(t, 1, e.AcceptedCount())
	assert.False(t, e.IsFull())
	assert.Equal(t, []primitive.ObjectID{a}, e.AcceptedUserIDs())
	assert.NotNil(t, e.Participant(b))
	assert.Nil(t, e.Participant(c))

	e.Participants = append(e.Participants, Participant{UserID: c, Status: ParticipantAccepted})
	assert.True(t, e.IsFull())

	e.MaxParticipants = 0
	assert.False(t, e.IsFull())
}

func TestCurrentEvent(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	past := Event{Title: "past", StartTime: now.Add(-3 * time.Hour), EndTime: now.Add(-2 * time.Hour)}
	soon := Event{Title: "soon", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)}
	later := Event{Title: "later", StartTime: now.Add(24 * time.Hour), EndTime: now.Add(25 * time.Hour)}
	live := Event{Title: "live", StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)}
	cancelled := Event{Title: "cancelled", StartTime: now.Add(30 * time.Minute), EndTime: now.Add(time.Hour), Cancelled: true}

	assert.Nil(t, CurrentEvent(nil, now))
	assert.Nil(t, CurrentEvent([]Event{past}, now))
	assert.Equal(t, "soon", CurrentEvent([]Event{later, past, cancelled, soon}, now).Title)
	assert.Equal(t, "live", CurrentEvent([]Event{soon, live, later}, now).Title)
}
