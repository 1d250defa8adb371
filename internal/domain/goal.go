package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal is a user-defined target, e.g. "Run 100 km" with Target 100 and Unit "km".
type Goal struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Target      float64            `bson:"target" json:"target"`
	Current     float64            `bson:"current" json:"current"`
	Unit        string             `bson:"unit,omitempty" json:"unit,omitempty"`
	Deadline    *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Completed   bool               `bson:"completed" json:"completed"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Progress returns completion as a percentage clamped to [0, 100].
func (g *Goal) Progress() float64 {
	if g.Target <= 0 {
		return 0
	}
	p := g.Current / g.Target * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// RefreshCompletion marks the goal completed once Current reaches Target and
// reopens it if progress drops back below.
func (g *Goal) RefreshCompletion(now time.Time) {
	reached := g.Target > 0 && g.Current >= g.Target
	switch {
	case reached && !g.Completed:
		g.Completed = true
		t := now.UTC()
		g.CompletedAt = &t
	case !reached && g.Completed:
		g.Completed = false
		g.CompletedAt = nil
	}
}
