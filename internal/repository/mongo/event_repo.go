package mongo

import (
	"context"
	"errors"
	"time"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const eventCollectionName = "events"

// mongoEventRepository implements repository.EventRepository. Bootcamps and
// outdoor activities share one collection, discriminated by kind.
type mongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates a new event repository backed by MongoDB.
func NewMongoEventRepository(db *mongo.Database) repository.EventRepository {
	return &mongoEventRepository{
		collection: db.Collection(eventCollectionName),
	}
}

func (r *mongoEventRepository) Create(ctx context.Context, event *domain.Event) (primitive.ObjectID, error) {
	if event.Kind == "" || event.Title == "" {
		return primitive.NilObjectID, errors.New("event requires kind and title")
	}

	event.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Participants == nil {
		event.Participants = []domain.Participant{}
	}

	if _, err := r.collection.InsertOne(ctx, event); err != nil {
		return primitive.NilObjectID, err
	}
	return event.ID, nil
}

func (r *mongoEventRepository) GetByID(ctx context.Context, id primitive.ObjectID, kind domain.EventKind) (*domain.Event, error) {
	var event domain.Event
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "kind": kind}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// List returns events ordered by start time.
func (r *mongoEventRepository) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	query := bson.M{}
	if filter.Kind != "" {
		query["kind"] = filter.Kind
	}
	if filter.ParticipantID != nil {
		query["participants"] = bson.M{"$elemMatch": bson.M{
			"userId": *filter.ParticipantID,
			"status": domain.ParticipantAccepted,
		}}
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []domain.Event{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Update changes the descriptive fields and window. Participants are only
// touched by the acceptance methods.
func (r *mongoEventRepository) Update(ctx context.Context, event *domain.Event) error {
	event.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"title":           event.Title,
			"description":     event.Description,
			"location":        event.Location,
			"difficulty":      event.Difficulty,
			"startTime":       event.StartTime,
			"endTime":         event.EndTime,
			"maxParticipants": event.MaxParticipants,
			"updatedAt":       event.UpdatedAt,
		},
	}
	return r.updateOne(ctx, bson.M{"_id": event.ID, "kind": event.Kind}, update)
}

func (r *mongoEventRepository) SetCancelled(ctx context.Context, id primitive.ObjectID, kind domain.EventKind) error {
	update := bson.M{"$set": bson.M{"cancelled": true, "updatedAt": time.Now().UTC()}}
	return r.updateOne(ctx, bson.M{"_id": id, "kind": kind}, update)
}

func (r *mongoEventRepository) Delete(ctx context.Context, id primitive.ObjectID, kind domain.EventKind) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "kind": kind})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoEventRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddAcceptance is a single conditional update: the filter only matches while
// the user has not accepted and an accepted slot is free, and the pipeline
// swaps any earlier decline for the acceptance.
func (r *mongoEventRepository) AddAcceptance(ctx context.Context, id primitive.ObjectID, kind domain.EventKind, userID primitive.ObjectID, at time.Time) error {
	participant := domain.Participant{UserID: userID, AcceptedAt: at.UTC(), Status: domain.ParticipantAccepted}
	result, err := r.collection.UpdateOne(ctx, acceptanceFilter(id, kind, userID), acceptanceUpdate(participant))
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	event, err := r.GetByID(ctx, id, kind)
	if err != nil {
		return err
	}
	if p := event.Participant(userID); p != nil && p.Status == domain.ParticipantAccepted {
		return repository.ErrConflict
	}
	return repository.ErrCapacity
}

func participantsOrEmpty() bson.M {
	return bson.M{"$ifNull": bson.A{"$participants", bson.A{}}}
}

func acceptanceFilter(id primitive.ObjectID, kind domain.EventKind, userID primitive.ObjectID) bson.M {
	accepted := bson.M{"$size": bson.M{"$filter": bson.M{
		"input": participantsOrEmpty(),
		"cond":  bson.M{"$eq": bson.A{"$$this.status", domain.ParticipantAccepted}},
	}}}
	return bson.M{
		"_id":  id,
		"kind": kind,
		"participants": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"userId": userID,
			"status": domain.ParticipantAccepted,
		}}},
		// maxParticipants 0 means unlimited
		"$expr": bson.M{"$or": bson.A{
			bson.M{"$lte": bson.A{"$maxParticipants", 0}},
			bson.M{"$lt": bson.A{accepted, "$maxParticipants"}},
		}},
	}
}

func acceptanceUpdate(participant domain.Participant) mongo.Pipeline {
	others := bson.M{"$filter": bson.M{
		"input": participantsOrEmpty(),
		"cond":  bson.M{"$ne": bson.A{"$$this.userId", participant.UserID}},
	}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"participants": bson.M{"$concatArrays": bson.A{others, bson.A{bson.M{"$literal": participant}}}},
			"updatedAt":    time.Now().UTC(),
		}}},
	}
}

func (r *mongoEventRepository) SetDecline(ctx context.Context, id primitive.ObjectID, kind domain.EventKind, userID primitive.ObjectID, at time.Time) error {
	if err := r.updateOne(ctx,
		bson.M{"_id": id, "kind": kind},
		bson.M{"$pull": bson.M{"participants": bson.M{"userId": userID}}},
	); err != nil {
		return err
	}
	participant := domain.Participant{UserID: userID, AcceptedAt: at.UTC(), Status: domain.ParticipantDeclined}
	return r.updateOne(ctx,
		bson.M{"_id": id, "kind": kind},
		bson.M{
			"$push": bson.M{"participants": participant},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
}

// RemoveParticipant strips a user from every event, used when the user is deleted.
func (r *mongoEventRepository) RemoveParticipant(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"participants.userId": userID},
		bson.M{"$pull": bson.M{"participants": bson.M{"userId": userID}}},
	)
	return err
}

func (r *mongoEventRepository) CountAccepted(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"participants": bson.M{"$elemMatch": bson.M{
		"userId": userID,
		"status": domain.ParticipantAccepted,
	}}})
}

func eventIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "kind", Value: 1}, {Key: "startTime", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "participants.userId", Value: 1}},
		},
	}
}
