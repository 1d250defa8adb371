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

const progressImageCollectionName = "progress_images"

// mongoProgressImageRepository implements repository.ProgressImageRepository
type mongoProgressImageRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressImageRepository creates a new progress image metadata repository.
func NewMongoProgressImageRepository(db *mongo.Database) repository.ProgressImageRepository {
	return &mongoProgressImageRepository{
		collection: db.Collection(progressImageCollectionName),
	}
}

// Create inserts new image metadata. The object must already be stored.
func (r *mongoProgressImageRepository) Create(ctx context.Context, image *domain.ProgressImage) (primitive.ObjectID, error) {
	if image.UserID == primitive.NilObjectID || image.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("progress image requires userId and objectKey")
	}

	image.ID = primitive.NewObjectID()
	image.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, image); err != nil {
		return primitive.NilObjectID, err
	}
	return image.ID, nil
}

// GetByID retrieves image metadata owned by userID.
func (r *mongoProgressImageRepository) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.ProgressImage, error) {
	var image domain.ProgressImage
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// ListByUser returns the user's images, newest first, optionally limited to one tag.
func (r *mongoProgressImageRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, tag string) ([]domain.ProgressImage, error) {
	filter := bson.M{"userId": userID}
	if tag != "" {
		filter["tag"] = tag
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	images := []domain.ProgressImage{}
	if err = cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *mongoProgressImageRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoProgressImageRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func progressImageIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "objectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}
