package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user. The email unique index turns a concurrent
// duplicate registration into repository.ErrDuplicate.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("user email and password hash are required")
	}

	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(user.Email)
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return user.ID, nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address (case-insensitive).
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

// GetByID retrieves a user by their MongoDB ObjectID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) find(ctx context.Context, filter bson.M) ([]domain.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"passwordHash": 0})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []domain.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// List returns all users, newest first, without password hashes.
func (r *mongoUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoUserRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	return r.find(ctx, bson.M{"suspended": bson.M{"$ne": true}})
}

func (r *mongoUserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoUserRepository) Count(ctx context.Context) (int64, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, err
	}
	suspended, err := r.collection.CountDocuments(ctx, bson.M{"suspended": true})
	if err != nil {
		return 0, 0, err
	}
	return total, suspended, nil
}

// updateByID applies update to a single user and maps a miss to ErrNotFound.
func (r *mongoUserRepository) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	set["updatedAt"] = time.Now().UTC()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, name string, profile domain.Profile) error {
	return r.updateByID(ctx, id, profileUpdate(name, profile))
}

// profileUpdate sets the provided profile fields and unsets the cleared ones.
func profileUpdate(name string, p domain.Profile) bson.M {
	set := bson.M{"name": name}
	unset := bson.M{}
	field := func(key string, value interface{}, empty bool) {
		if empty {
			unset[key] = ""
			return
		}
		set[key] = value
	}
	field("age", p.Age, p.Age == 0)
	field("weight", p.Weight, p.Weight == 0)
	field("height", p.Height, p.Height == 0)
	field("fitnessGoal", p.FitnessGoal, p.FitnessGoal == "")

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func (r *mongoUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"passwordHash": passwordHash}})
}

func (r *mongoUserRepository) SetSuspension(ctx context.Context, id primitive.ObjectID, suspended bool, reason string, at time.Time) error {
	if suspended {
		if reason == "" {
			return errors.New("suspension reason is required")
		}
		return r.updateByID(ctx, id, bson.M{"$set": bson.M{
			"suspended":       true,
			"suspendedReason": reason,
			"suspendedAt":     at.UTC(),
		}})
	}
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"suspended": false},
		"$unset": bson.M{"suspendedReason": "", "suspendedAt": ""},
	})
}

func (r *mongoUserRepository) SetRoutine(ctx context.Context, id primitive.ObjectID, routine []domain.RoutineDay) error {
	if routine == nil {
		routine = []domain.RoutineDay{}
	}
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"weeklyRoutine": routine}})
}

func (r *mongoUserRepository) AddGoal(ctx context.Context, id primitive.ObjectID, goal domain.Goal) error {
	return r.updateByID(ctx, id, bson.M{"$push": bson.M{"goals": goal}})
}

func (r *mongoUserRepository) ReplaceGoal(ctx context.Context, id primitive.ObjectID, goal domain.Goal) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "goals._id": goal.ID},
		bson.M{"$set": bson.M{"goals.$": goal, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) RemoveGoal(ctx context.Context, id, goalID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "goals._id": goalID},
		bson.M{
			"$pull": bson.M{"goals": bson.M{"_id": goalID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddAchievements appends achievements whose key the user doesn't have yet.
func (r *mongoUserRepository) AddAchievements(ctx context.Context, id primitive.ObjectID, achievements []domain.Achievement) error {
	for _, a := range achievements {
		filter := bson.M{"_id": id, "achievements.key": bson.M{"$ne": a.Key}}
		update := bson.M{
			"$push": bson.M{"achievements": a},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		}
		if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
			return err
		}
	}
	return nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "suspended", Value: 1}},
		},
	}
}
