package accounts

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository defines persistence operations for accounts. Lookups return
// (nil, nil) when the account does not exist.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	Create(ctx context.Context, a *Account) (*Account, error)
	Update(ctx context.Context, a *Account) (*Account, error)
	Delete(ctx context.Context, id int) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// MongoRepository implements Repository using MongoDB.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]Account, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []Account
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) Create(ctx context.Context, a *Account) (*Account, error) {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.ID == 0 {
		id, err := r.nextID(ctx)
		if err != nil {
			return nil, err
		}
		a.ID = id
	}
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// nextID derives the next numeric id from the current maximum. Good enough
// for a dev server; a production store would use a counter document.
func (r *MongoRepository) nextID(ctx context.Context) (int, error) {
	var top Account
	err := r.col.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.M{"id": -1})).Decode(&top)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 1, nil
		}
		return 0, err
	}
	return top.ID + 1, nil
}

func (r *MongoRepository) Update(ctx context.Context, a *Account) (*Account, error) {
	a.UpdatedAt = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Account
	err := r.col.FindOneAndUpdate(ctx, bson.M{"id": a.ID}, bson.M{"$set": bson.M{
		"fullName":     a.FullName,
		"phone":        a.Phone,
		"email":        a.Email,
		"location":     a.Location,
		"experience":   a.Experience,
		"teamPosition": a.TeamPosition,
		"skills":       a.Skills,
		"updatedAt":    a.UpdatedAt,
	}}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id int) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	return err
}

func (r *MongoRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{
		"passwordHash": passwordHash,
		"updatedAt":    time.Now().UTC(),
	}})
	return err
}
