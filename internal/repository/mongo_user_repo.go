package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogapp/internal/domain"
)

const usersCollection = "users"

// MongoUserRepository is the document credential store. Field names match
// the collection layout used by existing deployments.
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(usersCollection)}
}

type userDoc struct {
	ID           primitive.ObjectID   `bson:"_id"`
	Name         string               `bson:"name"`
	Email        string               `bson:"email"`
	Password     string               `bson:"password"`
	Role         string               `bson:"role"`
	RefreshToken *string              `bson:"refreshToken"`
	Posts        []primitive.ObjectID `bson:"posts"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

func (d userDoc) toDomain() *domain.User {
	posts := make([]string, 0, len(d.Posts))
	for _, id := range d.Posts {
		posts = append(posts, id.Hex())
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         domain.UserRole(d.Role),
		RefreshToken: d.RefreshToken,
		Posts:        posts,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// EnsureIndexes creates the unique email index.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = domain.NewID()
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return fmt.Errorf("create user: invalid id %q", u.ID)
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	if u.Posts == nil {
		u.Posts = []string{}
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	u.CreatedAt, u.UpdatedAt = now, now
	u.Email = normalizeEmail(u.Email)

	posts, err := objectIDs(u.Posts)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	_, err = r.collection.InsertOne(ctx, userDoc{
		ID:           oid,
		Name:         u.Name,
		Email:        u.Email,
		Password:     u.PasswordHash,
		Role:         string(u.Role),
		RefreshToken: u.RefreshToken,
		Posts:        posts,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var d userDoc
	err := r.collection.FindOne(ctx, filter).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return d.toDomain(), nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": normalizeEmail(email)})
}

func (r *MongoUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"email": normalizeEmail(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*domain.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *MongoUserRepository) find(ctx context.Context, filter bson.M) ([]*domain.User, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

func (r *MongoUserRepository) SetRefreshToken(ctx context.Context, userID string, token *string) error {
	return r.updateByID(ctx, userID, bson.M{"$set": bson.M{"refreshToken": token, "updatedAt": time.Now().UTC()}})
}

// AddPost appends postID to the owned set; the set never holds duplicates.
func (r *MongoUserRepository) AddPost(ctx context.Context, userID, postID string) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrNotFound
	}
	return r.updateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"posts": oid},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *MongoUserRepository) RemovePost(ctx context.Context, userID, postID string) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrNotFound
	}
	return r.updateByID(ctx, userID, bson.M{
		"$pull": bson.M{"posts": oid},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *MongoUserRepository) updateByID(ctx context.Context, userID string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) ListWithRefreshToken(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, bson.M{"refreshToken": bson.M{"$type": "string"}})
}

func objectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", id)
		}
		out = append(out, oid)
	}
	return out, nil
}
