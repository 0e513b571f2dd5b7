package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	coreauth "github.com/Nithya675/Consultant---Tracker/internal/auth"
	"github.com/Nithya675/Consultant---Tracker/internal/database"
	"github.com/Nithya675/Consultant---Tracker/internal/models"
)

// ErrEmailTaken is returned when a registration email already belongs to
// an account in any role collection.
var ErrEmailTaken = errors.New("email already exists")

// Email lookups probe the role collections in this order.
var lookupOrder = []string{recruitersCollection, consultantsCollection, adminsCollection}

var roleCollections = map[models.UserRole]string{
	models.RoleAdmin:      adminsCollection,
	models.RoleRecruiter:  recruitersCollection,
	models.RoleConsultant: consultantsCollection,
}

// Repository stores user accounts, one collection per role. It also
// serves as the middleware's account lookup.
type Repository struct {
	db     *database.Mongo
	logger *slog.Logger
}

func NewRepository(db *database.Mongo, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) collectionFor(role models.UserRole) (*mongo.Collection, error) {
	name, ok := roleCollections[role]
	if !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	return r.db.Collection(name), nil
}

// CreateUser inserts a new account into the collection for its role.
// Emails are unique across all role collections, not just within one.
func (r *Repository) CreateUser(ctx context.Context, req models.UserCreate) (*models.User, error) {
	switch _, err := r.FindByEmail(ctx, req.Email); {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, coreauth.ErrUserNotFound):
		return nil, err
	}

	coll, err := r.collectionFor(req.Role)
	if err != nil {
		return nil, err
	}
	hashed, err := coreauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:          req.Email,
		Name:           req.Name,
		Role:           req.Role,
		IsActive:       true,
		HashedPassword: hashed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	res, err := coll.InsertOne(ctx, user)
	if err != nil {
		// The unique email index closes the race between the
		// cross-collection check and the insert.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	r.logger.Info("user created", "email", user.Email, "role", user.Role)
	return user, nil
}

// FindByEmail resolves an account by probing the role collections.
// Returns coreauth.ErrUserNotFound when no collection has it.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, name := range lookupOrder {
		var user models.User
		err := r.db.Collection(name).FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("find user in %s: %w", name, err)
		}
	}
	return nil, coreauth.ErrUserNotFound
}

// maxRoleScan bounds the per-collection fetch when listing across all
// roles before in-memory pagination.
const maxRoleScan = 1000

// ListUsers returns accounts with skip/limit pagination. With a role it
// pages inside that collection; without one it gathers all collections
// and paginates the merged slice.
func (r *Repository) ListUsers(ctx context.Context, skip, limit int64, role models.UserRole) ([]*models.User, error) {
	if role != "" {
		coll, err := r.collectionFor(role)
		if err != nil {
			return nil, err
		}
		return r.list(ctx, coll, skip, limit)
	}

	all := make([]*models.User, 0)
	for _, name := range lookupOrder {
		users, err := r.list(ctx, r.db.Collection(name), 0, maxRoleScan)
		if err != nil {
			return nil, err
		}
		all = append(all, users...)
	}
	if skip >= int64(len(all)) {
		return []*models.User{}, nil
	}
	end := skip + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[skip:end], nil
}

func (r *Repository) list(ctx context.Context, coll *mongo.Collection, skip, limit int64) ([]*models.User, error) {
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSkip(skip).SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list users in %s: %w", coll.Name(), err)
	}
	users := []*models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users in %s: %w", coll.Name(), err)
	}
	return users, nil
}
