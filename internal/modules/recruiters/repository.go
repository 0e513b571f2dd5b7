package recruiters

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

	"github.com/Nithya675/Consultant---Tracker/internal/database"
)

const (
	profilesCollection = "recruiter_profiles"
	usersCollection    = "recruiters"
)

// ErrNotFound is returned when a recruiter has no stored profile.
var ErrNotFound = errors.New("recruiter profile not found")

type profileDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	RecruiterID string             `bson:"recruiter_id"`
	CompanyName string             `bson:"company_name,omitempty"`
	Phone       string             `bson:"phone,omitempty"`
	LinkedinURL string             `bson:"linkedin_url,omitempty"`
	Bio         string             `bson:"bio,omitempty"`
	Location    string             `bson:"location,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *profileDoc) response() *Profile {
	return &Profile{
		ID:          d.ID.Hex(),
		UserID:      d.RecruiterID,
		CompanyName: d.CompanyName,
		Phone:       d.Phone,
		LinkedinURL: d.LinkedinURL,
		Bio:         d.Bio,
		Location:    d.Location,
	}
}

type Repository struct {
	db     *database.Mongo
	logger *slog.Logger
}

func NewRepository(db *database.Mongo, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// GetByUserID loads the profile keyed by the recruiter account ID and
// merges in the account's email and name.
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	var doc profileDoc
	err := r.db.Collection(profilesCollection).FindOne(ctx, bson.M{"recruiter_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find recruiter profile: %w", err)
	}

	profile := doc.response()
	r.mergeUserData(ctx, profile)
	return profile, nil
}

// Upsert applies the non-nil fields and returns the resulting profile,
// creating it on first write.
func (r *Repository) Upsert(ctx context.Context, userID string, upd ProfileUpdate) (*Profile, error) {
	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	if upd.CompanyName != nil {
		set["company_name"] = *upd.CompanyName
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.LinkedinURL != nil {
		set["linkedin_url"] = *upd.LinkedinURL
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}

	_, err := r.db.Collection(profilesCollection).UpdateOne(ctx,
		bson.M{"recruiter_id": userID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"recruiter_id": userID, "created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert recruiter profile: %w", err)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *Repository) mergeUserData(ctx context.Context, profile *Profile) {
	oid, err := primitive.ObjectIDFromHex(profile.UserID)
	if err != nil {
		r.logger.Warn("profile has malformed recruiter_id", "recruiter_id", profile.UserID)
		return
	}
	var user struct {
		Email string `bson:"email"`
		Name  string `bson:"name"`
	}
	err = r.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Warn("recruiter account lookup failed", "recruiter_id", profile.UserID, "error", err)
		}
		return
	}
	profile.Email = user.Email
	profile.Name = user.Name
}
