package consultants

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Nithya675/Consultant---Tracker/internal/database"
	"github.com/Nithya675/Consultant---Tracker/internal/models"
)

const (
	profilesCollection    = "consultant_profiles"
	usersCollection       = "consultants"
	submissionsCollection = "submissions"
)

// ErrNotFound is returned when a consultant has no stored profile.
var ErrNotFound = errors.New("consultant profile not found")

type profileDoc struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	ConsultantID         string             `bson:"consultant_id"`
	ExperienceYears      float64            `bson:"experience_years"`
	TechStack            []string           `bson:"tech_stack"`
	Available            bool               `bson:"available"`
	Location             string             `bson:"location,omitempty"`
	VisaStatus           string             `bson:"visa_status,omitempty"`
	Rating               *float64           `bson:"rating,omitempty"`
	Notes                string             `bson:"notes,omitempty"`
	ProfessionalSummary  string             `bson:"professional_summary,omitempty"`
	LinkedinURL          string             `bson:"linkedin_url,omitempty"`
	GithubURL            string             `bson:"github_url,omitempty"`
	PortfolioURL         string             `bson:"portfolio_url,omitempty"`
	Education            map[string]any     `bson:"education,omitempty"`
	Certifications       []string           `bson:"certifications,omitempty"`
	ResumeKey            string             `bson:"resume_path,omitempty"`
	TechStackProficiency map[string]string  `bson:"tech_stack_proficiency,omitempty"`
	CreatedAt            time.Time          `bson:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at"`
}

func (d *profileDoc) response() *Profile {
	p := &Profile{
		ID:                   d.ID.Hex(),
		UserID:               d.ConsultantID,
		ExperienceYears:      d.ExperienceYears,
		TechStack:            d.TechStack,
		Available:            d.Available,
		Location:             d.Location,
		VisaStatus:           d.VisaStatus,
		Rating:               d.Rating,
		Notes:                d.Notes,
		ProfessionalSummary:  d.ProfessionalSummary,
		LinkedinURL:          d.LinkedinURL,
		GithubURL:            d.GithubURL,
		PortfolioURL:         d.PortfolioURL,
		Education:            d.Education,
		Certifications:       d.Certifications,
		ResumeKey:            d.ResumeKey,
		TechStackProficiency: d.TechStackProficiency,
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	return p
}

type Repository struct {
	db     *database.Mongo
	logger *slog.Logger
}

func NewRepository(db *database.Mongo, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// GetByUserID loads a profile keyed by the consultant account ID with
// the account's email, name and phone merged in.
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	var doc profileDoc
	err := r.db.Collection(profilesCollection).FindOne(ctx, bson.M{"consultant_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find consultant profile: %w", err)
	}

	profile := doc.response()
	r.mergeUserData(ctx, profile)
	return profile, nil
}

// Upsert applies the non-nil fields and returns the resulting profile.
// Phone is stored on the account document, everything else on the
// profile. First writes seed experience 0 and an empty tech stack.
func (r *Repository) Upsert(ctx context.Context, userID string, upd ProfileUpdate) (*Profile, error) {
	now := time.Now().UTC()

	if upd.Phone != nil {
		r.updatePhone(ctx, userID, *upd.Phone, now)
	}

	set := bson.M{"updated_at": now}
	if upd.ExperienceYears != nil {
		set["experience_years"] = *upd.ExperienceYears
	}
	if upd.TechStack != nil {
		set["tech_stack"] = *upd.TechStack
	}
	if upd.Available != nil {
		set["available"] = *upd.Available
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.VisaStatus != nil {
		set["visa_status"] = *upd.VisaStatus
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.ProfessionalSummary != nil {
		set["professional_summary"] = *upd.ProfessionalSummary
	}
	if upd.LinkedinURL != nil {
		set["linkedin_url"] = *upd.LinkedinURL
	}
	if upd.GithubURL != nil {
		set["github_url"] = *upd.GithubURL
	}
	if upd.PortfolioURL != nil {
		set["portfolio_url"] = *upd.PortfolioURL
	}
	if upd.Education != nil {
		set["education"] = upd.Education
	}
	if upd.Certifications != nil {
		set["certifications"] = *upd.Certifications
	}
	if upd.TechStackProficiency != nil {
		set["tech_stack_proficiency"] = upd.TechStackProficiency
	}

	setOnInsert := bson.M{"consultant_id": userID, "created_at": now}
	if _, ok := set["experience_years"]; !ok {
		setOnInsert["experience_years"] = 0.0
	}
	if _, ok := set["tech_stack"]; !ok {
		setOnInsert["tech_stack"] = []string{}
	}
	if _, ok := set["available"]; !ok {
		setOnInsert["available"] = true
	}

	_, err := r.db.Collection(profilesCollection).UpdateOne(ctx,
		bson.M{"consultant_id": userID},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert consultant profile: %w", err)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *Repository) updatePhone(ctx context.Context, userID, phone string, now time.Time) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		r.logger.Warn("cannot write phone for malformed consultant id", "consultant_id", userID)
		return
	}
	_, err = r.db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"phone": phone, "updated_at": now}},
	)
	if err != nil {
		r.logger.Warn("phone update on account failed", "consultant_id", userID, "error", err)
	}
}

// ListFilter narrows the consultant list. Tech matches any tech stack
// entry case-insensitively.
type ListFilter struct {
	Available *bool
	Tech      string
}

func (f ListFilter) query() bson.M {
	query := bson.M{}
	if f.Available != nil {
		query["available"] = *f.Available
	}
	if f.Tech != "" {
		query["tech_stack"] = primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(f.Tech) + "$",
			Options: "i",
		}
	}
	return query
}

// List returns consultant profiles with account data merged in.
func (r *Repository) List(ctx context.Context, filter ListFilter, skip, limit int64) ([]*Profile, error) {
	cursor, err := r.db.Collection(profilesCollection).Find(ctx, filter.query(),
		options.Find().SetSkip(skip).SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list consultant profiles: %w", err)
	}
	var docs []profileDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode consultant profiles: %w", err)
	}

	profiles := make([]*Profile, 0, len(docs))
	for i := range docs {
		profile := docs[i].response()
		r.mergeUserData(ctx, profile)
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// SetResumeKey records a newly stored resume and returns the key it
// replaced, if any, so the caller can delete the old file.
func (r *Repository) SetResumeKey(ctx context.Context, userID, key string) (string, error) {
	now := time.Now().UTC()
	var before struct {
		ResumeKey string `bson:"resume_path"`
	}
	err := r.db.Collection(profilesCollection).FindOneAndUpdate(ctx,
		bson.M{"consultant_id": userID},
		bson.M{
			"$set": bson.M{"resume_path": key, "updated_at": now},
			"$setOnInsert": bson.M{
				"consultant_id": userID, "created_at": now,
				"experience_years": 0.0, "tech_stack": []string{}, "available": true,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before),
	).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Upsert created the profile; nothing to replace.
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("record resume upload: %w", err)
	}
	return before.ResumeKey, nil
}

// StatsByConsultant aggregates the consultant's submissions into the
// dashboard counters.
func (r *Repository) StatsByConsultant(ctx context.Context, userID string) (*Stats, error) {
	cursor, err := r.db.Collection(submissionsCollection).Find(ctx,
		bson.M{"consultant_id": userID},
		options.Find().SetProjection(bson.M{"status": 1, "created_at": 1}))
	if err != nil {
		return nil, fmt.Errorf("load submissions for stats: %w", err)
	}
	var rows []struct {
		Status    string    `bson:"status"`
		CreatedAt time.Time `bson:"created_at"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode submissions for stats: %w", err)
	}

	byStatus := make(map[string]int, len(models.SubmissionStatuses()))
	for _, s := range models.SubmissionStatuses() {
		byStatus[string(s)] = 0
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -30)
	recent := 0
	for _, row := range rows {
		byStatus[row.Status]++
		if row.CreatedAt.After(cutoff) {
			recent++
		}
	}

	stats := &Stats{
		Total:        len(rows),
		Pending:      byStatus[string(models.StatusSubmitted)] + byStatus[string(models.StatusOnHold)],
		Interviews:   byStatus[string(models.StatusInterview)],
		Offers:       byStatus[string(models.StatusOffer)],
		Joined:       byStatus[string(models.StatusJoined)],
		Rejected:     byStatus[string(models.StatusRejected)],
		Withdrawn:    byStatus[string(models.StatusWithdrawn)],
		Recent30Days: recent,
		ByStatus:     byStatus,
	}
	if stats.Total > 0 {
		rate := float64(stats.Joined+stats.Offers) / float64(stats.Total) * 100
		stats.SuccessRate = math.Round(rate*100) / 100
	}
	return stats, nil
}

func (r *Repository) mergeUserData(ctx context.Context, profile *Profile) {
	oid, err := primitive.ObjectIDFromHex(profile.UserID)
	if err != nil {
		r.logger.Warn("profile has malformed consultant_id", "consultant_id", profile.UserID)
		return
	}
	var user struct {
		Email string `bson:"email"`
		Name  string `bson:"name"`
		Phone string `bson:"phone"`
	}
	err = r.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Warn("consultant account lookup failed", "consultant_id", profile.UserID, "error", err)
		}
		return
	}
	profile.Email = user.Email
	profile.Name = user.Name
	profile.Phone = user.Phone
}
