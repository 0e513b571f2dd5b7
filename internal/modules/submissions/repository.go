package submissions

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
	"github.com/Nithya675/Consultant---Tracker/internal/models"
)

const (
	submissionsCollection = "submissions"
	jobsCollection        = "job_descriptions"
	usersCollection       = "consultants"
	profilesCollection    = "consultant_profiles"
)

var (
	// ErrNotFound is returned when no submission matches the given id.
	ErrNotFound = errors.New("submission not found")
	// ErrJobNotFound is returned when an application names a job that
	// does not exist.
	ErrJobNotFound = errors.New("job not found")
)

type submissionDoc struct {
	ID            primitive.ObjectID      `bson:"_id,omitempty"`
	JDID          string                  `bson:"jd_id"`
	ConsultantID  string                  `bson:"consultant_id"`
	RecruiterID   string                  `bson:"recruiter_id"`
	ResumeKey     string                  `bson:"resume_path"`
	Comments      string                  `bson:"comments,omitempty"`
	Status        models.SubmissionStatus `bson:"status"`
	RecruiterRead bool                    `bson:"recruiter_read"`
	CreatedAt     time.Time               `bson:"created_at"`
	UpdatedAt     time.Time               `bson:"updated_at"`
}

func (d *submissionDoc) response() *Submission {
	return &Submission{
		ID:            d.ID.Hex(),
		JDID:          d.JDID,
		ConsultantID:  d.ConsultantID,
		RecruiterID:   d.RecruiterID,
		ResumeKey:     d.ResumeKey,
		Comments:      d.Comments,
		Status:        d.Status,
		RecruiterRead: d.RecruiterRead,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type Repository struct {
	db     *database.Mongo
	logger *slog.Logger
}

func NewRepository(db *database.Mongo, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Create records a new application in SUBMITTED state.
func (r *Repository) Create(ctx context.Context, jdID, comments, consultantID, recruiterID, resumeKey string) (*Submission, error) {
	now := time.Now().UTC()
	doc := submissionDoc{
		JDID:          jdID,
		ConsultantID:  consultantID,
		RecruiterID:   recruiterID,
		ResumeKey:     resumeKey,
		Comments:      comments,
		Status:        models.StatusSubmitted,
		RecruiterRead: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	res, err := r.db.Collection(submissionsCollection).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	r.logger.Info("submission created", "submission_id", doc.ID.Hex(), "jd_id", jdID, "consultant_id", consultantID)
	return doc.response(), nil
}

// ListByConsultant returns the consultant's applications, newest first,
// with each job's title merged in.
func (r *Repository) ListByConsultant(ctx context.Context, consultantID string) ([]*Submission, error) {
	cursor, err := r.db.Collection(submissionsCollection).Find(ctx,
		bson.M{"consultant_id": consultantID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list consultant submissions: %w", err)
	}
	var docs []submissionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}

	subs := make([]*Submission, 0, len(docs))
	for i := range docs {
		sub := docs[i].response()
		r.mergeJobData(ctx, sub, false)
		subs = append(subs, sub)
	}
	return subs, nil
}

// List returns applications newest first, filtered to one recruiter
// when recruiterID is non-empty, with consultant and job data merged.
func (r *Repository) List(ctx context.Context, recruiterID string) ([]*Submission, error) {
	query := bson.M{}
	if recruiterID != "" {
		query["recruiter_id"] = recruiterID
	}
	cursor, err := r.db.Collection(submissionsCollection).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	var docs []submissionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}

	subs := make([]*Submission, 0, len(docs))
	for i := range docs {
		sub := docs[i].response()
		r.mergeConsultantData(ctx, sub)
		r.mergeJobData(ctx, sub, true)
		subs = append(subs, sub)
	}
	return subs, nil
}

// GetByID loads one submission without any merged extras.
func (r *Repository) GetByID(ctx context.Context, id string) (*Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc submissionDoc
	err = r.db.Collection(submissionsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return doc.response(), nil
}

// UpdateStatus moves a submission through the pipeline.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status models.SubmissionStatus) (*Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	_, err = r.db.Collection(submissionsCollection).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
	if err != nil {
		return nil, fmt.Errorf("update submission status: %w", err)
	}
	return r.GetByID(ctx, id)
}

// JobRef resolves the job an application targets. Malformed ids read as
// not found.
func (r *Repository) JobRef(ctx context.Context, jdID string) (*JobRef, error) {
	oid, err := primitive.ObjectIDFromHex(jdID)
	if err != nil {
		return nil, ErrJobNotFound
	}
	var doc struct {
		RecruiterID string `bson:"recruiter_id"`
		Status      string `bson:"status"`
	}
	err = r.db.Collection(jobsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find job for submission: %w", err)
	}
	return &JobRef{RecruiterID: doc.RecruiterID, Status: doc.Status}, nil
}

// EnsureProfile makes sure the applying consultant has a profile
// document, seeding defaults on first contact. A no-op when one exists.
func (r *Repository) EnsureProfile(ctx context.Context, consultantID string) error {
	now := time.Now().UTC()
	_, err := r.db.Collection(profilesCollection).UpdateOne(ctx,
		bson.M{"consultant_id": consultantID},
		bson.M{"$setOnInsert": bson.M{
			"consultant_id": consultantID, "created_at": now, "updated_at": now,
			"experience_years": 0.0, "tech_stack": []string{}, "available": true,
		}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("ensure consultant profile: %w", err)
	}
	return nil
}

func (r *Repository) mergeConsultantData(ctx context.Context, sub *Submission) {
	sub.ConsultantName = "Unknown"

	oid, err := primitive.ObjectIDFromHex(sub.ConsultantID)
	if err != nil {
		return
	}
	var user struct {
		Email string `bson:"email"`
		Name  string `bson:"name"`
	}
	err = r.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Warn("consultant lookup failed", "consultant_id", sub.ConsultantID, "error", err)
		}
		return
	}
	sub.ConsultantName = user.Name
	sub.ConsultantEmail = user.Email
}

// mergeJobData fills job fields on the submission; full controls whether
// only the title or the whole job summary is attached.
func (r *Repository) mergeJobData(ctx context.Context, sub *Submission, full bool) {
	sub.JDTitle = "Unknown Job"

	oid, err := primitive.ObjectIDFromHex(sub.JDID)
	if err != nil {
		return
	}
	var jd struct {
		Title              string   `bson:"title"`
		Location           string   `bson:"location"`
		ExperienceRequired float64  `bson:"experience_required"`
		TechRequired       []string `bson:"tech_required"`
		Description        string   `bson:"description"`
	}
	err = r.db.Collection(jobsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&jd)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Warn("job lookup failed", "jd_id", sub.JDID, "error", err)
		}
		return
	}
	sub.JDTitle = jd.Title
	if full {
		sub.JDLocation = jd.Location
		sub.JDExperienceRequired = &jd.ExperienceRequired
		sub.JDTechRequired = jd.TechRequired
		if sub.JDTechRequired == nil {
			sub.JDTechRequired = []string{}
		}
		sub.JDDescription = jd.Description
	}
}
