package jobs

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
	jobsCollection       = "job_descriptions"
	recruitersCollection = "recruiters"
)

var (
	// ErrNotFound is returned when no job matches the given id.
	ErrNotFound = errors.New("job not found")
	// ErrNotOwner is returned when a recruiter touches a job posted by
	// someone else.
	ErrNotOwner = errors.New("you can only update your own jobs")
	// ErrBadStartDate is returned when a start date is neither
	// date-only nor RFC 3339.
	ErrBadStartDate = errors.New("invalid start_date format")
)

type jobDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	RecruiterID        string             `bson:"recruiter_id"`
	Title              string             `bson:"title"`
	Description        string             `bson:"description"`
	ClientName         string             `bson:"client_name,omitempty"`
	ExperienceRequired float64            `bson:"experience_required"`
	TechRequired       []string           `bson:"tech_required"`
	Location           string             `bson:"location,omitempty"`
	VisaRequired       string             `bson:"visa_required,omitempty"`
	StartDate          *time.Time         `bson:"start_date,omitempty"`
	JobType            string             `bson:"job_type,omitempty"`
	JDSummary          string             `bson:"jd_summary,omitempty"`
	AdditionalNotes    string             `bson:"additional_notes,omitempty"`
	FileKey            string             `bson:"jd_file_url,omitempty"`
	Notes              string             `bson:"notes,omitempty"`
	Status             string             `bson:"status"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}

func (d *jobDoc) response() *Job {
	j := &Job{
		ID:                 d.ID.Hex(),
		RecruiterID:        d.RecruiterID,
		Title:              d.Title,
		Description:        d.Description,
		ClientName:         d.ClientName,
		ExperienceRequired: d.ExperienceRequired,
		TechRequired:       d.TechRequired,
		Location:           d.Location,
		VisaRequired:       d.VisaRequired,
		StartDate:          d.StartDate,
		JobType:            d.JobType,
		JDSummary:          d.JDSummary,
		AdditionalNotes:    d.AdditionalNotes,
		FileKey:            d.FileKey,
		Notes:              d.Notes,
		Status:             d.Status,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if j.TechRequired == nil {
		j.TechRequired = []string{}
	}
	return j
}

type Repository struct {
	db     *database.Mongo
	logger *slog.Logger
}

func NewRepository(db *database.Mongo, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// newJobDoc builds the stored form of a create request. An empty status
// defaults to OPEN.
func newJobDoc(req JobCreate, recruiterID string, now time.Time) (jobDoc, error) {
	doc := jobDoc{
		RecruiterID:     recruiterID,
		Title:           req.Title,
		Description:     req.Description,
		ClientName:      req.ClientName,
		TechRequired:    req.TechRequired,
		Location:        req.Location,
		VisaRequired:    req.VisaRequired,
		JobType:         req.JobType,
		JDSummary:       req.JDSummary,
		AdditionalNotes: req.AdditionalNotes,
		Notes:           req.Notes,
		Status:          req.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.ExperienceRequired != nil {
		doc.ExperienceRequired = *req.ExperienceRequired
	}
	if doc.TechRequired == nil {
		doc.TechRequired = []string{}
	}
	if doc.Status == "" {
		doc.Status = models.JobStatusOpen
	}
	if req.StartDate != nil && *req.StartDate != "" {
		start, err := parseStartDate(*req.StartDate)
		if err != nil {
			return jobDoc{}, fmt.Errorf("%w: %q", ErrBadStartDate, *req.StartDate)
		}
		doc.StartDate = start
	}
	return doc, nil
}

// Create inserts a new job posted by the given recruiter.
func (r *Repository) Create(ctx context.Context, req JobCreate, recruiterID string) (*Job, error) {
	doc, err := newJobDoc(req, recruiterID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	res, err := r.db.Collection(jobsCollection).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	job := doc.response()
	r.mergeRecruiterData(ctx, job)
	r.logger.Info("job created", "jd_id", job.ID, "title", job.Title, "recruiter_id", recruiterID)
	return job, nil
}

// List returns jobs, optionally filtered by status, with recruiter
// contact data merged in.
func (r *Repository) List(ctx context.Context, status string, skip, limit int64) ([]*Job, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}
	cursor, err := r.db.Collection(jobsCollection).Find(ctx, query,
		options.Find().SetSkip(skip).SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	var docs []jobDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}

	jobs := make([]*Job, 0, len(docs))
	for i := range docs {
		job := docs[i].response()
		r.mergeRecruiterData(ctx, job)
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// GetByID loads one job. Malformed ids read as not found.
func (r *Repository) GetByID(ctx context.Context, id string) (*Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc jobDoc
	err = r.db.Collection(jobsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}

	job := doc.response()
	r.mergeRecruiterData(ctx, job)
	return job, nil
}

// Update applies the non-nil fields. Only the posting recruiter may
// update a job.
func (r *Repository) Update(ctx context.Context, id string, upd JobUpdate, recruiterID string) (*Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var current struct {
		RecruiterID string `bson:"recruiter_id"`
	}
	err = r.db.Collection(jobsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&current)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	if current.RecruiterID != recruiterID {
		return nil, ErrNotOwner
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.ClientName != nil {
		set["client_name"] = *upd.ClientName
	}
	if upd.ExperienceRequired != nil {
		set["experience_required"] = *upd.ExperienceRequired
	}
	if upd.TechRequired != nil {
		set["tech_required"] = *upd.TechRequired
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.VisaRequired != nil {
		set["visa_required"] = *upd.VisaRequired
	}
	if upd.StartDate != nil && *upd.StartDate != "" {
		start, err := parseStartDate(*upd.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadStartDate, *upd.StartDate)
		}
		set["start_date"] = start
	}
	if upd.JobType != nil {
		set["job_type"] = *upd.JobType
	}
	if upd.JDSummary != nil {
		set["jd_summary"] = *upd.JDSummary
	}
	if upd.AdditionalNotes != nil {
		set["additional_notes"] = *upd.AdditionalNotes
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}

	_, err = r.db.Collection(jobsCollection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return r.GetByID(ctx, id)
}

// SetFileKey records a newly stored JD attachment and returns the key
// it replaced, if any. Ownership is the caller's concern.
func (r *Repository) SetFileKey(ctx context.Context, id, key string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", ErrNotFound
	}
	var before struct {
		FileKey string `bson:"jd_file_url"`
	}
	err = r.db.Collection(jobsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"jd_file_url": key, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("record jd file: %w", err)
	}
	return before.FileKey, nil
}

func (r *Repository) mergeRecruiterData(ctx context.Context, job *Job) {
	job.RecruiterName = "Unknown Recruiter"
	job.RecruiterEmail = "N/A"

	oid, err := primitive.ObjectIDFromHex(job.RecruiterID)
	if err != nil {
		return
	}
	var user struct {
		Email string `bson:"email"`
		Name  string `bson:"name"`
	}
	err = r.db.Collection(recruitersCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Warn("recruiter lookup failed", "recruiter_id", job.RecruiterID, "error", err)
		}
		return
	}
	job.RecruiterName = user.Name
	job.RecruiterEmail = user.Email
}
