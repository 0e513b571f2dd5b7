// Package models holds the types shared across modules: the user account
// shape, the auth token envelope, and the status enums that more than one
// module reads. Everything else module-specific (job descriptions,
// profiles, submissions) lives with its module.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleRecruiter  UserRole = "RECRUITER"
	RoleConsultant UserRole = "CONSULTANT"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleRecruiter, RoleConsultant:
		return true
	}
	return false
}

// User is one account document. Accounts for each role live in their own
// collection (admins, recruiters, consultants); the shape is identical.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	Name           string             `bson:"name" json:"name"`
	Role           UserRole           `bson:"role" json:"role"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserCreate is the signup / admin-create request body.
type UserCreate struct {
	Email    string   `json:"email" binding:"required,email"`
	Name     string   `json:"name" binding:"required,max=100"`
	Role     UserRole `json:"role" binding:"required,oneof=ADMIN RECRUITER CONSULTANT"`
	Password string   `json:"password" binding:"required,min=6"`
}

type UserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Token is the login/refresh response envelope.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SubmissionStatus tracks an application through the pipeline. Shared
// because the consultants module aggregates submission stats.
type SubmissionStatus string

const (
	StatusSubmitted SubmissionStatus = "SUBMITTED"
	StatusInterview SubmissionStatus = "INTERVIEW"
	StatusOffer     SubmissionStatus = "OFFER"
	StatusJoined    SubmissionStatus = "JOINED"
	StatusRejected  SubmissionStatus = "REJECTED"
	StatusOnHold    SubmissionStatus = "ON_HOLD"
	StatusWithdrawn SubmissionStatus = "WITHDRAWN"
)

// SubmissionStatuses lists every status in pipeline order.
func SubmissionStatuses() []SubmissionStatus {
	return []SubmissionStatus{
		StatusSubmitted, StatusInterview, StatusOffer, StatusJoined,
		StatusRejected, StatusOnHold, StatusWithdrawn,
	}
}

func (s SubmissionStatus) Valid() bool {
	for _, known := range SubmissionStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Job lifecycle states. Submissions are only accepted against OPEN jobs.
const (
	JobStatusOpen   = "OPEN"
	JobStatusClosed = "CLOSED"
)
