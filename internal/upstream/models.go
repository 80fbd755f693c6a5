package upstream

import "time"

// DocumentCategory classifies a candidate document.
type DocumentCategory string

const (
	DocumentResume      DocumentCategory = "resume"
	DocumentCoverLetter DocumentCategory = "cover_letter"
	DocumentCertificate DocumentCategory = "certificate"
	DocumentPortfolio   DocumentCategory = "portfolio"
	DocumentReference   DocumentCategory = "reference"
	DocumentOther       DocumentCategory = "other"
)

// Document is a candidate-owned file. At most one primary resume per
// candidate; the upstream enforces that, not this client.
type Document struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Category      DocumentCategory `json:"category"`
	ContentType   string           `json:"contentType"`
	SizeBytes     int64            `json:"sizeBytes"`
	Visible       bool             `json:"visible"`
	PrimaryResume bool             `json:"primaryResume"`
	Tags          []string         `json:"tags,omitempty"`
	UploadedAt    time.Time        `json:"uploadedAt"`
}

// DocumentUpdate is the PATCH body for a document. Nil fields are left
// untouched.
type DocumentUpdate struct {
	Name          *string `json:"name,omitempty"`
	Visible       *bool   `json:"visible,omitempty"`
	PrimaryResume *bool   `json:"primaryResume,omitempty"`
}

// ApplicationStatus is the upstream's status enum. Transitions are requested
// by the client and validated server-side.
type ApplicationStatus string

const (
	StatusApplied            ApplicationStatus = "applied"
	StatusUnderReview        ApplicationStatus = "under_review"
	StatusInterviewScheduled ApplicationStatus = "interview_scheduled"
	StatusInterviewCompleted ApplicationStatus = "interview_completed"
	StatusOffer              ApplicationStatus = "offer"
	StatusRejected           ApplicationStatus = "rejected"
	StatusWithdrawn          ApplicationStatus = "withdrawn"
)

type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"jobId"`
	JobTitle    string            `json:"jobTitle"`
	CompanyID   string            `json:"companyId"`
	CompanyName string            `json:"companyName"`
	Status      ApplicationStatus `json:"status"`
	AppliedAt   time.Time         `json:"appliedAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	Starred   bool      `json:"starred"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationAction is a bulk mailbox operation.
type NotificationAction string

const (
	NotificationMarkRead   NotificationAction = "read"
	NotificationMarkUnread NotificationAction = "unread"
	NotificationStar       NotificationAction = "star"
	NotificationUnstar     NotificationAction = "unstar"
	NotificationArchive    NotificationAction = "archive"
)

type Experience struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartYear   int    `json:"startYear"`
	EndYear     int    `json:"endYear,omitempty"`
}

type Certification struct {
	Name     string `json:"name"`
	Issuer   string `json:"issuer"`
	IssuedAt string `json:"issuedAt,omitempty"`
}

type Language struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// CandidateProfile is edited in forms and persisted wholesale via PUT; there
// is no field-level patching upstream.
type CandidateProfile struct {
	ID             string          `json:"id"`
	FullName       string          `json:"fullName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	Headline       string          `json:"headline,omitempty"`
	Summary        string          `json:"summary,omitempty"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         []string        `json:"skills"`
	Certifications []Certification `json:"certifications"`
	Languages      []Language      `json:"languages"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// JobCampaign is the company-side campaign listing view.
type JobCampaign struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	Location       string    `json:"location,omitempty"`
	ApplicantCount int       `json:"applicantCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Candidate is the company-side candidate listing view.
type Candidate struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Stage     string    `json:"stage"`
	JobID     string    `json:"jobId,omitempty"`
	AppliedAt time.Time `json:"appliedAt"`
}

// Question is a question bank entry.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}
