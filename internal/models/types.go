// Package models defines the data models used in the application.
package models

// CaseStatus represents the review status of an imaging case.
type CaseStatus string

// Possible values for CaseStatus
const (
	StatusOpen            CaseStatus = "open"
	StatusInProgress      CaseStatus = "in-progress"
	StatusReviewCompleted CaseStatus = "review-completed"
)

// Source is the provenance of an uploaded image.
type Source string

// Possible values for Source
const (
	SourceManual Source = "manual"
	SourceSystem Source = "system"
)

// Priority represents the triage priority assigned to a case.
type Priority string

// Possible values for Priority
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Case represents one uploaded medical image and its analysis results.
type Case struct {
	// DynamoDB keys
	PK string `dynamodbav:"PK" json:"-"` // PATH#<storage_path>
	SK string `dynamodbav:"SK" json:"-"` // CASE

	// GSI1 lists a user's cases for the dashboard; empty for system uploads.
	GSI1PK string `dynamodbav:"GSI1PK,omitempty" json:"-"` // USER#<sub>
	GSI1SK string `dynamodbav:"GSI1SK,omitempty" json:"-"` // CASE#<caseID> (ULID)

	CaseID      string     `dynamodbav:"case_id" json:"case_id"`
	ImageName   string     `dynamodbav:"image_name" json:"image_name"`
	StoragePath string     `dynamodbav:"storage_path" json:"storage_path"`
	PatientName string     `dynamodbav:"patient_name" json:"patient_name"`
	PatientAge  int        `dynamodbav:"patient_age" json:"patient_age"`
	Modality    string     `dynamodbav:"modality" json:"modality"`
	BodyPart    string     `dynamodbav:"body_part" json:"body_part"`
	Findings    string     `dynamodbav:"findings" json:"findings"`
	Confidence  int        `dynamodbav:"confidence" json:"confidence"` // 0..100
	Severity    int        `dynamodbav:"severity" json:"severity"`     // 1..5
	Priority    Priority   `dynamodbav:"priority" json:"priority"`
	Status      CaseStatus `dynamodbav:"status" json:"status"`
	Source      Source     `dynamodbav:"source" json:"source"`
	UserID      string     `dynamodbav:"user_id,omitempty" json:"user_id,omitempty"`
	CreatedAt   string     `dynamodbav:"created_at" json:"created_at"` // ISO8601
	UpdatedAt   string     `dynamodbav:"updated_at" json:"updated_at"`
}

// SubscriptionStatus represents the billing state of an account.
type SubscriptionStatus string

// Possible values for SubscriptionStatus
const (
	TrialActive      SubscriptionStatus = "trial_active"
	TrialExpired     SubscriptionStatus = "trial_expired"
	BusinessApproved SubscriptionStatus = "business_approved"
	BusinessPending  SubscriptionStatus = "business_pending"
	BusinessRejected SubscriptionStatus = "business_rejected"
)

// Subscription represents an account's trial or business subscription.
// TrialEndDate is fixed at trial start and never mutated; the sweeper only
// transitions Status.
type Subscription struct {
	PK string `dynamodbav:"PK" json:"-"` // USER#<sub>
	SK string `dynamodbav:"SK" json:"-"` // SUBSCRIPTION

	UserID               string             `dynamodbav:"user_id" json:"user_id"`
	Status               SubscriptionStatus `dynamodbav:"status" json:"status"`
	TrialStartDate       string             `dynamodbav:"trial_start_date" json:"trial_start_date"` // ISO8601
	TrialEndDate         string             `dynamodbav:"trial_end_date" json:"trial_end_date"`
	BusinessApprovedDate string             `dynamodbav:"business_approved_date,omitempty" json:"business_approved_date,omitempty"`
}

// Profile carries the display fields joined onto notifications.
type Profile struct {
	PK string `dynamodbav:"PK" json:"-"` // USER#<sub>
	SK string `dynamodbav:"SK" json:"-"` // PROFILE

	UserID   string `dynamodbav:"user_id" json:"user_id"`
	FullName string `dynamodbav:"full_name" json:"full_name"`
}

// TrialNotification is one entry in the sweep's threshold-crossing list.
// Dispatch is an external collaborator's job; the sweeper only assembles it.
type TrialNotification struct {
	UserID        string `json:"user_id"`
	FullName      string `json:"full_name"`
	DaysRemaining int    `json:"days_remaining"`
	TrialEndDate  string `json:"trial_end_date"`
}
