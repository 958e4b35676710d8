package ambassador

import (
	"errors"
	"time"
)

// Status constants for the application lifecycle.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Experience levels a candidate may declare.
const (
	ExperienceNone        = "none"
	ExperienceSomeSales   = "some_sales"
	ExperienceExperienced = "experienced"
	ExperienceInfluencer  = "influencer"
)

// ExperienceLabels maps experience codes to display text.
var ExperienceLabels = map[string]string{
	ExperienceNone:        "No experience",
	ExperienceSomeSales:   "Some sales experience",
	ExperienceExperienced: "Experienced",
	ExperienceInfluencer:  "Influencer",
}

// Domain errors
var (
	ErrInvalidDecision = errors.New("decision must be approved or rejected")
	ErrAlreadyDecided  = errors.New("application has already been decided")
)

// Application is a prospective brand ambassador's submission.
type Application struct {
	ID              int64
	Name            string
	Email           string
	Phone           string
	SocialMedia     string
	Experience      string
	Motivation      string
	Message         string
	Status          string
	ApplicationDate time.Time
	CreatedAt       time.Time
	ReviewedAt      time.Time
}

// IsPending reports whether the application still awaits a decision.
func (a *Application) IsPending() bool {
	return a.Status == StatusPending
}

// ExperienceLabel returns display text for the declared experience level.
func (a *Application) ExperienceLabel() string {
	if l, ok := ExperienceLabels[a.Experience]; ok {
		return l
	}
	return a.Experience
}

// Decide moves a pending application to approved or rejected.
// Repeating the decision already recorded is a no-op and reports changed=false.
// PRE: decision is StatusApproved or StatusRejected
// POST: Status is decision and ReviewedAt is now when changed is true
func (a *Application) Decide(decision string, now time.Time) (changed bool, err error) {
	if decision != StatusApproved && decision != StatusRejected {
		return false, ErrInvalidDecision
	}
	if a.Status == decision {
		return false, nil
	}
	if a.Status != StatusPending {
		return false, ErrAlreadyDecided
	}
	a.Status = decision
	a.ReviewedAt = now
	return true, nil
}
