package leads

import (
	"time"
)

// Lead statuses. Only StatusPending is ever written by this service; the
// remaining lifecycle is driven by the sales team in the store itself.
const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusPublished = "Published"
	StatusArchived  = "Archived"
)

// Enumerations accepted by the three-step form. These mirror the options the
// landing pages render; a value outside these sets is a client bug or a bot.
var (
	ProjectTypes = []string{
		"walk-in-shower",
		"full-bathroom-remodel",
		"bathtub-installation",
		"shower-installation",
		"accessibility-bathroom",
		"luxury-bathroom",
		"small-bathroom",
		"master-bathroom",
	}

	Timeframes = []string{"immediate", "1-3-months", "3-6-months", "6-12-months", "just-exploring"}

	Budgets = []string{"under-5k", "5k-10k", "10k-20k", "20k-50k", "over-50k"}

	PropertyTypes = []string{"single-family", "condo", "apartment", "townhouse", "mobile-home"}

	OwnRentValues = []string{"own", "rent"}
)

// SubmitLeadRequest is the raw JSON body of a form submission, before any
// validation. TCPAConsent is deliberately untyped: consent must be the JSON
// boolean true, and anything else (including the string "true") has to be
// rejected rather than coerced.
type SubmitLeadRequest struct {
	FullName       string   `json:"fullName"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	ZipCode        string   `json:"zipCode"`
	ProjectType    string   `json:"projectType"`
	Timeframe      string   `json:"timeframe"`
	Budget         string   `json:"budget"`
	PropertyType   string   `json:"propertyType"`
	OwnRent        string   `json:"ownRent"`
	TCPAConsent    any      `json:"tcpaConsent"`
	RecaptchaToken string   `json:"recaptchaToken"`
	UTMSource      string   `json:"utmSource,omitempty"`
	UTMMedium      string   `json:"utmMedium,omitempty"`
	UTMCampaign    string   `json:"utmCampaign,omitempty"`
	GCLID          string   `json:"gclid,omitempty"`
	FBCLID         string   `json:"fbclid,omitempty"`
	Referrer       string   `json:"referrer,omitempty"`
	LandingPageURL string   `json:"landingPageUrl"`
}

// Lead is a validated submission. It is constructed once by validation and
// never mutated afterwards; ID and SubmittedAt are assigned by the store at
// persistence time.
type Lead struct {
	ID             string    `json:"id,omitempty"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	ZipCode        string    `json:"zipCode"`
	ProjectType    string    `json:"projectType"`
	Timeframe      string    `json:"timeframe"`
	Budget         string    `json:"budget"`
	PropertyType   string    `json:"propertyType"`
	OwnRent        string    `json:"ownRent"`
	TCPAConsent    bool      `json:"tcpaConsent"`
	RecaptchaToken string    `json:"-"`
	UTMSource      string    `json:"utmSource,omitempty"`
	UTMMedium      string    `json:"utmMedium,omitempty"`
	UTMCampaign    string    `json:"utmCampaign,omitempty"`
	GCLID          string    `json:"gclid,omitempty"`
	FBCLID         string    `json:"fbclid,omitempty"`
	Referrer       string    `json:"referrer,omitempty"`
	LandingPageURL string    `json:"landingPageUrl"`
	SubmittedAt    time.Time `json:"submittedAt,omitempty"`
	Status         string    `json:"status,omitempty"`
}

// MatchField names a Lead attribute the store can filter recent records by.
type MatchField string

const (
	MatchEmail MatchField = "email"
	MatchPhone MatchField = "phone"
)
