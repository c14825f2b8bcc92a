package leads

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})$`)
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// Validate checks every form field against its rule and returns the
// normalized Lead, or a *ValidationError naming each offending field. It is a
// pure function of the request: no network calls happen before it passes.
func (r *SubmitLeadRequest) Validate() (*Lead, error) {
	var fieldErrs []FieldError
	fail := func(field, message string) {
		fieldErrs = append(fieldErrs, FieldError{Field: field, Message: message})
	}

	fullName := strings.TrimSpace(r.FullName)
	if len(fullName) < 2 {
		fail("fullName", "Name must be at least 2 characters")
	}

	email := strings.ToLower(strings.TrimSpace(r.Email))
	if !emailRe.MatchString(email) {
		fail("email", "Invalid email address")
	}

	phone := strings.TrimSpace(r.Phone)
	if !phoneRe.MatchString(phone) {
		fail("phone", "Invalid phone number")
	}

	zip := strings.TrimSpace(r.ZipCode)
	if !zipRe.MatchString(zip) {
		fail("zipCode", "Invalid ZIP code")
	}

	if !slices.Contains(ProjectTypes, r.ProjectType) {
		fail("projectType", "Invalid project type")
	}
	if !slices.Contains(Timeframes, r.Timeframe) {
		fail("timeframe", "Invalid timeframe")
	}
	if !slices.Contains(Budgets, r.Budget) {
		fail("budget", "Invalid budget range")
	}
	if !slices.Contains(PropertyTypes, r.PropertyType) {
		fail("propertyType", "Invalid property type")
	}
	if !slices.Contains(OwnRentValues, r.OwnRent) {
		fail("ownRent", "Must be 'own' or 'rent'")
	}

	// Consent must be the JSON boolean true. A truthy string is not consent.
	consent, ok := r.TCPAConsent.(bool)
	if !ok || !consent {
		fail("tcpaConsent", "You must agree to receive communications")
	}

	if strings.TrimSpace(r.RecaptchaToken) == "" {
		fail("recaptchaToken", "reCAPTCHA verification required")
	}

	landing := strings.TrimSpace(r.LandingPageURL)
	if u, err := url.Parse(landing); err != nil || !u.IsAbs() || u.Host == "" {
		fail("landingPageUrl", "Invalid landing page URL")
	}

	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	return &Lead{
		FullName:       fullName,
		Email:          email,
		Phone:          phone,
		ZipCode:        zip,
		ProjectType:    r.ProjectType,
		Timeframe:      r.Timeframe,
		Budget:         r.Budget,
		PropertyType:   r.PropertyType,
		OwnRent:        r.OwnRent,
		TCPAConsent:    true,
		RecaptchaToken: r.RecaptchaToken,
		UTMSource:      r.UTMSource,
		UTMMedium:      r.UTMMedium,
		UTMCampaign:    r.UTMCampaign,
		GCLID:          r.GCLID,
		FBCLID:         r.FBCLID,
		Referrer:       r.Referrer,
		LandingPageURL: landing,
	}, nil
}
