package leads

import (
	"testing"
)

func validRequest() *SubmitLeadRequest {
	return &SubmitLeadRequest{
		FullName:       "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "(555) 123-4567",
		ZipCode:        "90210",
		ProjectType:    "walk-in-shower",
		Timeframe:      "immediate",
		Budget:         "5k-10k",
		PropertyType:   "single-family",
		OwnRent:        "own",
		TCPAConsent:    true,
		RecaptchaToken: "tok",
		LandingPageURL: "https://example.com/x",
	}
}

func TestValidate_Accepts(t *testing.T) {
	lead, err := validRequest().Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Email != "jane@example.com" {
		t.Errorf("expected normalized email, got %q", lead.Email)
	}
	if !lead.TCPAConsent {
		t.Error("expected consent true on validated lead")
	}
	if lead.ID != "" || !lead.SubmittedAt.IsZero() || lead.Status != "" {
		t.Error("validation must not assign persistence fields")
	}
}

func TestValidate_FieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *SubmitLeadRequest)
		field  string
	}{
		{"short name", func(r *SubmitLeadRequest) { r.FullName = "J" }, "fullName"},
		{"bad email", func(r *SubmitLeadRequest) { r.Email = "not-an-email" }, "email"},
		{"bad phone", func(r *SubmitLeadRequest) { r.Phone = "12345" }, "phone"},
		{"bad zip", func(r *SubmitLeadRequest) { r.ZipCode = "9021" }, "zipCode"},
		{"zip bad extension", func(r *SubmitLeadRequest) { r.ZipCode = "90210-12" }, "zipCode"},
		{"unknown project type", func(r *SubmitLeadRequest) { r.ProjectType = "kitchen" }, "projectType"},
		{"unknown timeframe", func(r *SubmitLeadRequest) { r.Timeframe = "someday" }, "timeframe"},
		{"unknown budget", func(r *SubmitLeadRequest) { r.Budget = "1M" }, "budget"},
		{"unknown property type", func(r *SubmitLeadRequest) { r.PropertyType = "castle" }, "propertyType"},
		{"bad own/rent", func(r *SubmitLeadRequest) { r.OwnRent = "lease" }, "ownRent"},
		{"consent false", func(r *SubmitLeadRequest) { r.TCPAConsent = false }, "tcpaConsent"},
		{"consent string true", func(r *SubmitLeadRequest) { r.TCPAConsent = "true" }, "tcpaConsent"},
		{"consent number", func(r *SubmitLeadRequest) { r.TCPAConsent = 1.0 }, "tcpaConsent"},
		{"consent missing", func(r *SubmitLeadRequest) { r.TCPAConsent = nil }, "tcpaConsent"},
		{"missing token", func(r *SubmitLeadRequest) { r.RecaptchaToken = " " }, "recaptchaToken"},
		{"relative url", func(r *SubmitLeadRequest) { r.LandingPageURL = "/walk-in-shower" }, "landingPageUrl"},
		{"garbage url", func(r *SubmitLeadRequest) { r.LandingPageURL = "://nope" }, "landingPageUrl"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			_, err := req.Validate()
			if err == nil {
				t.Fatal("expected validation failure")
			}
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if len(vErr.Fields) != 1 {
				t.Fatalf("expected one field error, got %v", vErr.FieldNames())
			}
			if vErr.Fields[0].Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, vErr.Fields[0].Field)
			}
			if vErr.Fields[0].Message == "" {
				t.Error("expected a message for the offending field")
			}
		})
	}
}

func TestValidate_OneMessagePerField(t *testing.T) {
	req := &SubmitLeadRequest{} // everything wrong at once
	_, err := req.Validate()
	vErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	seen := map[string]int{}
	for _, f := range vErr.Fields {
		seen[f.Field]++
	}
	for field, count := range seen {
		if count > 1 {
			t.Errorf("field %q reported %d times", field, count)
		}
	}
	for _, field := range []string{"fullName", "email", "phone", "zipCode", "projectType", "timeframe", "budget", "propertyType", "ownRent", "tcpaConsent", "recaptchaToken", "landingPageUrl"} {
		if seen[field] == 0 {
			t.Errorf("expected an error for %q", field)
		}
	}
}

func TestValidate_Normalization(t *testing.T) {
	req := validRequest()
	req.FullName = "  Jane Doe  "
	req.Email = "  Jane@Example.COM "
	req.LandingPageURL = " https://example.com/x "

	lead, err := req.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.FullName != "Jane Doe" {
		t.Errorf("expected trimmed name, got %q", lead.FullName)
	}
	if lead.Email != "jane@example.com" {
		t.Errorf("expected lowercased email, got %q", lead.Email)
	}
	if lead.LandingPageURL != "https://example.com/x" {
		t.Errorf("expected trimmed url, got %q", lead.LandingPageURL)
	}
}

// Re-validating already-normalized output must be a fixed point.
func TestValidate_Idempotent(t *testing.T) {
	first, err := validRequest().Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again := &SubmitLeadRequest{
		FullName:       first.FullName,
		Email:          first.Email,
		Phone:          first.Phone,
		ZipCode:        first.ZipCode,
		ProjectType:    first.ProjectType,
		Timeframe:      first.Timeframe,
		Budget:         first.Budget,
		PropertyType:   first.PropertyType,
		OwnRent:        first.OwnRent,
		TCPAConsent:    first.TCPAConsent,
		RecaptchaToken: first.RecaptchaToken,
		LandingPageURL: first.LandingPageURL,
	}
	second, err := again.Validate()
	if err != nil {
		t.Fatalf("re-validation failed: %v", err)
	}
	if *second != *first {
		t.Errorf("re-validation changed the lead:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestValidate_PhoneFormats(t *testing.T) {
	accepted := []string{"(555) 123-4567", "555-123-4567", "5551234567", "555.123.4567", "555 123 4567"}
	for _, phone := range accepted {
		req := validRequest()
		req.Phone = phone
		if _, err := req.Validate(); err != nil {
			t.Errorf("phone %q should be accepted: %v", phone, err)
		}
	}

	rejected := []string{"555-123-456", "+44 20 7946 0958", "555-1234-567", "phone"}
	for _, phone := range rejected {
		req := validRequest()
		req.Phone = phone
		if _, err := req.Validate(); err == nil {
			t.Errorf("phone %q should be rejected", phone)
		}
	}
}

func TestValidate_ZipWithExtension(t *testing.T) {
	req := validRequest()
	req.ZipCode = "90210-1234"
	if _, err := req.Validate(); err != nil {
		t.Errorf("zip+4 should be accepted: %v", err)
	}
}
