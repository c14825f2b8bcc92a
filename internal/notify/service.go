package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/remodelgrid/leadgen-api/internal/leads"
	"github.com/remodelgrid/leadgen-api/pkg/logging"
)

// Service emails the sales inbox when a new lead is stored.
type Service struct {
	email  EmailSender
	to     string
	logger *logging.Logger
}

// NewService creates a notification service. Returns nil when either the
// sender or the destination inbox is missing, which disables notifications.
func NewService(email EmailSender, to string, logger *logging.Logger) *Service {
	if email == nil || strings.TrimSpace(to) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:  email,
		to:     to,
		logger: logger,
	}
}

// NotifyLeadStored sends a plain-text summary of the stored lead.
func (s *Service) NotifyLeadStored(ctx context.Context, lead *leads.Lead, submissionID string) error {
	if lead == nil {
		return errors.New("notify: lead required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New lead %s\n\n", submissionID)
	fmt.Fprintf(&b, "Name: %s\n", lead.FullName)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	fmt.Fprintf(&b, "Phone: %s\n", lead.Phone)
	fmt.Fprintf(&b, "ZIP: %s\n", lead.ZipCode)
	fmt.Fprintf(&b, "Project: %s\n", lead.ProjectType)
	fmt.Fprintf(&b, "Timeframe: %s\n", lead.Timeframe)
	fmt.Fprintf(&b, "Budget: %s\n", lead.Budget)
	fmt.Fprintf(&b, "Property: %s (%s)\n", lead.PropertyType, lead.OwnRent)
	fmt.Fprintf(&b, "Landing page: %s\n", lead.LandingPageURL)
	if lead.UTMSource != "" {
		fmt.Fprintf(&b, "UTM: %s / %s / %s\n", lead.UTMSource, lead.UTMMedium, lead.UTMCampaign)
	}

	msg := EmailMessage{
		To:      s.to,
		Subject: fmt.Sprintf("New lead: %s (%s)", lead.FullName, lead.ProjectType),
		Body:    b.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return err
	}
	s.logger.Info("lead notification sent", "submission_id", submissionID)
	return nil
}
