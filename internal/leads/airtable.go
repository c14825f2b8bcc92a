package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAirtableBaseURL = "https://api.airtable.com/v0"

// AirtableConfig describes how to reach the Airtable base.
type AirtableConfig struct {
	APIKey  string
	BaseID  string
	TableID string
	BaseURL string
	Timeout time.Duration
}

// AirtableStore persists leads in an Airtable table. Airtable is the system
// of record: this adapter only translates field names and never retries.
type AirtableStore struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewAirtableStore validates the configuration and returns a ready-to-use store.
func NewAirtableStore(cfg AirtableConfig) (*AirtableStore, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("airtable: API key required")
	}
	if strings.TrimSpace(cfg.BaseID) == "" {
		return nil, errors.New("airtable: base ID required")
	}
	tableID := cfg.TableID
	if tableID == "" {
		tableID = "tbl7V4S7GZ25PXLo9"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAirtableBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AirtableStore{
		apiKey:  cfg.APIKey,
		baseURL: fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), cfg.BaseID, tableID),
		http: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type airtableRecord struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

type airtableRecordList struct {
	Records []airtableRecord `json:"records"`
}

type airtableError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Create writes one record. The submission timestamp and Pending status are
// stamped here; optional attribution fields are omitted when absent instead
// of written as empty strings.
func (s *AirtableStore) Create(ctx context.Context, lead *Lead) (string, error) {
	fields := map[string]any{
		"Full Name":        lead.FullName,
		"Email":            lead.Email,
		"Phone":            lead.Phone,
		"ZIP Code":         lead.ZipCode,
		"Project Type":     lead.ProjectType,
		"Timeframe":        lead.Timeframe,
		"Budget":           lead.Budget,
		"Property Type":    lead.PropertyType,
		"Own or Rent":      lead.OwnRent,
		"TCPA Consent":     lead.TCPAConsent,
		"Landing Page URL": lead.LandingPageURL,
		"Submission Date":  time.Now().UTC().Format(time.RFC3339),
		"Status":           StatusPending,
	}
	if lead.UTMSource != "" {
		fields["UTM Source"] = lead.UTMSource
	}
	if lead.UTMMedium != "" {
		fields["UTM Medium"] = lead.UTMMedium
	}
	if lead.UTMCampaign != "" {
		fields["UTM Campaign"] = lead.UTMCampaign
	}
	if lead.GCLID != "" {
		fields["GCLID"] = lead.GCLID
	}
	if lead.FBCLID != "" {
		fields["FBCLID"] = lead.FBCLID
	}
	if lead.Referrer != "" {
		fields["Referrer"] = lead.Referrer
	}

	body, err := json.Marshal(airtableRecord{Fields: fields})
	if err != nil {
		return "", fmt.Errorf("airtable: encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("airtable: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("airtable: create request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("airtable: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr airtableError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("airtable: create failed: %s", apiErr.Error.Message)
		}
		return "", fmt.Errorf("airtable: create failed: %s", resp.Status)
	}

	var created airtableRecord
	if err := json.Unmarshal(data, &created); err != nil {
		return "", fmt.Errorf("airtable: decode response: %w", err)
	}
	if created.ID == "" {
		return "", errors.New("airtable: response missing record id")
	}
	return created.ID, nil
}

// QueryRecent runs a single filterByFormula query for records matching the
// field after the cutoff. At most one record is requested; the caller only
// cares whether any exist.
func (s *AirtableStore) QueryRecent(ctx context.Context, field MatchField, value string, since time.Time) ([]*Lead, error) {
	column, ok := airtableColumn(field)
	if !ok {
		return nil, fmt.Errorf("airtable: unsupported match field %q", field)
	}

	formula := fmt.Sprintf("AND({%s} = '%s', IS_AFTER({Submission Date}, '%s'))",
		column, escapeFormulaValue(value), since.UTC().Format(time.RFC3339))

	query := url.Values{}
	query.Set("filterByFormula", formula)
	query.Set("maxRecords", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("airtable: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airtable: query request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("airtable: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("airtable: query failed: %s", resp.Status)
	}

	var list airtableRecordList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("airtable: decode response: %w", err)
	}

	matches := make([]*Lead, 0, len(list.Records))
	for _, rec := range list.Records {
		matches = append(matches, leadFromAirtable(rec))
	}
	return matches, nil
}

func airtableColumn(field MatchField) (string, bool) {
	switch field {
	case MatchEmail:
		return "Email", true
	case MatchPhone:
		return "Phone", true
	}
	return "", false
}

// escapeFormulaValue keeps user input from breaking out of the quoted
// formula literal.
func escapeFormulaValue(v string) string {
	return strings.ReplaceAll(v, "'", "\\'")
}

func leadFromAirtable(rec airtableRecord) *Lead {
	lead := &Lead{ID: rec.ID}
	if v, ok := rec.Fields["Full Name"].(string); ok {
		lead.FullName = v
	}
	if v, ok := rec.Fields["Email"].(string); ok {
		lead.Email = v
	}
	if v, ok := rec.Fields["Phone"].(string); ok {
		lead.Phone = v
	}
	if v, ok := rec.Fields["Status"].(string); ok {
		lead.Status = v
	}
	if v, ok := rec.Fields["Submission Date"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			lead.SubmittedAt = ts
		}
	}
	return lead
}
