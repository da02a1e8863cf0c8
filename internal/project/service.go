// Package project owns project creation: form validation, keyword
// parsing, the composed backend description blob, and mirroring created
// rows into the local cache.
package project

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/liftlio/advocate/internal/model"
)

// ValidationError reports a form field that failed validation. It is
// surfaced to the user before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrNoUser is returned when creation is attempted without a signed-in
// user. The action aborts before any network call.
var ErrNoUser = errors.New("no signed-in user")

// Form is the raw project creation input as entered by the user.
type Form struct {
	Name        string
	Company     string
	Audience    string
	URL         string
	KeywordsRaw string
	Country     string
	Timezone    string
}

// Backend is the remote write surface the service needs.
type Backend interface {
	CreateProject(ctx context.Context, p model.Project) (*model.Project, error)
	ListProjects(ctx context.Context, userEmail string) ([]model.Project, error)
}

// Cache mirrors backend rows locally so the dashboard can render offline.
type Cache interface {
	UpsertProject(ctx context.Context, p model.Project) error
	GetProjects(ctx context.Context) ([]model.Project, error)
}

// Service creates and lists projects for one signed-in user.
type Service struct {
	backend   Backend
	cache     Cache
	userEmail string
}

// NewService creates a Service. cache may be nil.
func NewService(b Backend, cache Cache, userEmail string) *Service {
	return &Service{backend: b, cache: cache, userEmail: userEmail}
}

// ParseKeywords splits a comma-separated keyword string, trims each
// entry, and drops empties. Duplicates are preserved: the client only
// cleans input, it does not dedupe.
func ParseKeywords(raw string) []string {
	var out []string
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// ComposeDescription builds the single description blob the backend
// stores from the company and audience form fields.
func ComposeDescription(company, audience string) string {
	return fmt.Sprintf(
		"Company or product: %s. Target audience: %s",
		strings.TrimSpace(company), strings.TrimSpace(audience),
	)
}

// Validate checks the form: every field non-empty, a parseable URL, and
// at least one keyword after cleaning.
func Validate(f Form) error {
	required := []struct {
		name  string
		value string
	}{
		{"name", f.Name},
		{"company", f.Company},
		{"audience", f.Audience},
		{"url", f.URL},
		{"country", f.Country},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return &ValidationError{Field: field.name, Message: "is required"}
		}
	}

	u, err := url.Parse(strings.TrimSpace(f.URL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationError{Field: "url", Message: "must be a valid http(s) URL"}
	}

	if len(ParseKeywords(f.KeywordsRaw)) == 0 {
		return &ValidationError{Field: "keywords", Message: "at least one keyword is required"}
	}

	return nil
}

// Create validates the form, writes the project to the backend, and
// mirrors the created row into the local cache. Validation and the
// signed-in-user guard both abort before any network call.
func (s *Service) Create(ctx context.Context, f Form) (*model.Project, error) {
	if strings.TrimSpace(s.userEmail) == "" {
		return nil, ErrNoUser
	}
	if err := Validate(f); err != nil {
		return nil, err
	}

	p := model.Project{
		Name:        strings.TrimSpace(f.Name),
		Description: ComposeDescription(f.Company, f.Audience),
		URL:         strings.TrimSpace(f.URL),
		Keywords:    ParseKeywords(f.KeywordsRaw),
		UserEmail:   s.userEmail,
		Country:     strings.TrimSpace(f.Country),
		Timezone:    strings.TrimSpace(f.Timezone),
	}

	created, err := s.backend.CreateProject(ctx, p)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Cache failures do not fail creation; the backend row exists.
		_ = s.cache.UpsertProject(ctx, *created)
	}

	return created, nil
}

// List fetches the user's projects from the backend, falling back to the
// local cache when the backend is unreachable.
func (s *Service) List(ctx context.Context) ([]model.Project, error) {
	projects, err := s.backend.ListProjects(ctx, s.userEmail)
	if err != nil {
		if s.cache != nil {
			if cached, cacheErr := s.cache.GetProjects(ctx); cacheErr == nil {
				return cached, nil
			}
		}
		return nil, err
	}

	if s.cache != nil {
		for _, p := range projects {
			_ = s.cache.UpsertProject(ctx, p)
		}
	}
	return projects, nil
}
