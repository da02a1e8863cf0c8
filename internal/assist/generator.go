// Package assist auto-fills project form fields using the backend's
// generation functions: an audience description derived from the
// project's URL and a keyword list derived from name, company, and URL.
package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/liftlio/advocate/internal/backend"
	"github.com/liftlio/advocate/internal/project"
)

// Generator is the slice of the backend client the assistant uses.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	ExtractURLMetadata(ctx context.Context, pageURL string) (string, error)
}

// Assistant drives the form auto-fill actions.
type Assistant struct {
	gen Generator
}

// New creates an Assistant over the given generator.
func New(gen Generator) *Assistant {
	return &Assistant{gen: gen}
}

// SuggestAudience pre-fills the audience description from the project's
// home page: the URL metadata function describes the site, and the text
// generator condenses that into an audience description.
func (a *Assistant) SuggestAudience(
	ctx context.Context,
	name, company, pageURL string,
) (string, error) {
	meta, err := a.gen.ExtractURLMetadata(ctx, pageURL)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"Based on this description of the website for %s (%s): %q\n"+
			"Write one short paragraph describing the target audience of "+
			"this product. Respond with the paragraph only.",
		name, company, meta,
	)

	text, err := a.gen.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	return text, nil
}

// SuggestKeywords proposes a comma-separated keyword list from the
// project's name, company, and URL. The result is cleaned through the
// same parser the form uses, so it is ready to submit.
func (a *Assistant) SuggestKeywords(
	ctx context.Context,
	name, company, pageURL string,
) ([]string, error) {
	prompt := fmt.Sprintf(
		"Product: %s. Company: %s. Website: %s.\n"+
			"List 5 to 10 search keywords a potential customer would use "+
			"when looking for this product. Respond with a single "+
			"comma-separated line, no numbering.",
		name, company, pageURL,
	)

	text, err := a.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// Models occasionally answer with one keyword per line.
	text = strings.ReplaceAll(text, "\n", ",")
	keywords := project.ParseKeywords(text)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("generation returned no usable keywords")
	}
	return keywords, nil
}

// UserMessage maps a generation failure to the message shown to the
// user. Every failure here is retryable; the message says so.
func UserMessage(err error) string {
	var genErr *backend.GenerateError
	if errors.As(err, &genErr) {
		switch genErr.Kind {
		case backend.GenerateErrorTimeout:
			return "The suggestion took too long. Please try again."
		case backend.GenerateErrorAccess:
			return "The suggestion service refused the request. Check your API key and try again."
		}
	}
	return "Could not generate a suggestion. Please try again."
}
