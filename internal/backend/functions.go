package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// GenerateErrorKind classifies a failed server-function call so the UI can
// pick a tailored message. All kinds are recoverable; the user may retry.
type GenerateErrorKind int

const (
	GenerateErrorGeneric GenerateErrorKind = iota
	GenerateErrorTimeout
	GenerateErrorAccess
)

// GenerateError wraps a server-function failure with its classification.
type GenerateError struct {
	Kind GenerateErrorKind
	Err  error
}

func (e *GenerateError) Error() string {
	switch e.Kind {
	case GenerateErrorTimeout:
		return fmt.Sprintf("generation timed out: %v", e.Err)
	case GenerateErrorAccess:
		return fmt.Sprintf("generation access denied: %v", e.Err)
	default:
		return fmt.Sprintf("generation failed: %v", e.Err)
	}
}

func (e *GenerateError) Unwrap() error { return e.Err }

// ClassifyGenerateError wraps err in a GenerateError with the right kind.
func ClassifyGenerateError(err error) *GenerateError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GenerateError{Kind: GenerateErrorTimeout, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &GenerateError{Kind: GenerateErrorTimeout, Err: err}
	}
	if IsAuthError(err) {
		return &GenerateError{Kind: GenerateErrorAccess, Err: err}
	}
	return &GenerateError{Kind: GenerateErrorGeneric, Err: err}
}

// generateRequest is the payload of the text-generation proxy function.
type generateRequest struct {
	Prompt   string `json:"prompt"`
	TextOnly bool   `json:"textOnly"`
}

type generateResponse struct {
	Text    string `json:"text"`
	Content string `json:"content"`
}

// GenerateText calls the backend's text-generation proxy function with the
// given prompt and returns the generated text.
func (c *Client) GenerateText(
	ctx context.Context,
	prompt string,
) (string, error) {
	req := generateRequest{Prompt: prompt, TextOnly: true}

	var resp generateResponse
	if err := c.Post(ctx, "/functions/v1/claude-proxy", req, &resp); err != nil {
		return "", ClassifyGenerateError(err)
	}

	text := resp.Text
	if text == "" {
		text = resp.Content
	}
	return strings.TrimSpace(text), nil
}

// urlMetadataResponse is the payload returned by the URL metadata function.
type urlMetadataResponse struct {
	Message string `json:"message"`
}

// ExtractURLMetadata calls the backend function that scrapes a page and
// returns a descriptive message about the site, used to pre-fill the
// audience description on the project form.
func (c *Client) ExtractURLMetadata(
	ctx context.Context,
	pageURL string,
) (string, error) {
	req := map[string]string{"name": pageURL}

	var resp urlMetadataResponse
	if err := c.Post(ctx, "/functions/v1/url-metadata", req, &resp); err != nil {
		return "", ClassifyGenerateError(err)
	}
	return strings.TrimSpace(resp.Message), nil
}
