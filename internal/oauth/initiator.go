// Package oauth builds and launches the platform authorization flow.
// The flow is a full-page redirect: control returns to the application
// through a server-side callback, never through this process.
package oauth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/browser"
)

// ErrNoProject is returned when the flow is started without a selected
// project. Its text is shown to the user as-is.
var ErrNoProject = errors.New("select a project first")

const (
	authEndpoint = "https://accounts.google.com/o/oauth2/v2/auth"

	callbackPath = "/oauth-callback.html"
)

// scopes are fixed: profile and email for identity, plus the platform
// write scope the backend needs to manage comments.
var scopes = []string{
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/youtube.force-ssl",
}

// StateStore persists the in-app path the user should be returned to
// after the server-side callback completes.
type StateStore interface {
	SaveResumePath(path string) error
}

// Redirector performs the navigation to the authorization URL.
type Redirector interface {
	Redirect(url string) error
}

// BrowserRedirector opens the authorization URL in the system browser.
type BrowserRedirector struct{}

func (BrowserRedirector) Redirect(u string) error {
	if err := browser.OpenURL(u); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}

// Config holds the environment-dependent pieces of the authorization URL.
type Config struct {
	// ClientID is the OAuth client identifier.
	ClientID string

	// ProductionHosts select the production redirect URI. Any host not
	// in this set uses LocalRedirectURI.
	ProductionHosts []string

	// LocalRedirectURI is the callback for non-production environments.
	LocalRedirectURI string
}

// Initiator starts the authorization flow for a project.
type Initiator struct {
	cfg        Config
	store      StateStore
	redirector Redirector

	// onStart resets the displayed integration status before navigating
	// away, so the UI is pessimistic until the callback lands.
	onStart func()
}

// New creates an Initiator. redirector may be nil, in which case the
// system browser is used. onStart may be nil.
func New(
	cfg Config,
	store StateStore,
	redirector Redirector,
	onStart func(),
) *Initiator {
	if redirector == nil {
		redirector = BrowserRedirector{}
	}
	return &Initiator{
		cfg:        cfg,
		store:      store,
		redirector: redirector,
		onStart:    onStart,
	}
}

// Start launches the authorization flow for the given project, recording
// resumePath so the post-auth redirect can return the user to their
// original screen. host is the hostname the app is being served from and
// selects between the production and localhost callbacks.
//
// An empty projectID aborts before any side effect: no state is written,
// no status reset, no redirect.
func (i *Initiator) Start(projectID, resumePath, host string) error {
	if strings.TrimSpace(projectID) == "" {
		return ErrNoProject
	}

	if i.store != nil && resumePath != "" {
		if err := i.store.SaveResumePath(resumePath); err != nil {
			return fmt.Errorf("saving resume path: %w", err)
		}
	}

	if i.onStart != nil {
		i.onStart()
	}

	authURL := i.AuthURL(projectID, host)
	if err := i.redirector.Redirect(authURL); err != nil {
		return fmt.Errorf("starting authorization for project %s: %w", projectID, err)
	}
	return nil
}

// AuthURL builds the full authorization URL for a project. The state
// parameter carries the project id so the backend callback knows which
// project to attach the resulting credential to.
func (i *Initiator) AuthURL(projectID, host string) string {
	q := url.Values{}
	q.Set("client_id", i.cfg.ClientID)
	q.Set("redirect_uri", i.redirectURI(host))
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(scopes, " "))
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	q.Set("state", projectID)

	return authEndpoint + "?" + q.Encode()
}

// redirectURI picks the callback URI for the serving host.
func (i *Initiator) redirectURI(host string) string {
	for _, h := range i.cfg.ProductionHosts {
		if strings.EqualFold(h, host) {
			return "https://" + h + callbackPath
		}
	}
	return i.cfg.LocalRedirectURI
}
