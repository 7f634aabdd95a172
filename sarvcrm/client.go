package sarvcrm

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Cloud defaults, overridable via Config.
const (
	DefaultBaseURL     = "https://app.sarvcrm.com/API/v2"
	DefaultFrontendURL = "https://app.sarvcrm.com"
	DefaultPageSize    = 300
)

// Config holds the connection parameters for one SarvCRM deployment.
type Config struct {
	// BaseURL is the API endpoint; empty selects the cloud default.
	BaseURL string
	// FrontendURL is used only by the URL builders; empty selects the
	// cloud default.
	FrontendURL string
	// UType is the tenant discriminator and is required.
	UType    string
	Username string
	// Password is MD5-hashed before transmission unless PasswordIsMD5 is
	// set, in which case it is sent as given.
	Password      string
	PasswordIsMD5 bool
	// LoginType is optional (e.g. "portal").
	LoginType string
	// Language affects only remote-side labels and messages. Defaults to
	// en_US; fa_IR is the alternative.
	Language string
}

// Client manages the authenticated session with a SarvCRM deployment and
// carries one Module proxy per known remote module.
//
// A Client issues one blocking request at a time and holds its token in
// plain fields; it is not safe for concurrent use without external locking.
type Client struct {
	baseURL     string
	frontendURL string
	utype       string
	username    string
	password    string
	loginType   string
	language    string
	token       string

	pageSize   int
	httpClient *http.Client
	userAgent  string
	logger     zerolog.Logger

	modules

	registry map[string]*Module
}

// New creates an unauthenticated client. No network call is made; call
// Login, or wrap work in WithSession.
func New(cfg Config, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if cfg.UType == "" {
		return nil, fmt.Errorf("sarvcrm: utype is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("sarvcrm: username and password are required")
	}

	options := defaultClientOptions()
	for _, opt := range opts {
		opt(&options)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	frontendURL := cfg.FrontendURL
	if frontendURL == "" {
		frontendURL = DefaultFrontendURL
	}
	language := cfg.Language
	if language == "" {
		language = "en_US"
	}

	password := cfg.Password
	if !cfg.PasswordIsMD5 {
		sum := md5.Sum([]byte(password))
		password = hex.EncodeToString(sum[:])
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		frontendURL: strings.TrimRight(frontendURL, "/"),
		utype:       cfg.UType,
		username:    cfg.Username,
		password:    password,
		loginType:   cfg.LoginType,
		language:    language,
		pageSize:    options.pageSize,
		httpClient:  httpClient,
		userAgent:   options.userAgent,
		logger:      logger,
	}
	c.bindModules()

	return c, nil
}

// Authenticated reports whether the client holds a session token.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// Token returns the current session token, or "" when unauthenticated.
func (c *Client) Token() string {
	return c.token
}

// Login authenticates against the remote service and stores the returned
// session token. Calling it while already authenticated re-authenticates.
func (c *Client) Login(ctx context.Context) (string, error) {
	body := map[string]any{
		"utype":     c.utype,
		"user_name": c.username,
		"password":  c.password,
		"language":  c.language,
	}
	if c.loginType != "" {
		body["login_type"] = c.loginType
	}

	data, err := c.Do(ctx, http.MethodPost, opLogin, "", nil, body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return "", &AuthError{Message: apiErr.Message}
		}
		return "", &AuthError{Message: "login request failed", Err: err}
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Token == "" {
		return "", &AuthError{Message: "login response carried no token"}
	}

	c.token = payload.Token
	c.logger.Debug().Str("utype", c.utype).Str("user", c.username).Msg("Logged in to SarvCRM")
	return c.token, nil
}

// Logout invalidates the session on the remote side (best effort) and clears
// the local token unconditionally. It is a no-op when unauthenticated.
func (c *Client) Logout(ctx context.Context) error {
	if c.token == "" {
		return nil
	}

	if _, err := c.Do(ctx, http.MethodPost, opLogout, "", nil, nil); err != nil {
		c.logger.Debug().Err(err).Msg("Remote logout failed, clearing token anyway")
	}
	c.token = ""
	return nil
}

// WithSession runs fn inside a managed session: it logs in first if the
// client is unauthenticated (a login failure aborts and fn never runs), and
// logs out on every exit path, including when fn returns an error. The
// error returned is fn's own; a logout failure is logged, never substituted.
func (c *Client) WithSession(ctx context.Context, fn func(ctx context.Context) error) error {
	if !c.Authenticated() {
		if _, err := c.Login(ctx); err != nil {
			return err
		}
	}
	defer func() {
		if err := c.Logout(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("Logout on session exit failed")
		}
	}()

	return fn(ctx)
}

// Do is the single chokepoint for every remote call. It builds the wire
// request (operation name and module as query parameters, JSON body, bearer
// token header), sends it, and interprets the response envelope:
//
//   - 2xx: the envelope's data member is returned raw;
//   - any other status below 500 with a parseable body: *APIError carrying
//     the remote message;
//   - 5xx, network failure, or an unparseable body: *TransportError.
//
// Every operation except login requires a session token; calling without
// one fails with ErrNotAuthenticated before any network traffic. Do never
// mutates session state; Login and Logout manage the token.
func (c *Client) Do(ctx context.Context, httpMethod, op, module string, extra url.Values, body any) (json.RawMessage, error) {
	if c.token == "" && op != opLogin {
		return nil, ErrNotAuthenticated
	}

	query := url.Values{}
	query.Set("method", op)
	if module != "" {
		query.Set("module", module)
	}
	for key, values := range extra {
		for _, v := range values {
			query.Add(key, v)
		}
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Op: op, Err: fmt.Errorf("encoding request body: %w", err)}
		}
		reqBody = bytes.NewReader(encoded)
	}

	requestURL := c.baseURL + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, httpMethod, requestURL, reqBody)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug().
		Str("method", httpMethod).
		Str("op", op).
		Str("module", module).
		Msg("Sending SarvCRM request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode >= 500 {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("server returned status %d", resp.StatusCode)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decoding response envelope: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := env.Message
		if message == "" {
			message = "Unknown error"
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	return env.Data, nil
}

// Module looks up a module proxy by its canonical remote name.
func (c *Client) Module(name string) (*Module, error) {
	if mod, ok := c.registry[name]; ok {
		return mod, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownModule, name)
}

// Modules returns every registered module proxy in registry order.
func (c *Client) Modules() []*Module {
	mods := make([]*Module, 0, len(moduleDescriptors))
	for _, d := range moduleDescriptors {
		mods = append(mods, c.registry[d.Name])
	}
	return mods
}

func (c *Client) String() string {
	return fmt.Sprintf("<SarvClient %s>", c.utype)
}

// Timeout used when no option or custom http.Client is given.
const defaultTimeout = 30 * time.Second
