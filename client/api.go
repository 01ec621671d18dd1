package client

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"civictrack/geocode"
	"civictrack/models"

	"github.com/pkg/errors"
)

type loginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    Principal `json:"user"`
}

// Login exchanges credentials for a token and stores it with the principal
// in one session write.
func (c *Client) Login(ctx context.Context, email, password string) (Principal, error) {
	var resp loginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", authNone, map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{}, err
	}
	if resp.Token == "" {
		return Principal{}, errors.New("login response carried no token")
	}
	if _, ok := models.ParseRole(string(resp.User.Role)); !ok {
		return Principal{}, errors.Errorf("login response carried unknown role %q", resp.User.Role)
	}
	c.session.Set(resp.Token, resp.User)
	return resp.User, nil
}

// Register creates a citizen account. It does not sign in.
func (c *Client) Register(ctx context.Context, name, email, password string) (Principal, error) {
	var resp struct {
		User Principal `json:"user"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", authNone, map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &resp)
	return resp.User, err
}

func (c *Client) Logout() {
	c.session.Clear()
}

// Refresh revalidates the stored token. A rejected token signs the session
// out; other failures leave it as it was. If the session changed while the
// check was in flight (logout or a new login) the result is dropped and
// ErrStale returned.
func (c *Client) Refresh(ctx context.Context) error {
	token := c.session.Token()
	if token == "" {
		return ErrUnauthenticated
	}
	c.session.SetLoading(true)
	defer c.session.SetLoading(false)

	var resp struct {
		User Principal `json:"user"`
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/me", nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	err = c.send(req, &resp)
	if errors.Is(err, ErrUnauthenticated) {
		c.session.ClearIf(token)
		return err
	}
	if err != nil {
		return err
	}
	if !c.session.Revalidate(token, resp.User) {
		return ErrStale
	}
	return nil
}

// ListIssues fetches the public listing. An admin session also receives
// assignees.
func (c *Client) ListIssues(ctx context.Context, f Filter) ([]Issue, error) {
	path := "/api/issues"
	if q := f.Query(); q != "" {
		path += "?" + q
	}
	var issues []Issue
	err := c.doJSON(ctx, http.MethodGet, path, authOptional, nil, &issues)
	return issues, err
}

func (c *Client) MyIssues(ctx context.Context) ([]Issue, error) {
	var issues []Issue
	err := c.doJSON(ctx, http.MethodGet, "/api/issues/my", authRequired, nil, &issues)
	return issues, err
}

func (c *Client) MapPins(ctx context.Context) ([]Pin, error) {
	var pins []Pin
	err := c.doJSON(ctx, http.MethodGet, "/api/issues/map", authNone, nil, &pins)
	return pins, err
}

func (c *Client) Issue(ctx context.Context, id string) (Issue, error) {
	var issue Issue
	err := c.doJSON(ctx, http.MethodGet, "/api/issues/"+url.PathEscape(id), authOptional, nil, &issue)
	return issue, err
}

func (c *Client) Stats(ctx context.Context) (models.IssueStats, error) {
	var stats models.IssueStats
	err := c.doJSON(ctx, http.MethodGet, "/api/issues/stats", authRequired, nil, &stats)
	return stats, err
}

// AdminCandidates lists the users an issue may be assigned to.
func (c *Client) AdminCandidates(ctx context.Context) ([]Person, error) {
	var people []Person
	err := c.doJSON(ctx, http.MethodGet, "/api/users?role=admin", authRequired, nil, &people)
	return people, err
}

// CreateIssue validates the draft and submits it as a multipart form. An
// invalid draft is rejected before any request is made.
func (c *Client) CreateIssue(ctx context.Context, d *Draft) (Issue, error) {
	if err := d.Validate(); err != nil {
		return Issue{}, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"title", strings.TrimSpace(d.Title)},
		{"description", strings.TrimSpace(d.Description)},
		{"category", string(d.Category)},
		{"latitude", strconv.FormatFloat(d.Location.Latitude, 'f', -1, 64)},
		{"longitude", strconv.FormatFloat(d.Location.Longitude, 'f', -1, 64)},
	}
	if d.Location.Address != "" {
		fields = append(fields, [2]string{"address", d.Location.Address})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return Issue{}, errors.Wrap(err, "encode form")
		}
	}

	contentType := d.Image.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(d.Image.Data)
	}
	filename := d.Image.Filename
	if filename == "" {
		filename = "photo"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+escapeQuotes(filename)+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return Issue{}, errors.Wrap(err, "encode image")
	}
	if _, err := part.Write(d.Image.Data); err != nil {
		return Issue{}, errors.Wrap(err, "encode image")
	}
	if err := mw.Close(); err != nil {
		return Issue{}, errors.Wrap(err, "encode form")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/issues", authRequired, &buf)
	if err != nil {
		return Issue{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var issue Issue
	if err := c.send(req, &issue); err != nil {
		return Issue{}, err
	}
	return issue, nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// TransitionIssue writes status, notes and assignee together.
func (c *Client) TransitionIssue(ctx context.Context, id string, t Transition) (Issue, error) {
	var issue Issue
	err := c.doJSON(ctx, http.MethodPatch, "/api/issues/"+url.PathEscape(id), authRequired, t, &issue)
	return issue, err
}

func (c *Client) DeleteIssue(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/issues/"+url.PathEscape(id), authRequired, nil, nil)
}

// SearchPlaces looks up places through the API's geocoding proxy. Short
// terms return nothing without a request.
func (c *Client) SearchPlaces(ctx context.Context, term string) ([]geocode.Place, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < geocode.MinQueryLength {
		return nil, nil
	}
	var places []geocode.Place
	err := c.doJSON(ctx, http.MethodGet, "/api/geocode/search?q="+url.QueryEscape(term), authNone, nil, &places)
	return places, err
}
