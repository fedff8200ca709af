package itinera

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Itinera REST API. It is stateless: the bearer token
// is a per-call argument rather than a mutable default header, so one
// client instance serves every console session concurrently.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FileURL resolves a server-relative file path (avatars, experience images,
// payment proofs) against the upstream base URL for rendering.
func (c *Client) FileURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/login", "", req, &resp)
	return resp, err
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (User, error) {
	var u User
	err := c.doJSON(ctx, http.MethodPost, "/users/register", "", req, &u)
	return u, err
}

// Tags fetches the server-defined tag taxonomy.
func (c *Client) Tags(ctx context.Context, token string) ([]Tag, error) {
	var tags []Tag
	err := c.doJSON(ctx, http.MethodGet, "/tags", token, nil, &tags)
	return tags, err
}

func (c *Client) Experience(ctx context.Context, token string, id int) (Experience, error) {
	var exp Experience
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/experience/%d", id), token, nil, &exp)
	return exp, err
}

func (c *Client) ExperienceAvailability(ctx context.Context, token string, id int) ([]DaySchedule, error) {
	var days []DaySchedule
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/experience/%d/availability", id), token, nil, &days)
	return days, err
}

// MyExperiences lists the authenticated creator's experiences.
func (c *Client) MyExperiences(ctx context.Context, token string) ([]Experience, error) {
	var exps []Experience
	err := c.doJSON(ctx, http.MethodGet, "/experience/mine", token, nil, &exps)
	return exps, err
}

// CreateExperience submits a fully assembled draft as one multipart request.
func (c *Client) CreateExperience(ctx context.Context, token string, form *ExperienceForm) (Experience, error) {
	return c.submitExperience(ctx, token, http.MethodPost, "/experience/create", form)
}

// UpdateExperience saves an edit-mode draft against an existing experience.
// Existing images are never re-uploaded; their deletion is signalled inside
// the form.
func (c *Client) UpdateExperience(ctx context.Context, token string, id int, form *ExperienceForm) (Experience, error) {
	return c.submitExperience(ctx, token, http.MethodPut, fmt.Sprintf("/experience/%d", id), form)
}

func (c *Client) submitExperience(ctx context.Context, token, method, path string, form *ExperienceForm) (Experience, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return Experience{}, fmt.Errorf("encoding experience form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return Experience{}, err
	}
	req.Header.Set("Content-Type", contentType)
	setBearer(req, token)

	var exp Experience
	if err := c.send(req, &exp); err != nil {
		return Experience{}, err
	}
	return exp, nil
}

func (c *Client) Payment(ctx context.Context, token string, id int) (Payment, error) {
	var p Payment
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/admin/payment/%d", id), token, nil, &p)
	return p, err
}

func (c *Client) ApprovePayment(ctx context.Context, token string, id int) (Payment, error) {
	var p Payment
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/payment/%d/approve", id), token, nil, &p)
	return p, err
}

func (c *Client) DeclinePayment(ctx context.Context, token string, id int) (Payment, error) {
	var p Payment
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/payment/%d/decline", id), token, nil, &p)
	return p, err
}

func (c *Client) AdminItineraries(ctx context.Context, token string) ([]Itinerary, error) {
	var its []Itinerary
	err := c.doJSON(ctx, http.MethodGet, "/admin/itineraries", token, nil, &its)
	return its, err
}

// CreatorItineraries lists itineraries that include the creator's
// experiences, for the creator-facing earnings screen.
func (c *Client) CreatorItineraries(ctx context.Context, token string) ([]Itinerary, error) {
	var its []Itinerary
	err := c.doJSON(ctx, http.MethodGet, "/booking/itineraries", token, nil, &its)
	return its, err
}

func (c *Client) MyBookings(ctx context.Context, token string) ([]Booking, error) {
	var bs []Booking
	err := c.doJSON(ctx, http.MethodGet, "/booking/mine", token, nil, &bs)
	return bs, err
}

// Booking fetches one booking for the detail view.
func (c *Client) Booking(ctx context.Context, token string, id int) (Booking, error) {
	var b Booking
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/booking/%d", id), token, nil, &b)
	return b, err
}

func (c *Client) PartnerSummary(ctx context.Context, token string) (PartnerSummary, error) {
	var s PartnerSummary
	err := c.doJSON(ctx, http.MethodGet, "/partner/summary", token, nil, &s)
	return s, err
}

func (c *Client) PartnerExperiences(ctx context.Context, token string) ([]Experience, error) {
	var exps []Experience
	err := c.doJSON(ctx, http.MethodGet, "/partner/experiences", token, nil, &exps)
	return exps, err
}

func (c *Client) Notifications(ctx context.Context, token string) ([]Notification, error) {
	var ns []Notification
	err := c.doJSON(ctx, http.MethodGet, "/notifications", token, nil, &ns)
	return ns, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, token string, id int) error {
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/notifications/%d/read", id), token, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	setBearer(req, token)

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding upstream response: %w", err)
	}
	return nil
}

func setBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// readErrorMessage extracts {"error": "..."} or {"message": "..."} from an
// upstream error body, falling back to the raw text.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "upstream error"
	}

	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &parsed) == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(data))
}
