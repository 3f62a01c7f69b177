// Package decolecta resolves DNIs through the Decolecta RENIEC API.
package decolecta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/ports"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

var _ ports.IdentityLookup = (*Client)(nil)

// dniResponse covers the basic and extended RENIEC payloads.
type dniResponse struct {
	DocumentNumber string  `json:"document_number"`
	FirstName      string  `json:"first_name"`
	FirstLastName  string  `json:"first_last_name"`
	SecondLastName string  `json:"second_last_name"`
	FullName       string  `json:"full_name"`
	Address        string  `json:"address"`
	District       string  `json:"district"`
	Province       string  `json:"province"`
	Department     string  `json:"department"`
	BirthDate      string  `json:"birth_date"`
	PhotoURL       *string `json:"photo_url"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, log logger.Logger) *Client {
	return NewClientWithHTTPClient(baseURL, token, &http.Client{Timeout: timeout}, log)
}

func NewClientWithHTTPClient(baseURL, token string, httpClient *http.Client, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		log:        log,
	}
}

func (c *Client) Lookup(ctx context.Context, dni string) (*domain.Voter, error) {
	dni, err := domain.ValidateDNI(dni)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base url: %w", domain.ErrUpstreamUnavailable, err)
	}
	q := u.Query()
	q.Set("numero", dni)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrUpstreamUnavailable, err)
	}

	c.log.Debug("reniec response", "status", resp.StatusCode, "dni", domain.MaskDNI(dni))

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		c.log.Warn("reniec returned non json response", "content_type", resp.Header.Get("Content-Type"))
		return nil, fmt.Errorf("%w: unexpected content type %q", domain.ErrUpstreamUnavailable, mediaType)
	}

	var payload dniResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %w", domain.ErrUpstreamUnavailable, err)
	}

	voter := payload.toVoter(dni)
	if voter.FullName == "" {
		return nil, domain.ErrVoterNotFound
	}
	return voter, nil
}

func (r dniResponse) toVoter(dni string) *domain.Voter {
	fullName := strings.TrimSpace(r.FullName)
	if fullName == "" {
		fullName = strings.Join(strings.Fields(strings.Join([]string{r.FirstName, r.FirstLastName, r.SecondLastName}, " ")), " ")
	}
	return &domain.Voter{
		DNI:        dni,
		FullName:   fullName,
		Address:    r.Address,
		District:   r.District,
		Province:   r.Province,
		Department: r.Department,
		BirthDate:  r.BirthDate,
		PhotoURL:   r.PhotoURL,
	}
}

func statusError(status int, body []byte) error {
	detail := http.StatusText(status)
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Message != "" {
			detail = e.Message
		} else if e.Error != "" {
			detail = e.Error
		}
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrVoterNotFound, detail)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrInvalidDNI, detail)
	default:
		return fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamUnavailable, status, detail)
	}
}
