package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"travel-concierge-be/internal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

const (
	logModule        = "BOOKING"
	travelerBookings = "/api/bookings/traveler"
	serviceTokenTTL  = 5 * time.Minute
	serviceTokenRole = "traveler"
	bearerPrefix     = "Bearer "
)

type Client struct {
	baseURL    string
	client     *http.Client
	signingKey []byte
	logger     logger.ILogger
	now        func() time.Time
}

var _ Provider = &Client{}

// NewClient calls the booking service at baseURL. When signingKey is set and
// the caller forwarded no Authorization header, the client signs a short
// lived token for the traveler with the shared secret the service verifies.
func NewClient(baseURL string, timeout time.Duration, signingKey string, log logger.ILogger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: timeout},
		signingKey: []byte(signingKey),
		logger:     log,
		now:        time.Now,
	}
}

func (c *Client) FetchBookings(ctx context.Context, travelerID, authorization string) []Booking {
	bookings, err := c.fetch(ctx, travelerID, authorization)
	if err != nil {
		c.logger.Warn(logModule, "Booking history unavailable", map[string]interface{}{
			"traveler_id": travelerID,
			"error":       err.Error(),
		})
		return []Booking{}
	}
	return bookings
}

func (c *Client) fetch(ctx context.Context, travelerID, authorization string) ([]Booking, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("booking service url is not configured")
	}

	if authorization == "" {
		token, err := c.serviceToken(travelerID)
		if err != nil {
			return nil, err
		}
		authorization = bearerPrefix + token
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+travelerBookings, nil)
	if err != nil {
		return nil, fmt.Errorf("create booking request: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("booking request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("booking service returned status %d", resp.StatusCode)
	}

	var bookings []Booking
	if err := json.NewDecoder(resp.Body).Decode(&bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

func (c *Client) serviceToken(travelerID string) (string, error) {
	if len(c.signingKey) == 0 {
		return "", fmt.Errorf("no authorization forwarded and no signing key configured")
	}
	now := c.now()
	claims := jwt.MapClaims{
		"id":   travelerID,
		"role": serviceTokenRole,
		"iat":  now.Unix(),
		"exp":  now.Add(serviceTokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign service token: %w", err)
	}
	return signed, nil
}
