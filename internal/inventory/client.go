package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type ReserveSeatRequest struct {
	Flight    string `json:"flight"`
	ClassType string `json:"classType"`
	Number    int    `json:"number"`
}

type ReleaseSeatRequest struct {
	Flight    string `json:"flight"`
	ClassType string `json:"classType"`
	Number    int    `json:"number"`
}

type CabinDetail struct {
	ClassType      string `json:"classType"`
	AvailableSeats int    `json:"availableSeats"`
	PriceCents     int64  `json:"priceCents"`
}

type FlightDetail struct {
	Flight        string        `json:"flight"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	DepartureTime string        `json:"departureTime"`
	ArrivalTime   string        `json:"arrivalTime"`
	Cabins        []CabinDetail `json:"cabins"`
}

// RemoteError marks a failed call to the seat manager itself, as opposed to a
// capacity refusal, which is an ordinary false result of ReserveSeat.
type RemoteError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("seat manager %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("seat manager %s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *RemoteError) Unwrap() error { return e.Err }

type SeatManagerClient interface {
	ReserveSeat(ctx context.Context, req ReserveSeatRequest) (bool, error)
	ReleaseSeat(ctx context.Context, req ReleaseSeatRequest) error
	GetFlightDetail(ctx context.Context, flight string) (*FlightDetail, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// ReserveSeat returns false when the seat manager refuses for lack of
// capacity (HTTP 409) and an error for any transport or server fault.
func (c *HTTPClient) ReserveSeat(ctx context.Context, req ReserveSeatRequest) (bool, error) {
	resp, err := c.post(ctx, "/seats/reserve", req)
	if err != nil {
		return false, &RemoteError{Op: "reserve", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusConflict:
		return false, nil
	default:
		return false, &RemoteError{Op: "reserve", StatusCode: resp.StatusCode}
	}
}

func (c *HTTPClient) ReleaseSeat(ctx context.Context, req ReleaseSeatRequest) error {
	resp, err := c.post(ctx, "/seats/release", req)
	if err != nil {
		return &RemoteError{Op: "release", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &RemoteError{Op: "release", StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *HTTPClient) GetFlightDetail(ctx context.Context, flight string) (*FlightDetail, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/flights/"+url.PathEscape(flight), nil)
	if err != nil {
		return nil, &RemoteError{Op: "flight detail", Err: err}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &RemoteError{Op: "flight detail", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &RemoteError{Op: "flight detail", StatusCode: resp.StatusCode, Err: fmt.Errorf("flight %s not found", flight)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{Op: "flight detail", StatusCode: resp.StatusCode}
	}

	var detail FlightDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, &RemoteError{Op: "flight detail", Err: err}
	}
	return &detail, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.client.Do(req)
}

var _ SeatManagerClient = (*HTTPClient)(nil)
