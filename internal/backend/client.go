// Package backend is the typed HTTP client for the external measurement
// API that serves facade averages, refrigerant-cycle readings and the
// realtime snapshot.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Alkran93/Project-BICPV-sub001/internal/stats"
)

const (
	FacadeTypeRefrigerated    = "refrigerada"
	FacadeTypeNonRefrigerated = "no_refrigerada"
)

// TimeWindow bounds a query. Zero fields mean "unbounded" and are omitted
// from the request.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func (w TimeWindow) query(q url.Values) {
	if !w.Start.IsZero() {
		q.Set("start", w.Start.UTC().Format(time.RFC3339))
	}
	if !w.End.IsZero() {
		q.Set("end", w.End.UTC().Format(time.RFC3339))
	}
}

// CycleData is the refrigerant-cycle payload with the point groups in the
// order the backend emitted them.
type CycleData struct {
	FacadeID string
	Points   []stats.CyclePointGroup
}

// RealtimeReading is one entry of the live snapshot.
type RealtimeReading struct {
	Sensor     string   `json:"sensor"`
	Value      *float64 `json:"value"`
	TS         string   `json:"ts"`
	DeviceID   string   `json:"device_id"`
	FacadeType string   `json:"facade_type"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FacadeAverage fetches the mean temperature of one facade variant over
// the window. The response canonically carries avg_temperature per entry;
// avg_value is accepted as a deprecated alias until the upstream schema
// is pinned. Entries are averaged into a single figure for the view.
func (c *Client) FacadeAverage(ctx context.Context, facadeID, facadeType string, w TimeWindow) (float64, error) {
	if strings.TrimSpace(facadeID) == "" {
		return 0, ErrMissingFacadeID
	}

	q := url.Values{}
	q.Set("facade_type", facadeType)
	w.query(q)

	var body struct {
		Averages []averageEntry `json:"averages"`
	}
	if err := c.getJSON(ctx, "/facades/"+url.PathEscape(facadeID)+"/average", q, &body); err != nil {
		return 0, fmt.Errorf("facade average (%s): %w", facadeType, err)
	}

	var sum float64
	var n int
	for _, e := range body.Averages {
		v, ok := e.value()
		if !ok {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

type averageEntry struct {
	AvgTemperature *float64 `json:"avg_temperature"`
	// Deprecated alias kept while the upstream schema settles.
	AvgValue *float64 `json:"avg_value"`
}

func (e averageEntry) value() (float64, bool) {
	if e.AvgTemperature != nil {
		return *e.AvgTemperature, true
	}
	if e.AvgValue != nil {
		return *e.AvgValue, true
	}
	return 0, false
}

// RefrigerantCycle fetches raw readings grouped by cycle point. A 404
// means the facade has no refrigeration subsystem and is reported as
// ErrNotApplicable. The cycle_points object is decoded token by token so
// the backend's insertion order survives into Points.
func (c *Client) RefrigerantCycle(ctx context.Context, facadeID string, w TimeWindow) (CycleData, error) {
	if strings.TrimSpace(facadeID) == "" {
		return CycleData{}, ErrMissingFacadeID
	}

	q := url.Values{}
	w.query(q)

	resp, err := c.get(ctx, "/temperatures/refrigerant-cycle/"+url.PathEscape(facadeID), q)
	if err != nil {
		return CycleData{}, fmt.Errorf("refrigerant cycle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return CycleData{}, ErrNotApplicable
	}
	if resp.StatusCode != http.StatusOK {
		return CycleData{}, fmt.Errorf("refrigerant cycle: %w", &StatusError{Code: resp.StatusCode, Status: resp.Status})
	}

	data, err := decodeCycleResponse(json.NewDecoder(resp.Body))
	if err != nil {
		return CycleData{}, fmt.Errorf("refrigerant cycle: decode: %w", err)
	}
	return data, nil
}

// Realtime fetches the live snapshot for a facade. The backend keys the
// snapshot by sensor name with no defined order, so entries are sorted by
// name for a stable display.
func (c *Client) Realtime(ctx context.Context, facadeID string) ([]RealtimeReading, error) {
	if strings.TrimSpace(facadeID) == "" {
		return nil, ErrMissingFacadeID
	}

	var body struct {
		FacadeID string `json:"facade_id"`
		Sensors  map[string]struct {
			Value      *float64 `json:"value"`
			TS         string   `json:"ts"`
			DeviceID   string   `json:"device_id"`
			FacadeType string   `json:"facade_type"`
		} `json:"sensors"`
	}
	if err := c.getJSON(ctx, "/realtime/facades/"+url.PathEscape(facadeID), nil, &body); err != nil {
		return nil, fmt.Errorf("realtime snapshot: %w", err)
	}

	out := make([]RealtimeReading, 0, len(body.Sensors))
	for name, s := range body.Sensors {
		out = append(out, RealtimeReading{
			Sensor:     name,
			Value:      s.Value,
			TS:         s.TS,
			DeviceID:   s.DeviceID,
			FacadeType: s.FacadeType,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sensor < out[j].Sensor })
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	resp, err := c.get(ctx, path, q)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
