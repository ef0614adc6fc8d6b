package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

// RESTWriter inserts readings through a PostgREST-style data API instead of a
// direct database connection. The orchestrator tries this path first when it
// is configured and falls back to the database on failure; both paths must
// persist an equivalent row.
type RESTWriter struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      logger.Logger
}

// NewRESTWriter creates a writer for the data API rooted at baseURL.
func NewRESTWriter(baseURL, accessToken string, httpClient *http.Client, log logger.Logger) *RESTWriter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RESTWriter{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  httpClient,
		logger:      log,
	}
}

type restRateRow struct {
	Vedhani      string     `json:"vedhani"`
	Ornaments22K string     `json:"ornaments22k"`
	Ornaments18K string     `json:"ornaments18k"`
	Silver       string     `json:"silver"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// Insert posts the reading to the rates collection and returns the row the
// API reports back. The Prefer header asks the API to echo the inserted
// representation.
func (w *RESTWriter) Insert(ctx context.Context, reading *entity.RateReading) (*entity.RateReading, error) {
	payload, err := json.Marshal(restRateRow{
		Vedhani:      reading.Vedhani,
		Ornaments22K: reading.Ornaments22K,
		Ornaments18K: reading.Ornaments18K,
		Silver:       reading.Silver,
	})
	if err != nil {
		return nil, eris.Wrap(err, "rest: marshal reading")
	}

	url := w.baseURL + "/rates"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "rest: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	if w.accessToken != "" {
		req.Header.Set("X-Stack-Access-Token", w.accessToken)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "rest: insert into %s", url)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("rest: insert failed: %d %s %s", resp.StatusCode, resp.Status, preview(body))
	}

	var rows []restRateRow
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		// The insert succeeded even if the representation is missing or
		// malformed; fall back to echoing the input.
		w.logger.Debug("REST insert returned no representation", map[string]interface{}{
			"url": url,
		})
		out := *reading
		return &out, nil
	}

	saved := rows[0]
	out := &entity.RateReading{
		Vedhani:      saved.Vedhani,
		Ornaments22K: saved.Ornaments22K,
		Ornaments18K: saved.Ornaments18K,
		Silver:       saved.Silver,
		Source:       reading.Source,
	}
	if saved.UpdatedAt != nil {
		out.UpdatedAt = *saved.UpdatedAt
	}
	return out, nil
}
