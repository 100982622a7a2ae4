package iogbif

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gnames/fungidb/internal/iometrics"
	"github.com/goccy/go-json"
)

// fungiKingdomKey is the GBIF backbone key of the Fungi kingdom.
const fungiKingdomKey = 5

// errPermanent marks responses that will not improve on retry.
var errPermanent = errors.New("permanent failure")

type searchPage struct {
	Offset       int    `json:"offset"`
	Limit        int    `json:"limit"`
	EndOfRecords bool   `json:"endOfRecords"`
	Count        int    `json:"count"`
	Results      []item `json:"results"`
}

// item is a species of the GBIF search API.
type item struct {
	Key             int64        `json:"key"`
	ScientificName  string       `json:"scientificName"`
	CanonicalName   string       `json:"canonicalName"`
	KingdomKey      int          `json:"kingdomKey"`
	Kingdom         string       `json:"kingdom"`
	Phylum          string       `json:"phylum"`
	Class           string       `json:"class"`
	Order           string       `json:"order"`
	Family          string       `json:"family"`
	Genus           string       `json:"genus"`
	Rank            string       `json:"rank"`
	TaxonomicStatus string       `json:"taxonomicStatus"`
	VernacularNames []vernacular `json:"vernacularNames"`
}

type vernacular struct {
	Language       string `json:"language"`
	VernacularName string `json:"vernacularName"`
}

type vernacularPage struct {
	EndOfRecords bool         `json:"endOfRecords"`
	Results      []vernacular `json:"results"`
}

func (f *Fetcher) searchURL(offset int) string {
	params := url.Values{}
	params.Set("kingdomKey", strconv.Itoa(fungiKingdomKey))
	params.Set("rank", "SPECIES")
	params.Set("status", "ACCEPTED")
	params.Set("limit", strconv.Itoa(f.cfg.GBIF.PageSize))
	params.Set("offset", strconv.Itoa(offset))
	return fmt.Sprintf("%s/species/search?%s", f.cfg.GBIF.URL, params.Encode())
}

func (f *Fetcher) vernacularURL(key int64) string {
	return fmt.Sprintf("%s/species/%d/vernacularNames?limit=100",
		f.cfg.GBIF.URL, key)
}

// getJSON fetches a URL into v, retrying transient failures with linearly
// growing delays.
func (f *Fetcher) getJSON(ctx context.Context, reqURL string, v any) error {
	attempts := max(f.cfg.GBIF.RetryAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var body []byte
		body, err = f.get(ctx, reqURL)
		if err == nil {
			if err = json.Unmarshal(body, v); err != nil {
				return DecodeError(reqURL, err)
			}
			return nil
		}
		if errors.Is(err, errPermanent) {
			return UnavailableError(reqURL, attempt, err)
		}

		if attempt < attempts {
			delay := f.cfg.GBIF.RetryDelay * time.Duration(attempt)
			slog.Warn("GBIF request failed, retrying",
				"url", reqURL,
				"attempt", attempt,
				"max_attempts", attempts,
				"delay", delay,
				"error", err,
			)
			iometrics.GBIFRetriesTotal.Inc()
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return UnavailableError(reqURL, attempts, err)
}

func (f *Fetcher) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w: %w", errPermanent, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		iometrics.RecordGBIFRequest(0)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	iometrics.RecordGBIFRequest(resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d", errPermanent, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	return body, nil
}
