// Package geo resolves a destination country to its region and market via a
// restcountries-compatible HTTP API. The lookup is strictly best-effort: one
// attempt, bounded timeout, and every failure degrades to
// ("Unknown", "Unknown") so checkout is never blocked on it.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const unknown = "Unknown"

type Resolver struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

func NewResolver(baseURL string, timeout time.Duration, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type countryRecord struct {
	Region    string `json:"region"`
	Subregion string `json:"subregion"`
}

// Resolve returns the region and market for a country name.
func (r *Resolver) Resolve(ctx context.Context, country string) (string, string) {
	if strings.TrimSpace(country) == "" {
		return unknown, unknown
	}

	endpoint := fmt.Sprintf("%s/v3.1/name/%s?fields=region,subregion", r.baseURL, url.PathEscape(country))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return unknown, unknown
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Printf("geo: lookup country=%q error=%v", country, err)
		return unknown, unknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Printf("geo: lookup country=%q status=%d", country, resp.StatusCode)
		return unknown, unknown
	}

	var records []countryRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil || len(records) == 0 {
		r.logger.Printf("geo: lookup country=%q bad payload err=%v", country, err)
		return unknown, unknown
	}

	region := records[0].Region
	if region == "" {
		region = unknown
	}
	return region, marketFromRegion(region, records[0].Subregion)
}

func marketFromRegion(region, subregion string) string {
	region = strings.ToLower(region)
	subregion = strings.ToLower(subregion)

	switch {
	case strings.Contains(region, "europe"):
		return "Europe"
	case strings.Contains(region, "africa"):
		return "Africa"
	case strings.Contains(region, "americas"):
		if strings.Contains(subregion, "south") {
			return "LATAM"
		}
		return "USCA"
	case strings.Contains(region, "asia"), strings.Contains(region, "oceania"):
		return "Pacific Asia"
	default:
		return unknown
	}
}
