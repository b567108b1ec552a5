package providers

import (
	"context"
	"fmt"

	"github.com/corrobor8/eatc/internal/evidence"
)

// Nominatim resolves a place name to a canonical location record via
// OpenStreetMap's geocoder. Must be throttled to 1 request/second per its
// usage policy (internal/pipeline sets this via httpx.Client.SetMinInterval).
type Nominatim struct{ client fetcher }

func NewNominatim(client fetcher) *Nominatim { return &Nominatim{client: client} }

func (n *Nominatim) Name() string { return "nominatim" }

type nominatimHit struct {
	DisplayName string `json:"display_name"`
	OSMType     string `json:"osm_type"`
	OSMID       int64  `json:"osm_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (n *Nominatim) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf("https://nominatim.openstreetmap.org/search?q=%s&format=jsonv2&limit=8", queryEscape(q))
		var hits []nominatimHit
		if err := fetchJSON(ctx, n.client, apiURL, &hits); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(hits))
		for _, h := range hits {
			link := fmt.Sprintf("https://www.openstreetmap.org/%s/%d", h.OSMType, h.OSMID)
			it := newItem(n.Name(), link, h.DisplayName, "")
			it.CredibilityScore = 0.6
			it.Metadata["lat"] = h.Lat
			it.Metadata["lon"] = h.Lon
			items = append(items, it)
		}
		return items, nil
	})
}

// Overpass runs a small Overpass QL query against OSM for POI-style facts
// (opening hours, amenity tags) a geocoder alone wouldn't surface. Also
// throttled to 1 request/second.
type Overpass struct{ client fetcher }

func NewOverpass(client fetcher) *Overpass { return &Overpass{client: client} }

func (o *Overpass) Name() string { return "overpass" }

type overpassResponse struct {
	Elements []struct {
		ID   int64             `json:"id"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

func (o *Overpass) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	ql := fmt.Sprintf(`[out:json];node["name"~"%s",i];out body 10;`, escapeOverpassRegex(topic))
	apiURL := "https://overpass-api.de/api/interpreter?data=" + queryEscape(ql)
	var resp overpassResponse
	if err := fetchJSON(ctx, o.client, apiURL, &resp); err != nil {
		return nil, err
	}
	items := make([]*evidence.Item, 0, len(resp.Elements))
	for _, e := range resp.Elements {
		name := e.Tags["name"]
		if name == "" {
			continue
		}
		link := fmt.Sprintf("https://www.openstreetmap.org/node/%d", e.ID)
		it := newItem(o.Name(), link, name, formatTags(e.Tags))
		it.CredibilityScore = 0.55
		items = append(items, it)
	}
	return items, nil
}

func escapeOverpassRegex(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

func formatTags(tags map[string]string) string {
	s := ""
	for k, v := range tags {
		if k == "name" {
			continue
		}
		if s != "" {
			s += ", "
		}
		s += k + "=" + v
	}
	return s
}

// NPS queries the US National Park Service's public API for park and
// points-of-interest information, useful for travel/local intent topics.
// Requires an API key.
type NPS struct {
	client fetcher
	apiKey string
}

func NewNPS(client fetcher, apiKey string) *NPS { return &NPS{client: client, apiKey: apiKey} }

func (n *NPS) Name() string { return "nps" }

type npsResponse struct {
	Data []struct {
		FullName    string `json:"fullName"`
		URL         string `json:"url"`
		Description string `json:"description"`
	} `json:"data"`
}

func (n *NPS) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf("https://developer.nps.gov/api/v1/parks?q=%s&limit=10&api_key=%s", queryEscape(q), n.apiKey)
		var resp npsResponse
		if err := fetchJSON(ctx, n.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Data))
		for _, r := range resp.Data {
			it := newItem(n.Name(), r.URL, r.FullName, r.Description)
			it.CredibilityScore = 0.9
			it.IsPrimarySource = true
			items = append(items, it)
		}
		return items, nil
	})
}
