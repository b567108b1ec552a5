package providers

import (
	"context"
	"testing"
)

func TestNominatimSearchStoresLatLonInMetadata(t *testing.T) {
	body := `[{"display_name":"Paris, France","osm_type":"relation","osm_id":7444,"lat":"48.8566","lon":"2.3522"}]`
	n := NewNominatim(newFakeFetcher(body))
	items, err := n.Search(context.Background(), "paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Metadata["lat"] != "48.8566" || items[0].Metadata["lon"] != "2.3522" {
		t.Fatalf("expected lat/lon in metadata, got %+v", items[0].Metadata)
	}
	if items[0].URL != "https://www.openstreetmap.org/relation/7444" {
		t.Fatalf("unexpected URL: %q", items[0].URL)
	}
}

func TestOverpassSearchSkipsUnnamedElements(t *testing.T) {
	body := `{"elements":[{"id":1,"tags":{"amenity":"cafe"}},{"id":2,"tags":{"name":"Blue Bottle","amenity":"cafe"}}]}`
	o := NewOverpass(newFakeFetcher(body))
	items, err := o.Search(context.Background(), "cafe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected only the named element to survive, got %d", len(items))
	}
	if items[0].Title != "Blue Bottle" {
		t.Fatalf("unexpected title: %q", items[0].Title)
	}
}

func TestEscapeOverpassRegexStripsQuotes(t *testing.T) {
	got := escapeOverpassRegex(`some "quoted" value`)
	if got != "some quoted value" {
		t.Fatalf("expected quotes stripped, got %q", got)
	}
}

func TestNPSSearchMarksResultsAsPrimary(t *testing.T) {
	body := `{"data":[{"fullName":"Yellowstone National Park","url":"https://nps.gov/yell","description":"first national park"}]}`
	n := NewNPS(newFakeFetcher(body), "testkey")
	items, err := n.Search(context.Background(), "yellowstone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || !items[0].IsPrimarySource {
		t.Fatalf("unexpected items: %+v", items)
	}
}
