package httpx

import "testing"

func TestRobotsCacheAllowlistBypassesFetch(t *testing.T) {
	rc := NewRobotsCache("EATC-test/1.0")
	if !rc.Allowed("worldbank.org", "/any/report.pdf") {
		t.Fatal("allowlisted report host should always be allowed without a network fetch")
	}
}

func TestRobotsCacheUnreachableHostAssumesAllow(t *testing.T) {
	rc := NewRobotsCache("EATC-test/1.0")
	if !rc.Allowed("this-host-does-not-resolve.invalid", "/page") {
		t.Fatal("a robots.txt fetch failure must fail open (assume allow)")
	}
}

func TestRobotsCacheCachesPerHost(t *testing.T) {
	rc := NewRobotsCache("EATC-test/1.0")
	rc.Allowed("example.invalid", "/a")
	if _, ok := rc.entries["example.invalid"]; !ok {
		t.Fatal("expected an entry to be cached after the first lookup")
	}
}
