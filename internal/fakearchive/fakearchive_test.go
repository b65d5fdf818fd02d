package fakearchive

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func login(t *testing.T, srv *httptest.Server, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/login", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read login body: %v", err)
	}
	return resp, string(data)
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestLoginIssuesStructuredOrRawToken(t *testing.T) {
	for _, raw := range []bool{false, true} {
		opts := Demo()
		opts.RawToken = raw
		srv := httptest.NewServer(New(opts))

		resp, body := login(t, srv, `{"username":"demo","password":"demo"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("raw=%v: status = %d, want 200", raw, resp.StatusCode)
		}
		if raw {
			if strings.HasPrefix(body, "{") || strings.TrimSpace(body) == "" {
				t.Fatalf("raw token body = %q", body)
			}
		} else {
			var reply struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal([]byte(body), &reply); err != nil || reply.Token == "" {
				t.Fatalf("json token body = %q (%v)", body, err)
			}
		}
		srv.Close()
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := httptest.NewServer(New(Demo()))
	defer srv.Close()

	resp, _ := login(t, srv, `{"username":"demo","password":"nope"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	resp, _ = login(t, srv, `not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestProtectedRoutesNeedKnownToken(t *testing.T) {
	fake := New(Demo())
	srv := httptest.NewServer(fake)
	defer srv.Close()

	if resp := get(t, srv.URL+"/api/backups/metadata", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", resp.StatusCode)
	}
	if resp := get(t, srv.URL+"/api/backups/metadata", "made-up"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown token: status = %d, want 401", resp.StatusCode)
	}
	if got := fake.Hits("/api/backups/metadata"); got != 2 {
		t.Fatalf("Hits = %d, want 2", got)
	}
}

func TestMetadataAndMediaListings(t *testing.T) {
	srv := httptest.NewServer(New(Demo()))
	defer srv.Close()

	_, body := login(t, srv, `{"username":"demo","password":"demo"}`)
	var reply struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		t.Fatalf("decode token: %v", err)
	}

	var meta struct {
		Data []struct {
			Month string `json:"month"`
			Year  string `json:"year"`
		} `json:"data"`
	}
	resp := get(t, srv.URL+"/api/backups/metadata", reply.Token)
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if len(meta.Data) != 3 || meta.Data[0].Month != "october" || meta.Data[2].Year != "2023" {
		t.Fatalf("metadata = %+v", meta.Data)
	}

	var media struct {
		Media []Item `json:"media"`
	}
	resp = get(t, srv.URL+"/api/backups?month=september&year=2024", reply.Token)
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		t.Fatalf("decode media: %v", err)
	}
	if len(media.Media) != 4 {
		t.Fatalf("media = %d items, want 4 (all types)", len(media.Media))
	}

	resp = get(t, srv.URL+"/api/backups?month=june&year=1999", reply.Token)
	media.Media = nil
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		t.Fatalf("decode empty media: %v", err)
	}
	if media.Media == nil || len(media.Media) != 0 {
		t.Fatalf("unknown bucket media = %#v, want empty array", media.Media)
	}
}

func TestFilesAreServedWithoutAuth(t *testing.T) {
	srv := httptest.NewServer(New(Demo()))
	defer srv.Close()

	resp := get(t, srv.URL+"/files/2024/october/001.jpg", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp := get(t, srv.URL+"/files/missing.jpg", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing file status = %d, want 404", resp.StatusCode)
	}
}
