package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rokibulislampro/mnly-server/internal/config"
	"github.com/rokibulislampro/mnly-server/internal/models"
	"github.com/rokibulislampro/mnly-server/internal/store"
	"github.com/rokibulislampro/mnly-server/internal/store/memstore"
	"github.com/rokibulislampro/mnly-server/internal/token"
)

type okNotifier struct{}

func (okNotifier) Send(context.Context, models.Order) bool { return true }

type urlUploader struct{}

func (urlUploader) Upload(_ context.Context, r io.Reader, name, folder string) (string, error) {
	io.Copy(io.Discard, r)
	return "https://media.example/" + folder + "/" + name, nil
}

func newServer(t *testing.T) (*httptest.Server, *store.Gateway) {
	t.Helper()
	gw := memstore.NewGateway()
	tokens, err := token.New("router-test-secret")
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		CORS:   config.CORS{AllowedOrigins: []string{"https://mnly.store"}},
		Media:  config.Media{ProductFolder: "products", ReviewFolder: "reviews"},
		Limits: config.Limits{OrdersPerMinute: 0, MaxUploadMB: 1},
	}
	srv := httptest.NewServer(New(Deps{
		Store:    gw,
		Tokens:   tokens,
		Notifier: okNotifier{},
		Uploader: urlUploader{},
		Config:   cfg,
	}))
	t.Cleanup(srv.Close)
	return srv, gw
}

func call(t *testing.T, method, url, bearer, body string) (*http.Response, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func TestLivenessAndMetrics(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := call(t, http.MethodGet, srv.URL+"/", "", "")
	if resp.StatusCode != http.StatusOK || body != Liveness {
		t.Errorf("liveness = %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("request id not echoed")
	}

	resp, body = call(t, http.MethodGet, srv.URL+"/metrics", "", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "http_requests_total") {
		t.Errorf("metrics = %d", resp.StatusCode)
	}
}

func TestTokenToAdminProbe(t *testing.T) {
	srv, gw := newServer(t)
	gw.Users.InsertOne(context.Background(), store.Document{"email": "boss@mnly.store", "role": "admin"})

	_, body := call(t, http.MethodPost, srv.URL+"/jwt", "", `{"email":"boss@mnly.store"}`)
	var tok struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(body), &tok); err != nil || tok.Token == "" {
		t.Fatalf("token body = %s", body)
	}

	resp, body := call(t, http.MethodGet, srv.URL+"/user/admin/boss@mnly.store", tok.Token, "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"admin":true`) {
		t.Errorf("admin probe = %d %s", resp.StatusCode, body)
	}
	if resp, _ := call(t, http.MethodGet, srv.URL+"/user", "", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous user list = %d", resp.StatusCode)
	}

	// Revoke and ask again with the same token.
	u, _ := gw.Users.FindOne(context.Background(), store.Match{Field: "email", Value: "boss@mnly.store"})
	gw.Users.UpdateByID(context.Background(), u.String(store.IDField), store.Document{"role": ""})
	if resp, _ := call(t, http.MethodGet, srv.URL+"/user/admin/boss@mnly.store", tok.Token, ""); resp.StatusCode != http.StatusForbidden {
		t.Errorf("after revocation = %d, want 403", resp.StatusCode)
	}
}

func TestOrderRoundTrip(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := call(t, http.MethodPost, srv.URL+"/order", "", `{"orderId":"MN-9","grandTotal":"250"}`)
	if resp.StatusCode != http.StatusCreated || !strings.Contains(body, `"emailSent":true`) {
		t.Fatalf("place = %d %s", resp.StatusCode, body)
	}
	_, body = call(t, http.MethodGet, srv.URL+"/order", "", "")
	if !strings.Contains(body, "MN-9") {
		t.Errorf("list = %s", body)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newServer(t)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/order", nil)
	req.Header.Set("Origin", "https://mnly.store")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Origin") != "https://mnly.store" {
		t.Errorf("allow origin = %q", resp.Header.Get("Access-Control-Allow-Origin"))
	}
	if resp.Header.Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("credentials not allowed")
	}
}
