package jwt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rokibulislampro/mnly-server/internal/token"
)

func TestIssueReturnsVerifiableToken(t *testing.T) {
	svc, _ := token.New("component-test-secret")
	r := New(svc).Routes()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@mnly.store","name":"A"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	var body struct{ Token string }
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	claims, err := svc.Verify(body.Token)
	if err != nil || claims.Email() != "a@mnly.store" {
		t.Fatalf("claims = %v err = %v", claims, err)
	}
}

func TestIssueRequiresEmail(t *testing.T) {
	svc, _ := token.New("component-test-secret")
	r := New(svc).Routes()

	for _, body := range []string{`{}`, `{"email":""}`, `{"email":42}`, `[]`, `nope`} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestIssueIgnoresClientNotBefore(t *testing.T) {
	svc, _ := token.New("component-test-secret")
	r := New(svc).Routes()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x","nbf":"soon"}`)))
	var body struct{ Token string }
	json.Unmarshal(rec.Body.Bytes(), &body)
	if _, err := svc.Verify(body.Token); err != nil {
		t.Fatalf("token with client nbf failed to verify: %v", err)
	}
}
