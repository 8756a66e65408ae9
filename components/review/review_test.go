package review

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rokibulislampro/mnly-server/internal/store/memstore"
)

type stubUploader struct {
	err    error
	folder string
}

func (s *stubUploader) Upload(_ context.Context, r io.Reader, filename, folder string) (string, error) {
	io.Copy(io.Discard, r)
	s.folder = folder
	if s.err != nil {
		return "", s.err
	}
	return "https://media.example/" + filename, nil
}

func reviewForm(t *testing.T, siteName string, withImage bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if siteName != "" {
		mw.WriteField("siteName", siteName)
	}
	mw.WriteField("rating", "5")
	if withImage {
		fw, err := mw.CreateFormFile("image", "shot.jpg")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte("jpeg"))
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func fixedClock() time.Time { return time.Date(2026, 3, 7, 15, 4, 5, 0, time.UTC) }

func TestCreateStampsDateAndTime(t *testing.T) {
	reviews := memstore.New()
	up := &stubUploader{}
	rt := New(reviews, up, Config{Folder: "reviews", MaxMemory: 1 << 20, Now: fixedClock}, nil).Routes()

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, reviewForm(t, "MnlyShop", true))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body)
	}
	all, _ := reviews.Find(context.Background())
	if len(all) != 1 {
		t.Fatalf("reviews = %d", len(all))
	}
	doc := all[0]
	if doc["image"] != "https://media.example/shot.jpg" || doc["siteName"] != "MnlyShop" || doc["rating"] != "5" {
		t.Errorf("doc = %v", doc)
	}
	if doc["date"] != "03/07/2026" || doc["time"] != "3:04:05 PM" {
		t.Errorf("stamp = %v %v", doc["date"], doc["time"])
	}
	if up.folder != "reviews" {
		t.Errorf("folder = %q", up.folder)
	}
}

func TestCreateRequiresImageAndSite(t *testing.T) {
	reviews := memstore.New()
	rt := New(reviews, &stubUploader{}, Config{MaxMemory: 1 << 20}, nil).Routes()

	for name, req := range map[string]*http.Request{
		"no image":      reviewForm(t, "MnlyShop", false),
		"no site":       reviewForm(t, "", true),
		"not multipart": httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`)),
	} {
		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
	if all, _ := reviews.Find(context.Background()); len(all) != 0 {
		t.Errorf("reviews = %d, want 0", len(all))
	}
}

func TestUploadFailureWritesNothing(t *testing.T) {
	reviews := memstore.New()
	rt := New(reviews, &stubUploader{err: errors.New("timeout")}, Config{MaxMemory: 1 << 20}, nil).Routes()

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, reviewForm(t, "MnlyShop", true))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if all, _ := reviews.Find(context.Background()); len(all) != 0 {
		t.Errorf("review written despite failed upload")
	}
}
