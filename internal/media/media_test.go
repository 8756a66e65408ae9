package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type fakeAPI struct {
	res    *uploader.UploadResult
	err    error
	params uploader.UploadParams
}

func (f *fakeAPI) Upload(_ context.Context, _ interface{}, p uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = p
	return f.res, f.err
}

func TestUploadReturnsSecureURL(t *testing.T) {
	f := &fakeAPI{res: &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/mnly/image/upload/v1/reviews/a.jpg"}}
	c := newCloudinary(f, nil)

	url, err := c.Upload(context.Background(), strings.NewReader("jpeg"), "My Photo.JPG", "reviews")
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if !strings.HasPrefix(url, "https://") {
		t.Errorf("url = %q", url)
	}
	if f.params.Folder != "reviews" || f.params.PublicID != "my-photo" {
		t.Errorf("params = %+v", f.params)
	}
}

func TestUploadFailures(t *testing.T) {
	cases := map[string]*fakeAPI{
		"transport": {err: errors.New("timeout")},
		"rejected":  {res: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}},
		"no url":    {res: &uploader.UploadResult{}},
		"nil":       {},
	}
	for name, f := range cases {
		_, err := newCloudinary(f, nil).Upload(context.Background(), strings.NewReader("x"), "a.png", "products")
		if !errors.Is(err, ErrUpload) {
			t.Errorf("%s: err = %v, want ErrUpload", name, err)
		}
	}
}

func TestPublicID(t *testing.T) {
	cases := map[string]string{
		`C:\Users\rafi\banner final.png`: "banner-final",
		"logo.v2.svg":                    "logo-v2",
		"...":                            "",
		"Ürün.jpg":                       "rn",
	}
	for in, want := range cases {
		if got := publicID(in); got != want {
			t.Errorf("publicID(%q) = %q, want %q", in, got, want)
		}
	}
}
