// components/review/review.go
//
// Customer review component.
//
// A review is a screenshot or photo posted from a storefront.  POST
// /review uploads the image first and writes the record only when the
// upload succeeded; the record carries the hosted URL, the storefront's
// siteName, any other form fields, and display date and time strings
// stamped by the server.
//
//------------------------------------------------------------------------------

package review

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/internal/component"
	"github.com/rokibulislampro/mnly-server/internal/media"
	"github.com/rokibulislampro/mnly-server/internal/models"
	"github.com/rokibulislampro/mnly-server/internal/respond"
	"github.com/rokibulislampro/mnly-server/internal/store"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Config carries the per-deployment knobs.
type Config struct {
	Folder    string
	MaxMemory int64
	// Limit wraps POST /review and may be nil.
	Limit     func(http.Handler) http.Handler
	// Now defaults to time.Now.
	Now       func() time.Time
}

// Component serves /review.
type Component struct {
	reviews  store.Collection
	uploader media.Uploader
	cfg      Config
	log      *zap.Logger
}

// New returns the component.
func New(reviews store.Collection, up media.Uploader, cfg Config, log *zap.Logger) *Component {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Limit == nil {
		cfg.Limit = func(h http.Handler) http.Handler { return h }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Component{reviews: reviews, uploader: up, cfg: cfg, log: log}
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "review" }

// Routes builds the router mounted at "/review".
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", component.List(c.reviews))
	r.With(c.cfg.Limit).Post("/", c.handleCreate)
	r.Delete("/{id}", component.Delete(c.reviews))
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.cfg.MaxMemory)
	if err := r.ParseMultipartForm(c.cfg.MaxMemory); err != nil {
		respond.Error(w, http.StatusBadRequest, "Image and siteName are required", fmt.Errorf("parse form: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	siteName := r.FormValue("siteName")
	file, fh, err := r.FormFile("image")
	if err != nil || siteName == "" {
		respond.Message(w, http.StatusBadRequest, "Image and siteName are required")
		return
	}
	defer file.Close()

	url, err := c.uploader.Upload(r.Context(), file, fh.Filename, c.cfg.Folder)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Failed to upload image", err)
		return
	}

	doc := store.Document{}
	for key, vals := range r.MultipartForm.Value {
		if key != store.IDField && len(vals) > 0 {
			doc[key] = vals[0]
		}
	}
	now := c.cfg.Now()
	doc["image"] = url
	doc["siteName"] = siteName
	doc["date"] = now.Format(models.ReviewDateLayout)
	doc["time"] = now.Format(models.ReviewTimeLayout)

	res, err := c.reviews.InsertOne(r.Context(), doc)
	if err != nil {
		respond.StoreError(w, r, err, "")
		return
	}
	c.log.Info("review created", zap.String("siteName", siteName), zap.String("id", res.InsertedID))
	respond.JSON(w, http.StatusOK, res)
}
