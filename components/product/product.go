// components/product/product.go
//
// Storefront product component.
//
// Context
// -------
// A product document describes one white-label storefront: its site name,
// branding, banner, feature list, and item catalogue.  The dashboard edits
// it through PUT /product/{id} as multipart form data so that branding
// files can ride along with the text fields.  Each file is sent to the
// media host and its URL replaces the field of the same name.
//
// Notes
// -----
//   - A failed upload does not abort the update.  The field is skipped and
//     reported back under "failedUploads".
//   - bannerFile and bannerStatus both land in the banner object, which is
//     read first so that changing one keeps the other.
//   - A JSON body is accepted on the same route and merged as is.
//
//------------------------------------------------------------------------------

package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

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

const notFound = "Product not found"

// Component serves /product.
type Component struct {
	products  store.Collection
	uploader  media.Uploader
	folder    string
	maxMemory int64
	log       *zap.Logger
}

// New returns the component.  Files go to folder; maxMemory bounds the
// in-memory part of a multipart body.
func New(products store.Collection, up media.Uploader, folder string, maxMemory int64, log *zap.Logger) *Component {
	if log == nil {
		log = zap.NewNop()
	}
	return &Component{products: products, uploader: up, folder: folder, maxMemory: maxMemory, log: log}
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "product" }

// Routes builds the router mounted at "/product".
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", component.List(c.products))
	r.Get("/{id}", component.Get(c.products, notFound))
	r.Get("/s/{siteName}", c.handleBySite)
	r.Put("/{id}", c.handleUpdate)
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleBySite(w http.ResponseWriter, r *http.Request) {
	site, err := component.PathParam(r, "siteName")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid siteName", err)
		return
	}
	doc, err := c.products.FindOne(r.Context(), store.Match{Field: "siteName", Value: site, Fold: true})
	if err != nil {
		respond.StoreError(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusOK, doc)
}

type updateResponse struct {
	store.UpdateResult
	FailedUploads []string `json:"failedUploads,omitempty"`
}

func (c *Component) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := store.ParseID(id); err != nil {
		respond.StoreError(w, r, err, notFound)
		return
	}

	var (
		set    store.Document
		failed []string
		err    error
	)
	if isMultipart(r) {
		set, failed, err = c.multipartSet(w, r, id)
	} else {
		set, _, err = respond.DecodeDocument(w, r)
		if err == nil {
			set = set.Without(store.IDField)
		}
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.StoreError(w, r, err, notFound)
			return
		}
		respond.Error(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if len(set) == 0 {
		if len(failed) > 0 {
			respond.JSON(w, http.StatusInternalServerError, map[string]any{
				"message":       "All uploads failed",
				"failedUploads": failed,
			})
			return
		}
		respond.Message(w, http.StatusBadRequest, "No fields to update")
		return
	}

	res, err := c.products.UpdateByID(r.Context(), id, set)
	if err != nil {
		respond.StoreError(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusOK, updateResponse{UpdateResult: res, FailedUploads: failed})
}

/*──────────────────────────── Multipart ────────────────────────────────────*/

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// multipartSet turns the form into an update document.  The returned slice
// names file fields whose upload failed.
func (c *Component) multipartSet(w http.ResponseWriter, r *http.Request, id string) (store.Document, []string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxMemory)
	if err := r.ParseMultipartForm(c.maxMemory); err != nil {
		return nil, nil, fmt.Errorf("parse form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	set := store.Document{}
	for key, vals := range r.MultipartForm.Value {
		if key == store.IDField || len(vals) == 0 {
			continue
		}
		set[key] = fieldValue(key, vals[0])
	}

	var (
		failed    []string
		bannerURL string
	)
	for _, field := range models.ProductMediaFields {
		fhs := r.MultipartForm.File[field]
		if len(fhs) == 0 {
			continue
		}
		url, err := c.uploadPart(r, fhs[0])
		if err != nil {
			failed = append(failed, field)
			continue
		}
		if field == models.BannerFileField {
			bannerURL = url
			continue
		}
		set[field] = url
	}

	status, hasStatus := set[models.BannerStatusField].(bool)
	delete(set, models.BannerStatusField)
	if bannerURL != "" || hasStatus {
		banner, err := c.currentBanner(r, id)
		if err != nil {
			return nil, nil, err
		}
		if bannerURL != "" {
			banner.Image = bannerURL
		}
		if hasStatus {
			banner.Status = status
		}
		set["banner"] = map[string]any{"image": banner.Image, "status": banner.Status}
	}
	return set, failed, nil
}

func (c *Component) uploadPart(r *http.Request, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return c.uploader.Upload(r.Context(), f, fh.Filename, c.folder)
}

// currentBanner reads the stored banner so a partial change keeps the rest.
func (c *Component) currentBanner(r *http.Request, id string) (models.Banner, error) {
	var b models.Banner
	doc, err := c.products.FindByID(r.Context(), id)
	if err != nil {
		return b, err
	}
	raw, ok := doc["banner"]
	if !ok || raw == nil {
		return b, nil
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return b, nil
	}
	if err := json.Unmarshal(buf, &b); err != nil {
		c.log.Warn("stored banner has an unexpected shape", zap.String("id", id), zap.Error(err))
		return models.Banner{}, nil
	}
	return b, nil
}

// fieldValue coerces the few typed fields a form cannot express.
func fieldValue(key, v string) any {
	switch key {
	case "status", models.BannerStatusField:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	case "features", "theme":
		return splitList(v)
	case "items":
		var items any
		if err := json.Unmarshal([]byte(v), &items); err == nil {
			return items
		}
	}
	return v
}

func splitList(v string) []any {
	out := []any{}
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
