package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mohit-lanjewar/WanderLust/internal/adapter/http/flash"
	"github.com/mohit-lanjewar/WanderLust/internal/adapter/http/middleware"
	"github.com/mohit-lanjewar/WanderLust/internal/adapter/http/render"
	"github.com/mohit-lanjewar/WanderLust/internal/listing/domain"
	"github.com/mohit-lanjewar/WanderLust/internal/listing/usecase"
	"github.com/mohit-lanjewar/WanderLust/internal/platform/logger"
	"github.com/mohit-lanjewar/WanderLust/internal/platform/metrics"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// FlashStore queues one-shot user messages surfaced on the next page.
type FlashStore interface {
	Add(ctx context.Context, w http.ResponseWriter, r *http.Request, kind, text string) error
	Pop(ctx context.Context, w http.ResponseWriter, r *http.Request) []flash.Message
}

type ListingHandler struct {
	usecase  *usecase.ListingUsecase
	storage  domain.Storage
	flash    FlashStore
	renderer render.Renderer
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
}

func NewListingHandler(
	uc *usecase.ListingUsecase,
	storage domain.Storage,
	flashStore FlashStore,
	renderer render.Renderer,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *ListingHandler {
	return &ListingHandler{
		usecase:  uc,
		storage:  storage,
		flash:    flashStore,
		renderer: renderer,
		metrics:  m,
		logger:   log.Named("ListingHandler"),
	}
}

type indexData struct {
	Listings    []*domain.Listing
	Category    string
	Search      string
	SearchQuery string
	Flashes     []flash.Message
}

type showData struct {
	Detail  *domain.ListingDetail
	Flashes []flash.Message
}

type newFormData struct {
	Flashes []flash.Message
}

type editFormData struct {
	Listing          *domain.Listing
	OriginalImageURL string
	Flashes          []flash.Message
}

// Index renders all listings matching the optional category and search
// query parameters, echoing both back for the filter form.
func (h *ListingHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")

	listings, err := h.usecase.ListListings(ctx, domain.Filter{Category: category, Search: search})
	if err != nil {
		http.Error(w, "Failed to load listings", http.StatusInternalServerError)
		return
	}

	h.render(w, "listings/index", indexData{
		Listings: listings,
		Category: category,
		Search:   search,
		Flashes:  h.flash.Pop(ctx, w, r),
	})
}

// Search serves the same capability as Index under /listings/search: the
// term arrives as "q" and is echoed back as SearchQuery.
func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	listings, err := h.usecase.ListListings(ctx, domain.Filter{Category: category, Search: q})
	if err != nil {
		http.Error(w, "Failed to search listings", http.StatusInternalServerError)
		return
	}

	h.render(w, "listings/index", indexData{
		Listings:    listings,
		Category:    category,
		SearchQuery: q,
		Flashes:     h.flash.Pop(ctx, w, r),
	})
}

// Show renders the listing detail with owner and reviews expanded. An
// unknown id flashes a not-found message and redirects to the index.
func (h *ListingHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	detail, err := h.usecase.GetListingDetail(ctx, id)
	if errors.Is(err, domain.ErrListingNotFound) {
		h.addFlash(ctx, w, r, flash.KindError, "Listing you requested for does not exist")
		http.Redirect(w, r, "/listings", http.StatusFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load listing", http.StatusInternalServerError)
		return
	}

	h.render(w, "listings/show", showData{
		Detail:  detail,
		Flashes: h.flash.Pop(ctx, w, r),
	})
}

// New renders the empty creation form.
func (h *ListingHandler) New(w http.ResponseWriter, r *http.Request) {
	h.render(w, "listings/new", newFormData{
		Flashes: h.flash.Pop(r.Context(), w, r),
	})
}

// Create builds a listing from the submitted form, owned by the current
// actor, with the uploaded image attached when one was submitted. Any
// failure flashes a generic message and returns to the creation form.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, ok := middleware.UserID(ctx)
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.Error("failed to parse creation form", zap.Error(err))
		h.createFailed(ctx, w, r)
		return
	}

	upload, err := h.readUpload(ctx, r)
	if err != nil {
		h.logger.Error("failed to store uploaded image", zap.Error(err))
		h.createFailed(ctx, w, r)
		return
	}

	_, err = h.usecase.CreateListing(ctx, actorID, readListingForm(r), upload)
	if err != nil {
		h.createFailed(ctx, w, r)
		return
	}

	h.metrics.ListingsCreatedTotal.Inc()
	h.addFlash(ctx, w, r, flash.KindSuccess, "New Listing created")
	http.Redirect(w, r, "/listings", http.StatusFound)
}

// Edit renders the edit form. When the listing has an image, a scaled
// preview URL is derived from its storage key for display.
func (h *ListingHandler) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	listing, err := h.usecase.GetListingByID(ctx, id)
	if errors.Is(err, domain.ErrListingNotFound) {
		h.addFlash(ctx, w, r, flash.KindError, "Listing you requested for does not exist")
		http.Redirect(w, r, "/listings", http.StatusFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load listing", http.StatusInternalServerError)
		return
	}

	var originalImageURL string
	if listing.Image != nil {
		originalImageURL = h.storage.PreviewURL(listing.Image.Filename)
	}

	h.render(w, "listings/edit", editFormData{
		Listing:          listing,
		OriginalImageURL: originalImageURL,
		Flashes:          h.flash.Pop(ctx, w, r),
	})
}

// Update replaces the listing's fields from the submitted form and, when a
// new image was uploaded, replaces the image as well. The previous image is
// dropped from the entity only; the stored object is not cleaned up.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.Error("failed to parse edit form", zap.String("listing_id", id), zap.Error(err))
		http.Error(w, "Failed to update listing", http.StatusInternalServerError)
		return
	}

	upload, err := h.readUpload(ctx, r)
	if err != nil {
		h.logger.Error("failed to store uploaded image", zap.String("listing_id", id), zap.Error(err))
		http.Error(w, "Failed to update listing", http.StatusInternalServerError)
		return
	}

	_, err = h.usecase.UpdateListing(ctx, id, readListingForm(r), upload)
	if errors.Is(err, domain.ErrListingNotFound) {
		h.addFlash(ctx, w, r, flash.KindError, "Listing you requested for does not exist")
		http.Redirect(w, r, "/listings", http.StatusFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to update listing", http.StatusInternalServerError)
		return
	}

	h.metrics.ListingUpdatesTotal.Inc()
	h.addFlash(ctx, w, r, flash.KindSuccess, "Listing updated")
	http.Redirect(w, r, "/listings/"+id, http.StatusFound)
}

// Delete removes the listing unconditionally and reports success whether or
// not an entity existed for the id.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.usecase.DeleteListing(ctx, id); err != nil {
		http.Error(w, "Failed to delete listing", http.StatusInternalServerError)
		return
	}

	h.metrics.ListingDeletesTotal.Inc()
	h.addFlash(ctx, w, r, flash.KindSuccess, "Listing deleted")
	http.Redirect(w, r, "/listings", http.StatusFound)
}

func (h *ListingHandler) createFailed(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.addFlash(ctx, w, r, flash.KindError, "Something went wrong while creating the listing.")
	http.Redirect(w, r, "/listings/new", http.StatusFound)
}

// readUpload stores the submitted file, if any, and returns the upload
// result. A request without a file yields (nil, nil).
func (h *ListingHandler) readUpload(ctx context.Context, r *http.Request) (*domain.Upload, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return h.storage.Upload(ctx, header.Filename, data)
}

func readListingForm(r *http.Request) domain.UpdateFields {
	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	return domain.UpdateFields{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Price:       price,
		Location:    r.FormValue("location"),
		Country:     r.FormValue("country"),
		Category:    r.FormValue("category"),
	}
}

func (h *ListingHandler) addFlash(ctx context.Context, w http.ResponseWriter, r *http.Request, kind, text string) {
	if err := h.flash.Add(ctx, w, r, kind, text); err != nil {
		h.logger.Warn("failed to queue flash message", zap.String("kind", kind), zap.Error(err))
	}
}

func (h *ListingHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.renderer.Render(w, name, data); err != nil {
		h.logger.Error("failed to render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
