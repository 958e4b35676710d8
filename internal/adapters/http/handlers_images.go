package web

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	"backoffice/internal/adapters/http/middleware"
	"backoffice/internal/application/orchestrators"
	"backoffice/internal/domain/activity"
)

// maxAssetBody bounds an upload on the images page.
const maxAssetBody = 10 << 20

// assetURL is where NewMux serves the asset directory.
const assetURL = "/uploads/images"

// handleImages renders GET /admin/images. With ?delete=<filename> it removes
// that file first and redirects back.
func handleImages(w http.ResponseWriter, r *http.Request) {
	if assetDir == nil {
		http.Error(w, "Image storage is not configured", http.StatusServiceUnavailable)
		return
	}
	if name := r.URL.Query().Get("delete"); name != "" {
		deleteAsset(w, r, name)
		return
	}
	assets, err := assetDir.List()
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "images.html", map[string]any{
		"Title":    "Images",
		"Assets":   assets,
		"AssetURL": assetURL,
	})
}

func deleteAsset(w http.ResponseWriter, r *http.Request, name string) {
	if !sameOriginNavigation(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if err := assetDir.Delete(name); err != nil {
		redirectWith(w, r, middleware.FlashError, "Error deleting image: "+publicMessage(err), "/admin/images")
		return
	}
	slog.Info("image_event", "event", "asset_deleted", "name", name)
	orchestrators.RecordActivity(r.Context(), orchestrators.ActivityDeps{Store: stores.ActivityStore, Now: timeNow}, orchestrators.ActivityInput{
		Actor:       actor(r),
		Type:        activity.TypeImage,
		Action:      activity.ActionDelete,
		Description: "Deleted image: " + filepath.Base(name),
	})
	redirectWith(w, r, middleware.FlashSuccess, "Image deleted successfully.", "/admin/images")
}

// handleImageUpload handles POST /admin/images (multipart field "image").
// The uploader's file name is kept, reduced to its base name, and an existing
// file is never overwritten.
func handleImageUpload(w http.ResponseWriter, r *http.Request) {
	if assetDir == nil {
		http.Error(w, "Image storage is not configured", http.StatusServiceUnavailable)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAssetBody)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		msg := "Please choose an image to upload."
		if errors.As(err, &tooBig) {
			msg = "Image is too large."
		}
		redirectWith(w, r, middleware.FlashError, msg, "/admin/images")
		return
	}
	defer file.Close()

	name, err := assetDir.Upload(filepath.Base(header.Filename), file)
	if err != nil {
		redirectWith(w, r, middleware.FlashError, "Error uploading image: "+publicMessage(err), "/admin/images")
		return
	}
	slog.Info("image_event", "event", "asset_uploaded", "name", name, "bytes", header.Size)
	orchestrators.RecordActivity(r.Context(), orchestrators.ActivityDeps{Store: stores.ActivityStore, Now: timeNow}, orchestrators.ActivityInput{
		Actor:       actor(r),
		Type:        activity.TypeImage,
		Action:      activity.ActionUpload,
		Description: "Uploaded image: " + name,
	})
	redirectWith(w, r, middleware.FlashSuccess, "Image "+name+" uploaded successfully.", "/admin/images")
}
