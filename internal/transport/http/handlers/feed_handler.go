package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dkovac/feedline/internal/service"
	"github.com/dkovac/feedline/internal/transport/http/middleware"
	"github.com/dkovac/feedline/pkg/validator"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// ImageStore saves uploaded image files and deletes them by reference.
type ImageStore interface {
	Save(src io.Reader, originalName string) (string, error)
	Delete(ref string) error
}

type FeedHandler struct {
	feedService *service.FeedService
	images      ImageStore
	log         *slog.Logger
}

func NewFeedHandler(feedService *service.FeedService, images ImageStore, log *slog.Logger) *FeedHandler {
	return &FeedHandler{feedService: feedService, images: images, log: log}
}

func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	feed, err := h.feedService.List(r.Context(), page)
	if err != nil {
		h.log.Error("list posts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, feed)
}

func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(r.PathValue("postId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid post ID")
		return
	}

	post, err := h.feedService.Get(r.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
		} else {
			h.log.Error("get post failed", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (h *FeedHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid multipart form")
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")

	if errs := validator.ValidatePost(title, content); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	imageURL, ok := h.saveUpload(w, r)
	if !ok {
		return
	}
	if imageURL == "" {
		writeError(w, http.StatusUnprocessableEntity, "NO_IMAGE", "No image provided")
		return
	}

	post, err := h.feedService.Create(r.Context(), userID, service.CreatePostInput{
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
	})
	if err != nil {
		// The upload is already on disk; don't leave it orphaned.
		if delErr := h.images.Delete(imageURL); delErr != nil {
			h.log.Warn("failed to delete orphaned upload", "ref", imageURL, "error", delErr)
		}
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		} else {
			h.log.Error("create post failed", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Post created successfully!",
		"post":    post,
		"creator": post.Creator(),
	})
}

func (h *FeedHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	postID, err := uuid.Parse(r.PathValue("postId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid post ID")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid multipart form")
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")

	if errs := validator.ValidatePost(title, content); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	// A fresh upload wins; otherwise the client passes the existing reference.
	imageURL, ok := h.saveUpload(w, r)
	if !ok {
		return
	}
	if imageURL == "" {
		imageURL = r.FormValue("image")
	}

	post, err := h.feedService.Update(r.Context(), userID, postID, service.UpdatePostInput{
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoImage):
			writeError(w, http.StatusUnprocessableEntity, "NO_IMAGE", "No image provided")
		case errors.Is(err, service.ErrPostNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
		case errors.Is(err, service.ErrNotPostOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only edit your own posts")
		default:
			h.log.Error("update post failed", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Post updated successfully!",
		"post":    post,
	})
}

func (h *FeedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	postID, err := uuid.Parse(r.PathValue("postId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid post ID")
		return
	}

	if err := h.feedService.Delete(r.Context(), userID, postID); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
		case errors.Is(err, service.ErrNotPostOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only delete your own posts")
		default:
			h.log.Error("delete post failed", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted!"})
}

// saveUpload stores the "image" form file if one was sent. It returns
// ("", true) when the request carries no file, and (_, false) after writing
// an error response.
func (h *FeedHandler) saveUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", true
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid image upload")
		return "", false
	}
	defer file.Close()

	ref, err := h.images.Save(file, header.Filename)
	if err != nil {
		h.log.Error("saving upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return "", false
	}

	return ref, true
}
