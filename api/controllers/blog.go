package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/biowe-backend/api/responses"
	"github.com/angelmondragon/biowe-backend/api/validators"
	"github.com/angelmondragon/biowe-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/biowe-backend/pkg/errors"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
)

// ListPosts returns every post, newest first.
func ListPosts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		posts, err := svc.ListPosts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, posts)
	}
}

// GetPost returns a post by id.
func GetPost(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		post, err := svc.GetPost(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}

// GetPostBySlug returns a post by its URL slug.
func GetPostBySlug(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		post, err := svc.GetPostBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}

// CreatePost publishes a post.
func CreatePost(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		var payload postRequest
		if err := validators.DecodeJSONBodyLenient(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.CreatePost(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, post)
	}
}

// UpdatePost applies a partial update and returns the stored post.
func UpdatePost(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		var payload postRequest
		if err := validators.DecodeJSONBodyLenient(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		patch, err := payload.toPatch()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.UpdatePost(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}

// DeletePost removes a post.
func DeletePost(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		if err := svc.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Blog post deleted successfully", nil)
	}
}

type postRequest struct {
	Title      *string `json:"title"`
	Slug       *string `json:"slug"`
	Excerpt    *string `json:"excerpt"`
	Content    *string `json:"content"`
	ImageSrc   *string `json:"imageSrc"`
	ImageAlt   *string `json:"imageAlt"`
	DataAIHint *string `json:"dataAiHint"`
	Author     *string `json:"author"`
	Date       *string `json:"date"`
}

func (p postRequest) toCreateInput() (catalog.CreatePostInput, error) {
	date, err := parsePostDate(p.Date)
	if err != nil {
		return catalog.CreatePostInput{}, err
	}
	return catalog.CreatePostInput{
		Title:      deref(p.Title),
		Slug:       deref(p.Slug),
		Excerpt:    deref(p.Excerpt),
		Content:    deref(p.Content),
		ImageSrc:   deref(p.ImageSrc),
		ImageAlt:   deref(p.ImageAlt),
		DataAIHint: deref(p.DataAIHint),
		Author:     deref(p.Author),
		Date:       date,
	}, nil
}

func (p postRequest) toPatch() (catalog.PostPatch, error) {
	date, err := parsePostDate(p.Date)
	if err != nil {
		return catalog.PostPatch{}, err
	}
	return catalog.PostPatch{
		Title:      p.Title,
		Slug:       p.Slug,
		Excerpt:    p.Excerpt,
		Content:    p.Content,
		ImageSrc:   p.ImageSrc,
		ImageAlt:   p.ImageAlt,
		DataAIHint: p.DataAIHint,
		Author:     p.Author,
		Date:       date,
	}, nil
}

var postDateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

// parsePostDate accepts full timestamps and plain calendar dates; blank means unset.
func parsePostDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	for _, layout := range postDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			ts = ts.UTC()
			return &ts, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid date").
		WithDetails(map[string]any{"field": "date", "value": value})
}
