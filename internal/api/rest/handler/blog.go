package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/blog-server/internal/apierror"
	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/blog"
)

// Blog serves the static blog feed.
type Blog struct {
	catalog *blog.Catalog
}

func NewBlog(catalog *blog.Catalog) *Blog {
	return &Blog{catalog: catalog}
}

// List returns the whole feed.
func (h *Blog) List(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, r, http.StatusOK, h.catalog.List())
}

// Get returns one post by its numeric id.
func (h *Blog) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, apierror.NewErrPostNotFound(), defaultFailure)
		return
	}

	post, ok := h.catalog.Get(id)
	if !ok {
		writeFailure(w, r, apierror.NewErrPostNotFound(), defaultFailure)
		return
	}

	response.WriteJSON(w, r, http.StatusOK, post)
}
