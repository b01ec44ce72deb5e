package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"peacenest/internal/httpx"
	"peacenest/internal/models"
	"peacenest/internal/services"
)

type ArticleHandler struct {
	errorWriter
	articles *services.ArticleService
}

func NewArticleHandler(articles *services.ArticleService, ew errorWriter) *ArticleHandler {
	return &ArticleHandler{errorWriter: ew, articles: articles}
}

func (h *ArticleHandler) writeList(w http.ResponseWriter, r *http.Request, out []models.Article, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"articles": out,
	})
}

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.articles.List(r.Context(), r.URL.Query().Get("category"))
	h.writeList(w, r, out, err)
}

func (h *ArticleHandler) Search(w http.ResponseWriter, r *http.Request) {
	out, err := h.articles.Search(r.Context(), r.URL.Query().Get("q"))
	h.writeList(w, r, out, err)
}

func (h *ArticleHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	out, err := h.articles.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	h.writeList(w, r, out, err)
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.articles.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"article": a})
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.articles.Create(r.Context(), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "article created successfully",
		"article": a,
	})
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.articles.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "article updated successfully",
		"article": a,
	})
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.articles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "article deleted successfully"})
}
