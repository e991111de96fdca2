package handlers

import (
	"net/http"

	"github.com/agentstation/toolhub/internal/server/events"
	"github.com/agentstation/toolhub/internal/server/filter"
	"github.com/agentstation/toolhub/internal/server/response"
	"github.com/agentstation/toolhub/pkg/catalog"
)

// HandleList handles GET /api/v1/{collection}.
// @Summary List or search items
// @Description Browse a collection with search, facet filters, sorting and paging
// @Tags items
// @Produce json
// @Param collection path string true "tools or guides"
// @Param q query string false "Search term"
// @Param category query string false "Categories (comma-separated)"
// @Param pricing query string false "Pricing models (comma-separated)"
// @Param platform query string false "Platforms (comma-separated)"
// @Param use_case query string false "Use cases (comma-separated)"
// @Param free query boolean false "Only items with a free tier"
// @Param sort query string false "newest, popularity or name"
// @Param limit query integer false "Page size (max 200)"
// @Param offset query integer false "Offset for offset paging"
// @Param cursor query string false "Cursor from a previous page"
// @Param paging query string false "offset or cursor"
// @Success 200 {object} response.Response{data=query.Result}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /api/v1/{collection} [get].
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request, collection string) {
	kind, err := kindFor(collection)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	key := cacheKey(collection, "list", r.URL.RawQuery)
	if cached, found := h.cache.Get(key); found {
		response.OK(w, cached)
		return
	}

	req, err := filter.ParseRequest(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	items, err := h.snapshot(r, collection)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	result := h.app.Engine(kind).Search(items, req)
	h.cache.Set(key, result)
	response.OK(w, result)
}

// HandleFacets handles GET /api/v1/{collection}/facets.
// @Summary Facet counts
// @Description Distinct values per facet with item counts
// @Tags items
// @Produce json
// @Param collection path string true "tools or guides"
// @Success 200 {object} response.Response{data=query.FacetSummary}
// @Router /api/v1/{collection}/facets [get].
func (h *Handlers) HandleFacets(w http.ResponseWriter, r *http.Request, collection string) {
	kind, err := kindFor(collection)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	key := cacheKey(collection, "facets")
	if cached, found := h.cache.Get(key); found {
		response.OK(w, cached)
		return
	}

	items, err := h.snapshot(r, collection)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	summary := h.app.Engine(kind).Facets(items)
	h.cache.Set(key, summary)
	response.OK(w, summary)
}

// HandleGet handles GET /api/v1/{collection}/{id}.
// @Summary Get item
// @Tags items
// @Produce json
// @Param collection path string true "tools or guides"
// @Param id path string true "Item ID"
// @Success 200 {object} response.Response{data=catalog.Item}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/{collection}/{id} [get].
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request, collection, id string) {
	if _, err := kindFor(collection); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	st, err := h.app.Store()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	item, err := st.Get(r.Context(), collection, id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, item)
}

// HandleView handles POST /api/v1/{collection}/{id}/view.
// @Summary Count a view
// @Tags items
// @Produce json
// @Param collection path string true "tools or guides"
// @Param id path string true "Item ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/{collection}/{id}/view [post].
func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request, collection, id string) {
	h.count(w, r, collection, id, events.ItemViewed)
}

// HandleClick handles POST /api/v1/{collection}/{id}/click.
// @Summary Count an outbound click
// @Tags items
// @Produce json
// @Param collection path string true "tools or guides"
// @Param id path string true "Item ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/{collection}/{id}/click [post].
func (h *Handlers) HandleClick(w http.ResponseWriter, r *http.Request, collection, id string) {
	h.count(w, r, collection, id, events.ItemClicked)
}

// count bumps a counter. Cached listings are left alone and catch up
// when their entries expire.
func (h *Handlers) count(w http.ResponseWriter, r *http.Request, collection, id string, eventType events.EventType) {
	if _, err := kindFor(collection); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	st, err := h.app.Store()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	var item catalog.Item
	if eventType == events.ItemViewed {
		item, err = st.IncrementViews(r.Context(), collection, id)
	} else {
		item, err = st.IncrementClicks(r.Context(), collection, id)
	}
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	data := map[string]any{"id": item.ID, "views": item.Views, "clicks": item.Clicks}
	h.publish(eventType, collection, data)
	response.OK(w, data)
}

// snapshot fetches the full collection for the engine.
func (h *Handlers) snapshot(r *http.Request, collection string) ([]catalog.Item, error) {
	st, err := h.app.Store()
	if err != nil {
		return nil, err
	}
	return st.FetchAll(r.Context(), collection)
}
