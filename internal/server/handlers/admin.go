package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/toolhub/internal/server/events"
	"github.com/agentstation/toolhub/internal/server/response"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

const maxItemBody = 1 << 20

// HandleCreate handles POST /api/v1/{collection}.
// @Summary Create item
// @Description Create a tool or guide. Any ID in the body is ignored.
// @Tags admin
// @Accept json
// @Produce json
// @Param collection path string true "tools or guides"
// @Success 201 {object} response.Response{data=catalog.Item}
// @Failure 400 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/{collection} [post].
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request, collection string) {
	if _, err := kindFor(collection); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	item, err := decodeItem(w, r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	item.ID = ""

	st, err := h.app.Store()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	stored, err := st.Put(r.Context(), collection, item)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.invalidate(collection)
	h.publish(events.ItemCreated, collection, stored)
	response.Created(w, stored)
}

// HandleUpdate handles PUT /api/v1/{collection}/{id}.
// @Summary Replace item
// @Description Replace an item. Creation time and counters are kept.
// @Tags admin
// @Accept json
// @Produce json
// @Param collection path string true "tools or guides"
// @Param id path string true "Item ID"
// @Success 200 {object} response.Response{data=catalog.Item}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 404 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/{collection}/{id} [put].
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request, collection, id string) {
	if _, err := kindFor(collection); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	item, err := decodeItem(w, r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	st, err := h.app.Store()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if _, err := st.Get(r.Context(), collection, id); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	item.ID = id
	stored, err := st.Put(r.Context(), collection, item)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.invalidate(collection)
	h.publish(events.ItemUpdated, collection, stored)
	response.OK(w, stored)
}

// HandleDelete handles DELETE /api/v1/{collection}/{id}.
// @Summary Delete item
// @Tags admin
// @Param collection path string true "tools or guides"
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/{collection}/{id} [delete].
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request, collection, id string) {
	if _, err := kindFor(collection); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	st, err := h.app.Store()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if err := st.Delete(r.Context(), collection, id); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.invalidate(collection)
	h.publish(events.ItemDeleted, collection, map[string]any{"id": id})
	response.NoContent(w)
}

func decodeItem(w http.ResponseWriter, r *http.Request) (catalog.Item, error) {
	var item catalog.Item
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxItemBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&item); err != nil {
		return catalog.Item{}, errors.NewValidationError("body", nil, "invalid item JSON: "+err.Error())
	}
	return item, nil
}
