package farmparcel

import (
	"encoding/json"
	"net/http"

	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
	util "github.com/opol-agri/rsbsa-lambda/internal/utils"
)

type Handler struct {
	service ParcelService
}

func NewHandler(service ParcelService) *Handler {
	return &Handler{service: service}
}

// ListByProfile serves GET /farm-profiles/{id}/parcels.
func (h *Handler) ListByProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	profileID, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid farm profile id")
		return
	}

	parcels, err := h.service.List(r.Context(), claims, profileID)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Farm parcels retrieved successfully", parcels)
}

// Sync serves POST /farm-profiles/{id}/parcels.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	profileID, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid farm profile id")
		return
	}

	var req SyncParcelsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	parcels, err := h.service.Sync(r.Context(), claims, profileID, req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Farm parcels saved successfully", parcels)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	id, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), claims, id); err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Farm parcel deleted successfully", nil)
}
