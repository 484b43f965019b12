package farmprofile

import (
	"encoding/json"
	"net/http"

	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
	util "github.com/opol-agri/rsbsa-lambda/internal/utils"
)

type Handler struct {
	service FarmProfileService
}

func NewHandler(service FarmProfileService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}

	var req CreateFarmProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Create(r.Context(), claims, req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusCreated, "Farm profile created successfully", resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	id, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid id")
		return
	}

	resp, err := h.service.Get(r.Context(), claims, id)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Farm profile retrieved successfully", resp)
}

func (h *Handler) GetByBeneficiary(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	beneficiaryID, err := util.URLParamID(r, "beneficiaryId")
	if err != nil {
		config.BadRequest(w, "invalid beneficiary id")
		return
	}

	resp, err := h.service.GetByBeneficiary(r.Context(), claims, beneficiaryID)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Farm profile retrieved successfully", resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	id, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid id")
		return
	}

	var req UpdateFarmProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Update(r.Context(), claims, id, req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Farm profile updated successfully", resp)
}

func (h *Handler) SaveLivelihood(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	id, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid id")
		return
	}

	var req SaveLivelihoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.SaveLivelihood(r.Context(), claims, id, req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Livelihood details saved successfully", resp)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.ListCategories(r.Context())
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Livelihood categories retrieved successfully", cats)
}
