package beneficiary

import (
	"encoding/json"
	"net/http"

	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
	util "github.com/opol-agri/rsbsa-lambda/internal/utils"
)

type Handler struct {
	service BeneficiaryService
}

func NewHandler(service BeneficiaryService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}

	var req CreateBeneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Create(r.Context(), claims, req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusCreated, "Beneficiary details created successfully", resp)
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
	config.Success(w, http.StatusOK, "Beneficiary details retrieved successfully", resp)
}

func (h *Handler) GetByUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	userID, err := util.URLParamID(r, "userId")
	if err != nil {
		config.BadRequest(w, "invalid user id")
		return
	}

	resp, err := h.service.GetByUser(r.Context(), claims, userID)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Beneficiary details retrieved successfully", resp)
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

	var req UpdateBeneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Update(r.Context(), claims, id, req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Beneficiary details updated successfully", resp)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	id, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid id")
		return
	}

	var req VerifyRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			config.BadRequest(w, "invalid request body")
			return
		}
	}

	resp, err := h.service.Verify(r.Context(), claims, id, req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Beneficiary profile verified", resp)
}
