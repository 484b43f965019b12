package enrollment

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
	util "github.com/opol-agri/rsbsa-lambda/internal/utils"
)

type Handler struct {
	service EnrollmentService
}

func NewHandler(service EnrollmentService) *Handler {
	return &Handler{service: service}
}

func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}

	var req CreateEnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Create(r.Context(), claims, req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusCreated, "RSBSA enrollment created successfully", resp)
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	f := ListFilter{Search: q.Get("search")}

	if s := q.Get("status"); s != "" {
		status := ApplicationStatus(s)
		f.Status = &status
	}
	if y := q.Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return f, err
		}
		f.Year = &year
	}

	var err error
	if f.UserID, err = util.QueryID(r, "user_id"); err != nil {
		return f, err
	}
	if f.BeneficiaryID, err = util.QueryID(r, "beneficiary_id"); err != nil {
		return f, err
	}
	return f, nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		config.BadRequest(w, "invalid query parameters")
		return
	}

	list, meta, err := h.service.List(r.Context(), claims, filter, util.ParsePagination(r))
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Paginated(w, "RSBSA enrollments retrieved successfully", list, meta)
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
	config.Success(w, http.StatusOK, "RSBSA enrollment retrieved successfully", resp)
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

	var req UpdateEnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Update(r.Context(), claims, id, req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "RSBSA enrollment updated successfully", resp)
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
	config.Success(w, http.StatusOK, "RSBSA enrollment deleted successfully", nil)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	id, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid id")
		return
	}

	resp, err := h.service.Submit(r.Context(), claims, id)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Enrollment submitted for review successfully", resp)
}

func (h *Handler) AssignReviewer(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	id, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid id")
		return
	}

	// An empty body assigns the caller.
	var req AssignReviewerRequest
	if err := decodeBody(r, &req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.AssignReviewer(r.Context(), claims, id, req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Reviewer assigned successfully", resp)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	id, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid id")
		return
	}

	var req ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Approve(r.Context(), claims, id, req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Enrollment approved successfully", resp)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	id, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid id")
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Reject(r.Context(), claims, id, req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Enrollment rejected successfully", resp)
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
	if resp == nil {
		config.Success(w, http.StatusOK, "No RSBSA enrollment found for this user", nil)
		return
	}
	config.Success(w, http.StatusOK, "RSBSA enrollment retrieved successfully", resp)
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
	if resp == nil {
		config.Success(w, http.StatusOK, "No RSBSA enrollment found for this beneficiary", nil)
		return
	}
	config.Success(w, http.StatusOK, "RSBSA enrollment retrieved successfully", resp)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	id, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid id")
		return
	}

	resp, err := h.service.Status(r.Context(), claims, id)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Enrollment status retrieved successfully", resp)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(w, r)
	if !ok {
		return
	}
	id, err := util.URLParamID(r, "id")
	if err != nil {
		config.BadRequest(w, "invalid id")
		return
	}

	rows, err := h.service.History(r.Context(), claims, id)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Enrollment history retrieved successfully", rows)
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	config.Success(w, http.StatusOK, "Enrollment statistics retrieved successfully", stats)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.VerifyRSBSANumber(r.Context(), req)
	if err != nil {
		config.Fail(w, r, err)
		return
	}
	msg := "RSBSA number not found"
	if resp.Verified {
		msg = "RSBSA number verified successfully"
	}
	config.Success(w, http.StatusOK, msg, resp)
}
