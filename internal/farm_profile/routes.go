package farmprofile

import (
	"github.com/go-chi/chi/v5"

	farmparcel "github.com/opol-agri/rsbsa-lambda/internal/farm_parcel"
)

func Routes(h *Handler, parcels *farmparcel.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/beneficiary/{beneficiaryId}", h.GetByBeneficiary)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Put("/{id}/livelihood", h.SaveLivelihood)
	r.Get("/{id}/parcels", parcels.ListByProfile)
	r.Post("/{id}/parcels", parcels.Sync)

	return r
}
