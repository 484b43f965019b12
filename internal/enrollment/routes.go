package enrollment

import (
	"github.com/go-chi/chi/v5"

	"github.com/opol-agri/rsbsa-lambda/internal/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	staff := auth.RequireRole(auth.RoleCoordinator, auth.RoleAdmin)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.With(staff).Get("/statistics", h.Statistics)
	r.Get("/user/{userId}", h.GetByUser)
	r.Get("/beneficiary/{beneficiaryId}", h.GetByBeneficiary)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Get("/status", h.Status)
		r.Get("/history", h.History)
		r.Post("/submit", h.Submit)

		r.With(staff).Post("/assign-reviewer", h.AssignReviewer)
		r.With(staff).Post("/approve", h.Approve)
		r.With(staff).Post("/reject", h.Reject)
	})

	return r
}

func VerificationRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Verify)
	return r
}
