package beneficiary

import (
	"github.com/go-chi/chi/v5"

	"github.com/opol-agri/rsbsa-lambda/internal/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/user/{userId}", h.GetByUser)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.With(auth.RequireRole(auth.RoleCoordinator, auth.RoleAdmin)).Post("/{id}/verify", h.Verify)

	return r
}
