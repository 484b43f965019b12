package farmparcel

import "github.com/go-chi/chi/v5"

// Routes is mounted at /farm-parcels. Profile scoped listing and sync live under /farm-profiles.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Delete("/{id}", h.Delete)
	return r
}
