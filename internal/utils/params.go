package util

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

var ErrInvalidID = errors.New("invalid id format")

// URLParamID parses a positive numeric path parameter.
func URLParamID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return uint(id), nil
}

// QueryID parses an optional numeric query parameter; absent yields nil.
func QueryID(r *http.Request, name string) (*uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrInvalidID
	}
	v := uint(id)
	return &v, nil
}
