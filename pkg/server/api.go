package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"mercator-hq/valvemap/pkg/catalog"
)

// maxListLimit caps /api/maps responses.
const maxListLimit = 1000

type catalogAPI struct {
	store  Catalog
	logger *slog.Logger
}

type apiError struct {
	Error string `json:"error"`
}

// list serves GET /api/maps?prefix=&texture=&classname=&dialect=&failed=&limit=
func (a *catalogAPI) list(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}

	records, err := a.store.List(r.Context(), q)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	if records == nil {
		records = []*catalog.MapRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// detail serves GET /api/maps/detail?path=
func (a *catalogAPI) detail(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "path parameter is required"})
		return
	}

	rec, err := a.store.Get(r.Context(), path)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, apiError{Error: "map not found in catalog"})
		return
	}
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *catalogAPI) textures(w http.ResponseWriter, r *http.Request) {
	usage, err := a.store.Textures(r.Context())
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(usage))
}

func (a *catalogAPI) classNames(w http.ResponseWriter, r *http.Request) {
	usage, err := a.store.ClassNames(r.Context())
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(usage))
}

func (a *catalogAPI) internalError(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.ErrorContext(r.Context(), "catalog query failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, apiError{Error: "catalog query failed"})
}

func queryFromRequest(r *http.Request) (catalog.Query, error) {
	v := r.URL.Query()
	q := catalog.Query{
		PathPrefix: v.Get("prefix"),
		Texture:    v.Get("texture"),
		ClassName:  v.Get("classname"),
		Dialect:    v.Get("dialect"),
		Limit:      100,
	}

	if s := v.Get("failed"); s != "" {
		failed, err := strconv.ParseBool(s)
		if err != nil {
			return q, errors.New("failed must be true or false")
		}
		q.FailedOnly = failed
	}

	if s := v.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 {
			return q, errors.New("limit must be a positive integer")
		}
		q.Limit = min(limit, maxListLimit)
	}

	return q, nil
}

func nonNil(usage []catalog.Usage) []catalog.Usage {
	if usage == nil {
		return []catalog.Usage{}
	}
	return usage
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
