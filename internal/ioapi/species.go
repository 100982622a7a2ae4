package ioapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gnames/fungidb/pkg/taxon"
)

type speciesRequest struct {
	ID             string  `json:"id"             validate:"required,max=64"`
	ScientificName string  `json:"scientificName" validate:"required,max=500"`
	VernacularName *string `json:"vernacularName" validate:"omitempty,max=500"`
}

// searchSpecies finds species by partial names. The query comes from q or,
// for older clients, from texto.
func (s *Server) searchSpecies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		query = strings.TrimSpace(q.Get("texto"))
	}
	if query == "" {
		respondJSON(w, http.StatusOK, []taxon.Species{})
		return
	}

	limit := s.cfg.Server.SearchLimit
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l < limit {
		limit = l
	}

	res, err := s.store.SearchSpecies(r.Context(), query, limit)
	if err != nil {
		respondStoreError(w, err, "Search failed")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) saveSpecies(w http.ResponseWriter, r *http.Request) {
	var req speciesRequest
	if !s.decode(w, r, &req) {
		return
	}

	doc := taxon.Species{
		ID:             strings.TrimSpace(req.ID),
		ScientificName: strings.TrimSpace(req.ScientificName),
		Source:         taxon.SourceAPI,
	}
	if req.VernacularName != nil {
		if name := taxon.CleanName(*req.VernacularName); name != "" {
			doc.VernacularName = &name
		}
	}
	doc.Normalize()

	if err := s.store.SaveSpecies(r.Context(), doc); err != nil {
		respondStoreError(w, err, "Species already exists")
		return
	}
	respondJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "Species saved",
		ID:      doc.ID,
	})
}
