package server

import (
	"net/http"

	"github.com/cytzrs/share-sub001/internal/market"
)

func (s *Server) handlePortfolioList(w http.ResponseWriter, r *http.Request) {
	portfolios, err := s.portfolioRepo.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, portfolios)
}

func (s *Server) handlePortfolioGet(w http.ResponseWriter, r *http.Request) {
	portfolio, err := s.portfolioRepo.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	positions, err := s.portfolioRepo.ListPositions(r.Context(), portfolio.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"portfolio": portfolio,
		"positions": positions,
	})
}

func (s *Server) handlePortfolioSnapshot(w http.ResponseWriter, r *http.Request) {
	portfolio, err := s.portfolioRepo.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	positions, err := s.portfolioRepo.ListPositions(r.Context(), portfolio.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, market.Compute(portfolio, positions))
}
