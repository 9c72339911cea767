package web

import "net/http"

func (s *Server) handleAdmins(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.gateway.ListAdmins(r.Context(), sessionFrom(r).Token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.gateway.ListCustomers(r.Context(), sessionFrom(r).Token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}
