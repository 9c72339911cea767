package web

import (
	"net/http"

	"github.com/vladislavdragonenkov/wholesalebox/internal/gateway"
	"github.com/vladislavdragonenkov/wholesalebox/internal/guard"
	"github.com/vladislavdragonenkov/wholesalebox/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin аутентифицирует пользователя на бэкенде и открывает
// локальную сессию. Браузеру уходит только cookie с её идентификатором.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	identity, token, err := s.gateway.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sess, err := s.sessions.Login(r.Context(), identity, token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	session.WriteCookie(w, sess)

	writeJSON(w, http.StatusOK, map[string]any{
		"name": identity.Name,
		"role": identity.Role,
		"home": identity.Role.HomePath(),
	})
}

// handleRegister создаёт учётную запись покупателя. Сессия не открывается:
// после регистрации пользователь логинится отдельно.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var form gateway.RegisterForm
	if err := decodeBody(r, &form); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := s.gateway.Register(r.Context(), form); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful. Please log in."})
}

// handleLogout уничтожает сессию и связанное с ней состояние витрины.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := sessionFrom(r); sess != nil {
		s.dropSessionState(r, sess.ID)
	}
	session.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

type changePasswordRequest struct {
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// handleChangePassword меняет пароль и принудительно разлогинивает:
// старый токен после смены пароля считается скомпрометированным.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req changePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := s.gateway.ChangePassword(r.Context(), sess.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		s.writeError(w, err)
		return
	}

	s.dropSessionState(r, sess.ID)
	session.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated. Please log in again."})
}

type createAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req createAdminRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := s.gateway.CreateAdmin(r.Context(), sess.Token, req.Name, req.Email, req.Password); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Admin account created."})
}

// handleSession описывает текущую сессию; аноним получает authenticated=false.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !sess.Authenticated() {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"name":          sess.Identity.Name,
		"email":         sess.Identity.Email,
		"role":          sess.Identity.Role,
		"home":          sess.Identity.Role.HomePath(),
	})
}

// handlePage применяет guard к страничным маршрутам.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(r)
	decision := guard.Decide(sess, r.URL.Path)
	if !decision.Allow {
		http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"page": r.URL.Path})
}

// dropSessionState уничтожает сессию вместе с корзиной и каталожным видом.
func (s *Server) dropSessionState(r *http.Request, sessionID string) {
	if err := s.sessions.Logout(r.Context(), sessionID); err != nil {
		s.logger.WithError(err).Warn("session delete failed")
	}
	s.carts.Drop(sessionID)
	s.views.Drop(sessionID)
}
