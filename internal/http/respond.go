package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ttithipan/67011671-Todo/internal/crypto"
	"github.com/ttithipan/67011671-Todo/internal/identity"
	"github.com/ttithipan/67011671-Todo/internal/repository"
	"github.com/ttithipan/67011671-Todo/internal/service/auth"
	"github.com/ttithipan/67011671-Todo/internal/service/authz"
	"github.com/ttithipan/67011671-Todo/internal/service/task"
	"github.com/ttithipan/67011671-Todo/internal/service/team"
	"github.com/ttithipan/67011671-Todo/internal/service/user"
	"github.com/ttithipan/67011671-Todo/internal/session"
)

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends an error message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the service error taxonomy onto HTTP status
// codes. Unauthenticated (401) and forbidden (403) stay distinct so
// clients know whether to re-prompt for login. Anything outside the
// taxonomy is logged with detail and reported opaquely.
func (r *Router) writeServiceError(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, auth.ErrUseFederatedLogin):
		writeError(w, http.StatusUnauthorized, "please log in with Google")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, auth.ErrCaptchaFailed):
		writeError(w, http.StatusBadRequest, "captcha verification failed")
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email already taken")
	case errors.Is(err, user.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username taken")
	case errors.Is(err, team.ErrAlreadyMember):
		writeError(w, http.StatusConflict, "user is already a member of this team")
	case errors.Is(err, authz.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, identity.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, "invalid federated credential")
	case errors.Is(err, team.ErrInvalidName),
		errors.Is(err, team.ErrPersonalTeam),
		errors.Is(err, task.ErrInvalidTask),
		errors.Is(err, task.ErrAssigneeNotMember),
		errors.Is(err, user.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, crypto.ErrMalformedHash):
		r.logger.Error("credential data corrupt", "path", req.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		r.logger.Error("request failed", "path", req.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
