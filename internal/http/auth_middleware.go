package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/ttithipan/67011671-Todo/internal/domain"
	"github.com/ttithipan/67011671-Todo/internal/session"
)

type authContextKey string

const contextKeyUser authContextKey = "todo-auth-user"

type contextSetter interface {
	SetContext(context.Context)
}

// requireAuth resolves the session cookie before invoking the handler.
// It is the single enforcement point: handlers behind it can assume a
// current, fully hydrated user in the context.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, _, ok := r.ensureAuth(w, req)
		if !ok {
			return
		}
		if setter, ok := w.(contextSetter); ok {
			setter.SetContext(ctx)
		}
		next(w, req.WithContext(ctx))
	}
}

// ensureAuth resolves the session reference and enriches the context
// with the current user row.
func (r *Router) ensureAuth(w http.ResponseWriter, req *http.Request) (context.Context, *domain.User, bool) {
	ref := r.sessionRef(req)
	user, err := r.sessions.Resolve(req.Context(), ref)
	if err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			writeError(w, http.StatusUnauthorized, "authentication required")
		} else {
			r.logger.Error("session resolution failed", "error", err, "path", req.URL.Path)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return req.Context(), nil, false
	}
	ctx := context.WithValue(req.Context(), contextKeyUser, user)
	return ctx, user, true
}

// sessionRef extracts the opaque session reference from the cookie.
func (r *Router) sessionRef(req *http.Request) string {
	cookie, err := req.Cookie(r.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// userFromContext extracts the authenticated user from context.
func userFromContext(ctx context.Context) (*domain.User, bool) {
	value := ctx.Value(contextKeyUser)
	if value == nil {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}
