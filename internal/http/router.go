// Package httpx wires HTTP endpoints to the services. It is the only
// layer that touches sessions and authorization on behalf of requests;
// handlers never reach task or team mutation logic without passing the
// middleware first.
package httpx

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ttithipan/67011671-Todo/internal/domain"
	"github.com/ttithipan/67011671-Todo/internal/identity"
	"github.com/ttithipan/67011671-Todo/internal/service/auth"
	"github.com/ttithipan/67011671-Todo/internal/service/task"
	"github.com/ttithipan/67011671-Todo/internal/service/team"
	"github.com/ttithipan/67011671-Todo/internal/service/user"
	"github.com/ttithipan/67011671-Todo/internal/session"
)

// Router wires HTTP endpoints to services.
type Router struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	auth     auth.Service
	teams    team.Service
	tasks    task.Service
	users    user.Service
	sessions session.Binder
	identity identity.Decoder
	limiter  RateLimiter

	cookieName   string
	sessionTTL   time.Duration
	secureCookie bool
	dbHealth     func(context.Context) error

	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	rateLimitHits  *prometheus.CounterVec
}

const (
	rateWindowDefault  = time.Minute
	rateLimitRegister  = 5
	rateLimitLogin     = 12
	rateLimitUserWrite = 60
	rateLimitUserRead  = 120
	healthCheckTimeout = 2 * time.Second
)

// Options carries router construction parameters beyond the services.
type Options struct {
	CookieName   string
	SessionTTL   time.Duration
	SecureCookie bool
	Limiter      RateLimiter
	DBHealth     func(context.Context) error
}

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, teamSvc team.Service, taskSvc task.Service, userSvc user.Service, sessions session.Binder, decoder identity.Decoder, opts Options) *Router {
	r := &Router{
		mux:          http.NewServeMux(),
		logger:       logger,
		auth:         authSvc,
		teams:        teamSvc,
		tasks:        taskSvc,
		users:        userSvc,
		sessions:     sessions,
		identity:     decoder,
		limiter:      opts.Limiter,
		cookieName:   opts.CookieName,
		sessionTTL:   opts.SessionTTL,
		secureCookie: opts.SecureCookie,
		dbHealth:     opts.DBHealth,
	}
	if r.cookieName == "" {
		r.cookieName = "todo_session"
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.audit(r.handleHealthz))
	r.mux.Handle("/metrics", promhttp.Handler())

	r.mux.HandleFunc("/api/auth/register", r.audit(r.withRateLimit("/api/auth/register", rateLimitRegister, rateWindowDefault, rateLimitKeyIP, r.handleRegister)))
	r.mux.HandleFunc("/api/auth/login", r.audit(r.withRateLimit("/api/auth/login", rateLimitLogin, rateWindowDefault, rateLimitKeyIP, r.handleLogin)))
	r.mux.HandleFunc("/api/auth/federated", r.audit(r.withRateLimit("/api/auth/federated", rateLimitLogin, rateWindowDefault, rateLimitKeyIP, r.handleFederated)))
	r.mux.HandleFunc("/api/auth/logout", r.audit(r.handleLogout))

	r.mux.HandleFunc("/api/me", r.audit(r.handlerAuthRate("/api/me", rateLimitUserRead, rateWindowDefault, r.handleMe)))
	r.mux.HandleFunc("/api/todos", r.audit(r.handlerAuthRate("/api/todos", rateLimitUserWrite, rateWindowDefault, r.handleTodos)))
	r.mux.HandleFunc("/api/todos/", r.audit(r.handlerAuthRate("/api/todos/", rateLimitUserWrite, rateWindowDefault, r.handleTodoByID)))
	r.mux.HandleFunc("/api/teams", r.audit(r.handlerAuthRate("/api/teams", rateLimitUserWrite, rateWindowDefault, r.handleTeams)))
	r.mux.HandleFunc("/api/teams/name", r.audit(r.handlerAuthRate("/api/teams/name", rateLimitUserWrite, rateWindowDefault, r.handleTeamName)))
	r.mux.HandleFunc("/api/teams/names", r.audit(r.handlerAuthRate("/api/teams/names", rateLimitUserRead, rateWindowDefault, r.handleTeamNames)))
	r.mux.HandleFunc("/api/teams/memberships", r.audit(r.handlerAuthRate("/api/teams/memberships", rateLimitUserRead, rateWindowDefault, r.handleMemberships)))
	r.mux.HandleFunc("/api/teams/members", r.audit(r.handlerAuthRate("/api/teams/members", rateLimitUserWrite, rateWindowDefault, r.handleMembers)))
	r.mux.HandleFunc("/api/teams/members/list", r.audit(r.handlerAuthRate("/api/teams/members/list", rateLimitUserRead, rateWindowDefault, r.handleMembersList)))
	r.mux.HandleFunc("/api/profile", r.audit(r.handlerAuthRate("/api/profile", rateLimitUserWrite, rateWindowDefault, r.handleProfile)))
}

func userPayload(u *domain.User) map[string]any {
	payload := map[string]any{
		"id":        u.ID,
		"email":     u.Email,
		"full_name": u.FullName,
	}
	if u.Username != nil {
		payload["username"] = *u.Username
	}
	if u.Avatar != nil {
		payload["avatar"] = *u.Avatar
	}
	payload["has_password"] = u.HasPassword()
	payload["has_google"] = u.GoogleID != nil
	return payload
}

func (r *Router) setSessionCookie(w http.ResponseWriter, ref string) {
	http.SetCookie(w, &http.Cookie{
		Name:     r.cookieName,
		Value:    ref,
		Path:     "/",
		MaxAge:   int(r.sessionTTL / time.Second),
		HttpOnly: true,
		Secure:   r.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (r *Router) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     r.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// issueSession binds the user and sets the cookie, sharing the tail of
// every successful login path.
func (r *Router) issueSession(w http.ResponseWriter, req *http.Request, u *domain.User, status int) {
	ref, err := r.sessions.Bind(req.Context(), u)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	r.setSessionCookie(w, ref)
	writeJSON(w, status, map[string]any{"user": userPayload(u)})
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if payload.Email == "" || payload.Password == "" || payload.FullName == "" {
		writeError(w, http.StatusBadRequest, "please provide email, password, and full name")
		return
	}
	u, err := r.auth.Register(req.Context(), payload.Email, payload.Password, payload.FullName)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	r.issueSession(w, req, u, http.StatusCreated)
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		CaptchaToken string `json:"captchaToken"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := r.auth.LoginLocal(req.Context(), payload.Email, payload.Password, payload.CaptchaToken)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	r.issueSession(w, req, u, http.StatusOK)
}

func (r *Router) handleFederated(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Credential string `json:"credential"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	profile, err := r.identity.Decode(payload.Credential)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	u, err := r.auth.LoginFederated(req.Context(), profile)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	r.issueSession(w, req, u, http.StatusOK)
}

func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	if ref := r.sessionRef(req); ref != "" {
		if err := r.sessions.Revoke(req.Context(), ref); err != nil {
			r.logger.Warn("session revoke failed", "error", err)
		}
	}
	r.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	u, ok := userFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userPayload(u)})
}

func taskPayload(t domain.Task) map[string]any {
	payload := map[string]any{
		"id":      t.ID,
		"task":    t.Task,
		"done":    t.Done,
		"team_id": t.TeamID,
		"owner":   t.OwnerID,
		"updated": t.Updated.UTC().Format(time.RFC3339),
	}
	if t.AssigneeID != nil {
		payload["assignee"] = *t.AssigneeID
	}
	if t.TargetDate != nil {
		payload["target_date"] = t.TargetDate.UTC().Format(time.RFC3339)
	}
	return payload
}

func (r *Router) handleTodos(w http.ResponseWriter, req *http.Request) {
	u, ok := userFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	switch req.Method {
	case http.MethodGet:
		teamID := domain.PersonalTeamID
		if raw := req.URL.Query().Get("team_id"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid team_id")
				return
			}
			teamID = parsed
		}
		tasks, err := r.tasks.List(req.Context(), u.ID, teamID)
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		payload := make([]map[string]any, 0, len(tasks))
		for _, t := range tasks {
			payload = append(payload, taskPayload(t))
		}
		writeJSON(w, http.StatusOK, payload)
	case http.MethodPost:
		var payload struct {
			Task     string `json:"task"`
			TeamID   *int64 `json:"team_id"`
			Assignee *int64 `json:"assignee"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		teamID := domain.PersonalTeamID
		if payload.TeamID != nil {
			teamID = *payload.TeamID
		}
		created, err := r.tasks.Create(req.Context(), u.ID, teamID, payload.Task, payload.Assignee)
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusCreated, taskPayload(*created))
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleTodoByID(w http.ResponseWriter, req *http.Request) {
	u, ok := userFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	rawID := strings.TrimPrefix(req.URL.Path, "/api/todos/")
	taskID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || taskID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	switch req.Method {
	case http.MethodPut:
		var payload struct {
			Done       *bool   `json:"done"`
			TargetDate *string `json:"target_date"`
			Assignee   *int64  `json:"assignee"`
			Reassign   bool    `json:"reassign"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		switch {
		case payload.Reassign:
			err = r.tasks.Reassign(req.Context(), u.ID, taskID, payload.Assignee)
		case payload.TargetDate != nil:
			target, parseErr := time.Parse(time.RFC3339, *payload.TargetDate)
			if parseErr != nil {
				writeError(w, http.StatusBadRequest, "invalid target_date")
				return
			}
			err = r.tasks.SetTargetDate(req.Context(), u.ID, taskID, target)
		case payload.Done != nil:
			err = r.tasks.SetDone(req.Context(), u.ID, taskID, *payload.Done)
		default:
			writeError(w, http.StatusBadRequest, "either done, target_date or reassign is required")
			return
		}
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "todo updated successfully"})
	case http.MethodDelete:
		if err := r.tasks.Delete(req.Context(), u.ID, taskID); err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "todo deleted successfully"})
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleTeams(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	u, ok := userFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := r.teams.Create(req.Context(), u.ID, payload.Name)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "team created successfully",
		"teamId":  created.ID,
	})
}

func (r *Router) handleTeamName(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPut {
		r.methodNotAllowed(w)
		return
	}
	u, ok := userFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var payload struct {
		TeamID      int64  `json:"teamId"`
		NewTeamname string `json:"newTeamname"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := r.teams.Rename(req.Context(), u.ID, payload.TeamID, payload.NewTeamname); err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "teamname updated"})
}

func (r *Router) handleTeamNames(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		TeamIDs []int64 `json:"teamIds"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	teams, err := r.teams.TeamNames(req.Context(), payload.TeamIDs)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	result := make([]map[string]any, 0, len(teams))
	for _, t := range teams {
		result = append(result, map[string]any{"id": t.ID, "name": t.Name})
	}
	writeJSON(w, http.StatusOK, result)
}

func (r *Router) handleMemberships(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	u, ok := userFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	memberships, err := r.teams.ListMemberships(req.Context(), u.ID)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	result := make([]map[string]any, 0, len(memberships))
	for _, m := range memberships {
		result = append(result, map[string]any{"team_id": m.TeamID, "role": string(m.Role)})
	}
	writeJSON(w, http.StatusOK, result)
}

func (r *Router) handleMembers(w http.ResponseWriter, req *http.Request) {
	u, ok := userFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var payload struct {
		TeamID int64  `json:"teamId"`
		UserID int64  `json:"userId"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if payload.TeamID == 0 || payload.UserID == 0 {
		writeError(w, http.StatusBadRequest, "teamId and userId are required fields")
		return
	}
	switch req.Method {
	case http.MethodPost:
		if err := r.teams.AddMember(req.Context(), u.ID, payload.TeamID, payload.UserID, domain.Role(payload.Role)); err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "member added successfully"})
	case http.MethodDelete:
		if err := r.teams.RemoveMember(req.Context(), u.ID, payload.TeamID, payload.UserID); err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "member removed successfully from the team"})
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleMembersList(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		TeamIDs []int64 `json:"teamIds"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(payload.TeamIDs) == 0 {
		writeError(w, http.StatusBadRequest, "please provide a non-empty array of teamIds")
		return
	}
	members, err := r.teams.ListMembersByTeams(req.Context(), payload.TeamIDs)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	result := make([]map[string]any, 0, len(members))
	for _, m := range members {
		result = append(result, map[string]any{
			"team_id": m.TeamID,
			"user_id": m.UserID,
			"role":    string(m.Role),
		})
	}
	writeJSON(w, http.StatusOK, result)
}

func (r *Router) handleProfile(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPut {
		r.methodNotAllowed(w)
		return
	}
	u, ok := userFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var payload struct {
		NewUsername string `json:"newUsername"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := r.users.UpdateUsername(req.Context(), u.ID, payload.NewUsername); err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "username updated"})
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	status := "ok"
	components := map[string]any{}
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) audit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		ctx := recorder.ctx
		if ctx == nil {
			ctx = req.Context()
		}
		duration := time.Since(start)
		r.recordRequestMetrics(req.Method, req.URL.Path, status, duration)

		actor := "anonymous"
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(req.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if u, ok := userFromContext(ctx); ok {
			actor = "user"
			fields = append(fields, "user_id", u.ID)
		}
		fields = append(fields, "actor", actor)

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	ctx    context.Context
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) SetContext(ctx context.Context) {
	sr.ctx = ctx
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacker not supported")
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}
