package handlers

import (
	"context"
	"crypto/subtle"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-preliminaries/internal/entity"
)

//go:embed templates/*.html
var templatesFS embed.FS

var adminListTemplate = template.Must(template.ParseFS(templatesFS, "templates/admin_list.html"))

type ListPreliminariesExecutor interface {
	Execute(ctx context.Context, limit int) ([]*entity.PreliminaryLead, error)
}

type AdminHandler struct {
	listUC        ListPreliminariesExecutor
	limit         int
	retentionDays int
	logger        *zap.Logger
}

func NewAdminHandler(listUC ListPreliminariesExecutor, limit, retentionDays int, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		listUC:        listUC,
		limit:         limit,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

type adminListPage struct {
	Leads         []*entity.PreliminaryLead
	RetentionDays int
}

// List (GET /admin/preliminaries) renderiza a tabela somente leitura.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.listUC.Execute(r.Context(), h.limitFrom(r))
	if err != nil {
		h.logger.Error("admin listing failed", zap.Error(err))
		http.Error(w, "Banco de dados indisponível", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := adminListTemplate.Execute(w, adminListPage{Leads: leads, RetentionDays: h.retentionDays}); err != nil {
		h.logger.Error("admin template failed", zap.Error(err))
	}
}

// ListJSON (GET /admin/preliminaries.json)
func (h *AdminHandler) ListJSON(w http.ResponseWriter, r *http.Request) {
	leads, err := h.listUC.Execute(r.Context(), h.limitFrom(r))
	if err != nil {
		h.logger.Error("admin listing failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Status: "error", Reason: "store_unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *AdminHandler) limitFrom(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && (h.limit <= 0 || n < h.limit) {
			return n
		}
	}
	return h.limit
}

// RequireAdmin aceita "Authorization: Bearer <token>" ou Basic Auth com o
// token como senha (para abrir a página direto no navegador).
func RequireAdmin(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && validAdminToken(r, token) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("WWW-Authenticate", `Basic realm="preliminaries"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		})
	}
}

func validAdminToken(r *http.Request, token string) bool {
	var given string
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		given = strings.TrimPrefix(auth, "Bearer ")
	} else if _, pass, ok := r.BasicAuth(); ok {
		given = pass
	}
	return given != "" && subtle.ConstantTimeCompare([]byte(given), []byte(token)) == 1
}
