package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-preliminaries/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/ratelimit"
	"github.com/xavierca1/ligue-preliminaries/internal/usecase"
)

const maxBodyBytes = 64 << 10

type CaptureLeadExecutor interface {
	Execute(ctx context.Context, input usecase.CaptureLeadInput) (*usecase.CaptureLeadOutput, error)
}

type ReleaseLeadExecutor interface {
	Execute(ctx context.Context, input usecase.ReleaseLeadInput) (*usecase.ReleaseLeadOutput, error)
}

type LeadHandler struct {
	captureUC   CaptureLeadExecutor
	releaseUC   ReleaseLeadExecutor
	rateLimiter ratelimit.Limiter
	logger      *zap.Logger
}

func NewLeadHandler(captureUC CaptureLeadExecutor, releaseUC ReleaseLeadExecutor, limiter ratelimit.Limiter, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		captureUC:   captureUC,
		releaseUC:   releaseUC,
		rateLimiter: limiter,
		logger:      logger,
	}
}

type ErrorResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// CaptureLead (POST /preliminaries/capture)
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}

	fields, err := decodeFields(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Status: "error", Reason: "invalid_body"})
		return
	}

	out, err := h.captureUC.Execute(r.Context(), usecase.CaptureLeadInput{
		Name:       fields.get("name"),
		Email:      fields.get("email"),
		Phone:      fields.get("phone"),
		Landing:    fields.get("landing", "landing_url"),
		RequestURL: originURL(r),
	})
	if err != nil {
		middleware.RecordCapture("error")
		middleware.RecordStoreError("capture")
		h.writeError(w, err)
		return
	}

	middleware.RecordCapture(out.Status)
	writeJSON(w, http.StatusOK, out)
}

// ReleaseLead (POST /preliminaries/release). Também recebe entregas de
// navigator.sendBeacon, que ignoram a resposta.
func (h *LeadHandler) ReleaseLead(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}

	fields, err := decodeFields(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Status: "error", Reason: "invalid_body"})
		return
	}

	out, err := h.releaseUC.Execute(r.Context(), usecase.ReleaseLeadInput{
		Phone:           fields.get("phone"),
		Landing:         fields.get("landing"),
		LandingOriginal: fields.get("landing_original"),
		RequestURL:      originURL(r),
	})
	if err != nil {
		middleware.RecordRelease("error")
		middleware.RecordStoreError("release")
		h.writeError(w, err)
		return
	}

	middleware.RecordRelease(out.Status)
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) allow(w http.ResponseWriter, r *http.Request) bool {
	if h.rateLimiter == nil {
		return true
	}

	ok, err := h.rateLimiter.Allow(r.Context(), clientIP(r))
	if err != nil {
		// Limiter fora do ar não derruba a captura.
		h.logger.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	if !ok {
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Status: "error", Reason: "too_many_requests"})
		return false
	}
	return true
}

func (h *LeadHandler) writeError(w http.ResponseWriter, err error) {
	var techErr *usecase.TechnicalError
	if errors.As(err, &techErr) {
		h.logger.Error("request failed", zap.String("code", techErr.Code), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Status: "error", Reason: techErr.Code})
		return
	}
	h.logger.Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Status: "error", Reason: "internal_error"})
}

type formFields map[string]string

// get devolve o primeiro nome de campo presente.
func (f formFields) get(names ...string) string {
	for _, n := range names {
		if v, ok := f[n]; ok && v != "" {
			return v
		}
	}
	return ""
}

// decodeFields aceita JSON ou application/x-www-form-urlencoded. sendBeacon
// pode mandar o corpo urlencoded como text/plain, por isso o fallback.
func decodeFields(r *http.Request) (formFields, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	fields := formFields{}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fields, nil
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") || strings.HasPrefix(trimmed, "{") {
		// UseNumber: telefone numérico não pode passar por float64.
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		for k, v := range raw {
			switch val := v.(type) {
			case string:
				fields[k] = val
			case json.Number:
				fields[k] = val.String()
			}
		}
		return fields, nil
	}

	values, err := url.ParseQuery(trimmed)
	if err != nil {
		return nil, err
	}
	for k := range values {
		fields[k] = values.Get(k)
	}
	return fields, nil
}

// originURL é a página de onde a chamada veio: Referer, ou a própria URL da
// requisição quando o navegador não manda Referer.
func originURL(r *http.Request) string {
	if ref := r.Header.Get("Referer"); ref != "" {
		return ref
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "https" || p == "http" {
		scheme = p
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// clientIP lê RemoteAddr; atrás de proxy confiável o RealIP já o ajustou.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
