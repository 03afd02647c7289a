// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Misho1412/hotel-booking-app-sub000/internal/app"
	"github.com/Misho1412/hotel-booking-app-sub000/internal/domain"
)

type Handlers struct {
	Q    *app.StayQueryService
	F    *app.FeaturedService
	C    *app.CheckoutService
	Auth domain.AuthAPI
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/stays", h.listStays)
	s.mux.Get("/v1/stays/featured", h.featured)
	s.mux.Get("/v1/stays/{slug}", h.getStay)
	s.mux.Get("/v1/hotels/{id}/rooms", h.listRooms)
	s.mux.Post("/v1/checkout/quote", h.quote)
	s.mux.Post("/v1/checkout", h.checkout)
	s.mux.Post("/v1/auth/login", h.login)
	s.mux.Post("/v1/auth/register", h.register)
}

func selectLang(al string) string {
	if strings.HasPrefix(strings.ToLower(al), "ar") {
		return "ar"
	}
	return "en"
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain sentinels onto the problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrLoginRequired), errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", err.Error())
	default:
		writeProblem(w, http.StatusBadGateway, "Upstream Error", err.Error())
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func queryLang(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return selectLang(r.Header.Get("Accept-Language"))
}

func queryLimit(r *http.Request, def, max int) (int, bool) {
	ls := r.URL.Query().Get("limit")
	if ls == "" {
		return def, true
	}
	l, err := strconv.Atoi(ls)
	if err != nil || l <= 0 || l > max {
		return 0, false
	}
	return l, true
}

func (h *Handlers) listStays(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(r, 20, 100)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 100")
		return
	}
	q := domain.StaysQuery{
		City:  r.URL.Query().Get("city"),
		Lang:  queryLang(r),
		Limit: limit,
	}
	stays, err := h.Q.ListStays(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Language", q.Lang)
	writeCached(w, r, domain.StaysPage{Items: stays, Total: len(stays)})
}

func (h *Handlers) featured(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(r, 4, 20)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 20")
		return
	}
	lang := queryLang(r)
	stays, err := h.F.Featured(r.Context(), r.URL.Query().Get("city"), limit, lang)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Language", lang)
	writeCached(w, r, domain.StaysPage{Items: stays, Total: len(stays)})
}

func (h *Handlers) getStay(w http.ResponseWriter, r *http.Request) {
	lang := queryLang(r)
	stay, err := h.Q.GetStayBySlug(r.Context(), chi.URLParam(r, "slug"), lang)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Language", lang)
	writeCached(w, r, stay)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	rooms, err := h.Q.RoomOptions(r.Context(), id, r.URL.Query().Get("from_date"), r.URL.Query().Get("to_date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, rooms)
}

type quoteRequest struct {
	Form        domain.BookingForm `json:"form"`
	NightlyRate float64            `json:"nightly_rate"`
	MealPlans   []domain.MealPlan  `json:"meal_plans,omitempty"`
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	q, err := h.C.PriceQuote(req.Form, req.NightlyRate, req.MealPlans)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Booking", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(q)
}

type checkoutRequest struct {
	Form      domain.BookingForm `json:"form"`
	Amount    float64            `json:"amount"`
	ReturnURL string             `json:"return_url,omitempty"`
}

func (h *Handlers) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	res, err := h.C.Checkout(r.Context(), req.Form, req.Amount, req.ReturnURL)
	if err != nil {
		if errors.Is(err, domain.ErrLoginRequired) {
			writeProblem(w, http.StatusUnauthorized, "Login Required", "sign in and retry; your return URL was saved")
			return
		}
		// partial progress still matters to the caller
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(res)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var cr domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&cr); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	pair, err := h.Auth.Login(r.Context(), cr)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pair)
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var cr domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&cr); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	pair, err := h.Auth.Register(r.Context(), cr)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pair)
}
