package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"subtrack/internal/domain"
	"subtrack/internal/domain/model"
	"subtrack/internal/infra/logging"
)

// Amount tolerates the sloppy price payloads browsers send: numbers,
// numeric strings, empty strings and null all decode without error.
// Anything unparseable becomes 0 and is caught by domain validation
// only when it matters (negative values).
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*a = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*a = 0
			return nil
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// subscriptionRequest is the write payload for create and update.
// Active defaults to true when omitted; NextDate may be empty, in
// which case the use case picks a default.
type subscriptionRequest struct {
	Name     string `json:"name"`
	Price    Amount `json:"price"`
	Cycle    string `json:"cycle"`
	NextDate string `json:"next_date"`
	Color    string `json:"color"`
	Notes    string `json:"notes"`
	Active   *bool  `json:"active"`
}

func (req *subscriptionRequest) toDraft() (*model.Subscription, error) {
	draft := &model.Subscription{
		Name:  req.Name,
		Price: float64(req.Price),
		Cycle: model.BillingCycle(strings.TrimSpace(req.Cycle)),
		Color: req.Color,
		Notes: req.Notes,
	}
	if s := strings.TrimSpace(req.NextDate); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			return nil, domain.ErrInvalidArgument
		}
		draft.NextDate = d
	}
	draft.Active = true
	if req.Active != nil {
		draft.Active = *req.Active
	}
	return draft, nil
}

type sessionRequest struct {
	APIKey string `json:"api_key"`
}

type grantRequest struct {
	Plan string `json:"plan"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error           string `json:"error"`
	UpgradeRequired bool   `json:"upgrade_required,omitempty"`
}

// writeError maps domain sentinels to HTTP statuses. Quota exhaustion
// gets 402 with an upgrade hint so the UI can open the premium modal.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{
			Error:           err.Error(),
			UpgradeRequired: true,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		l := logging.With(r.Context(), s.log)
		l.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if !s.auth.VerifyKey(req.APIKey) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}
	if _, err := s.auth.Mint(w); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	mode := model.FilterMode(r.URL.Query().Get("filter"))
	if mode == "" {
		mode = model.FilterAll
	}
	subs, err := s.ledger.List(r.Context(), mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dues, err := s.stats.Dueness(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	type item struct {
		*model.Subscription
		MonthlyCost float64        `json:"monthly_cost"`
		Due         *model.Dueness `json:"due,omitempty"`
	}
	items := make([]item, 0, len(subs))
	for _, sub := range subs {
		it := item{Subscription: sub, MonthlyCost: sub.MonthlyCost()}
		if d, ok := dues[sub.ID]; ok {
			dd := d
			it.Due = &dd
		}
		items = append(items, it)
	}
	writeJSON(w, http.StatusOK, struct {
		Data []item `json:"data"`
	}{Data: items})
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	draft, err := req.toDraft()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sub, err := s.ledger.Add(r.Context(), draft)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := s.ledger.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	patch, err := req.toDraft()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sub, err := s.ledger.Update(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ledger.Remove(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.stats.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	state, err := s.notif.Refresh(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleDismissReminders(w http.ResponseWriter, r *http.Request) {
	s.notif.Dismiss()
	writeJSON(w, http.StatusOK, s.notif.State())
}

func (s *Server) handleEntitlement(w http.ResponseWriter, r *http.Request) {
	ent, err := s.ent.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ent)
}

func (s *Server) handleGrantEntitlement(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	ent, err := s.ent.Grant(r.Context(), model.PremiumPlan(strings.TrimSpace(req.Plan)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ent)
}
