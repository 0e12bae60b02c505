package reconcile

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/antonminaichev/storefront-orders/internal/storage"
)

// Report — классификация расхождений между запрашивающей личностью и тем,
// под каким owner id реально записаны заказы (типовой случай — пересозданный
// аккаунт с тем же email). Утилита только диагностирует, данные не чинит.
type Report struct {
	TotalOrders       int      `json:"total_orders"`
	ExactOwnerMatches int      `json:"exact_owner_matches"`
	EmailMatches      int      `json:"email_matches"`
	UniqueOwnerIDs    []string `json:"unique_owner_ids"`
	UniqueEmails      []string `json:"unique_emails"`
}

type Service struct {
	store storage.OrderStore
}

func NewService(store storage.OrderStore) *Service {
	return &Service{store: store}
}

// Diagnose сканирует все заказы один раз. Не горячий путь.
func (s *Service) Diagnose(ctx context.Context, ownerID, email string) (*Report, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	orders, err := s.store.ListAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	owners := map[string]struct{}{}
	emails := map[string]struct{}{}
	r := &Report{TotalOrders: len(orders)}
	for _, o := range orders {
		owners[o.OwnerID] = struct{}{}
		emails[o.Email] = struct{}{}
		if o.OwnerID == ownerID {
			r.ExactOwnerMatches++
		}
		if o.Email == email {
			r.EmailMatches++
		}
	}
	r.UniqueOwnerIDs = sortedKeys(owners)
	r.UniqueEmails = sortedKeys(emails)
	return r, nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Diagnose(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner")
	email := r.URL.Query().Get("email")
	if ownerID == "" && email == "" {
		http.Error(w, "owner or email query parameter required", http.StatusBadRequest)
		return
	}
	report, err := h.svc.Diagnose(r.Context(), ownerID, email)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
