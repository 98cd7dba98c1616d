package fakeapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) userJSON(u *User) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]any{
		"id":                 u.ID,
		"username":           u.Username,
		"email":              u.Email,
		"first_name":         u.FirstName,
		"last_name":          u.LastName,
		"role":               u.Role,
		"is_super_admin":     u.IsSuperAdmin,
		"is_active":          true,
		"is_active_employee": true,
	}
	if p, ok := s.partners[u.PartnerID]; ok {
		out["partner"] = map[string]any{"id": p.ID, "name": p.Name, "code": p.Code}
	}
	if st, ok := s.stores[u.StoreID]; ok {
		out["assigned_store"] = st
	}
	if st, ok := s.stores[u.DefaultStore]; ok {
		out["default_store"] = st
	}
	return out
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username == "" || in.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"non_field_errors": []string{"Username and password are required."}})
		return
	}
	s.mu.Lock()
	u, ok := s.users[in.Username]
	s.mu.Unlock()
	if !ok || in.Password != Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}
	resp := s.issue(u.ID, 0, 0)
	resp["user"] = s.userJSON(u)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, _ := s.caller(r)
	s.mu.Lock()
	s.revoked[claims.ID] = true
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	claims, _ := s.caller(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]any{
		"is_impersonating_partner": false,
		"partner":                  nil,
		"is_impersonating_store":   false,
		"store":                    nil,
	}
	if p, ok := s.partners[claims.PartnerID]; ok {
		out["is_impersonating_partner"] = true
		out["partner"] = p
	}
	if st, ok := s.stores[claims.StoreID]; ok {
		out["is_impersonating_store"] = true
		out["store"] = st
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleImpersonatePartner(w http.ResponseWriter, r *http.Request) {
	claims, u := s.caller(r)
	if u == nil || !u.IsSuperAdmin {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Only super admins can impersonate partners"})
		return
	}
	if claims.PartnerID != 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Already impersonating a partner"})
		return
	}
	s.mu.Lock()
	p, ok := s.partners[pathID(r, "partnerID")]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}
	if !p.IsActive {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cannot impersonate inactive partner"})
		return
	}
	resp := s.issue(u.ID, p.ID, 0)
	resp["impersonating"] = p
	resp["message"] = "Now impersonating " + p.Name
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExitPartner(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Stopped impersonating"})
}

func (s *Server) handleImpersonateStore(w http.ResponseWriter, r *http.Request) {
	claims, u := s.caller(r)
	partnerID, storeID := pathID(r, "partnerID"), pathID(r, "storeID")

	tenant := (u.Role == "ADMIN" && !u.IsSuperAdmin && u.PartnerID == partnerID) ||
		(u.IsSuperAdmin && claims.PartnerID == partnerID)
	if !tenant {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "You cannot impersonate stores of this partner"})
		return
	}
	if claims.StoreID != 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Already impersonating a store"})
		return
	}
	s.mu.Lock()
	st, ok := s.stores[storeID]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}
	if st.Partner != partnerID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Store does not belong to this partner"})
		return
	}
	if !st.IsActive {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Store is inactive"})
		return
	}
	resp := s.issue(u.ID, claims.PartnerID, st.ID)
	resp["impersonating_store"] = st
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExitStore(w http.ResponseWriter, r *http.Request) {
	claims, u := s.caller(r)
	s.mu.Lock()
	withTokens := s.exitStoreWithTokens
	s.mu.Unlock()

	if !withTokens {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Stopped store impersonation"})
		return
	}
	resp := s.issue(u.ID, claims.PartnerID, 0)
	resp["message"] = "Stopped store impersonation"
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePartners(w http.ResponseWriter, r *http.Request) {
	claims, u := s.caller(r)
	if !u.IsSuperAdmin || claims.PartnerID != 0 {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
		return
	}
	s.mu.Lock()
	out := make([]Partner, 0, len(s.partners))
	for _, p := range s.partners {
		out = append(out, p)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	s.writeList(w, out)
}

func (s *Server) handleStores(w http.ResponseWriter, r *http.Request) {
	claims, u := s.caller(r)
	partnerID := effectivePartner(claims, u)

	s.mu.Lock()
	out := make([]Store, 0)
	for _, st := range s.stores {
		switch {
		case u.StoreID != 0:
			if st.ID == u.StoreID {
				out = append(out, st)
			}
		case claims.StoreID != 0:
			if st.ID == claims.StoreID {
				out = append(out, st)
			}
		case st.Partner == partnerID && st.IsActive:
			out = append(out, st)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	s.writeList(w, out)
}

func (s *Server) handleProducts(w http.ResponseWriter, _ *http.Request) {
	s.writeList(w, []map[string]any{
		{
			"id": 100, "sku": "SKU-100", "name": "Brake pad", "category": 1,
			"unit_of_measure": "SET", "cost_price": "10.00", "selling_price": "19.99",
			"minimum_stock_level": 5, "current_stock": 12, "barcode": "4006381333931", "is_active": true,
		},
	})
}

func (s *Server) handleBarcode(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "barcode") != "4006381333931" {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id": 100, "sku": "SKU-100", "name": "Brake pad", "selling_price": "19.99",
		"barcode": "4006381333931", "is_active": true,
	})
}

func (s *Server) handleEmptyList(w http.ResponseWriter, _ *http.Request) {
	s.writeList(w, []any{})
}

func (s *Server) handleCreateSale(w http.ResponseWriter, _ *http.Request) {
	rec, _ := s.LastRequest("/sales/")
	store, _ := rec.Body["store"].(float64)
	if store == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Store is required"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id": 500, "sale_number": "S-" + strconv.Itoa(int(store)) + "-0001",
		"payment_method": rec.Body["payment_method"], "subtotal": "19.99", "discount": "0.00",
		"total_amount": "19.99", "cashier": 1, "is_wholesale": false,
	})
}

func (s *Server) handleAdjust(w http.ResponseWriter, _ *http.Request) {
	rec, _ := s.LastRequest("/stock/adjust/")
	writeJSON(w, http.StatusCreated, map[string]any{
		"id": 900, "product": rec.Body["product_id"], "transaction_type": rec.Body["adjustment_type"],
		"reason": rec.Body["reason"], "quantity": rec.Body["quantity"],
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"today_sales":           map[string]any{"total": "1250.50", "count": 14, "change_percentage": 12.5},
		"total_inventory_value": map[string]any{"value": "98000.00", "change_percentage": -1.5},
		"stock_summary": map[string]any{
			"total_products": 120, "active_products": 110, "low_stock_count": 4, "out_of_stock_count": 1,
		},
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "reportType")
	writeJSON(w, http.StatusOK, map[string]any{
		"report_type": kind,
		"summary":     map[string]any{"total": 2},
		"data":        []map[string]any{{"day": "2025-01-01", "total": "10.00"}, {"day": "2025-01-02", "total": "12.00"}},
		"count":       2, "page": 1, "page_size": 50, "total_pages": 1,
	})
}

func (s *Server) writeList(w http.ResponseWriter, items any) {
	s.mu.Lock()
	envelope := s.listEnvelope
	s.mu.Unlock()
	if !envelope {
		writeJSON(w, http.StatusOK, items)
		return
	}
	raw, _ := json.Marshal(items)
	var arr []json.RawMessage
	_ = json.Unmarshal(raw, &arr)
	writeJSON(w, http.StatusOK, map[string]any{"count": len(arr), "next": nil, "previous": nil, "results": arr})
}
