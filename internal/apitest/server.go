// internal/apitest/server.go

// Package apitest runs an in-memory stand-in for the church administration
// REST API, for tests of the client packages.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Recorded is one request as the server saw it.
type Recorded struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          []byte
}

// JSON decodes the recorded body into a generic map.
func (r Recorded) JSON() map[string]any {
	var m map[string]any
	_ = json.Unmarshal(r.Body, &m)
	return m
}

type failure struct {
	status  int
	message string
}

type collection struct {
	nextID int64
	order  []int64
	items  map[int64]map[string]any
}

func newCollection() *collection {
	return &collection{nextID: 1, items: map[int64]map[string]any{}}
}

func (c *collection) insert(obj map[string]any) map[string]any {
	id := c.nextID
	c.nextID++
	obj["id"] = id
	c.order = append(c.order, id)
	c.items[id] = obj
	return obj
}

func (c *collection) all() []map[string]any {
	out := make([]map[string]any, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *collection) remove(id int64) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Server is the fake API. Its base URL for clients is BaseURL().
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	accounts    map[string]account
	tokens      map[string]bool
	requireAuth bool
	collections map[string]*collection
	requests    []Recorded
	failures    map[string]failure
}

type account struct {
	password string
	token    string
}

// Collections served by the fake.
var Collections = []string{"members", "pastors", "donations", "rooms", "bookings"}

// New starts a fake API that is shut down when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		accounts:    map[string]account{},
		tokens:      map[string]bool{},
		collections: map[string]*collection{},
		failures:    map[string]failure{},
	}
	for _, name := range Collections {
		s.collections[name] = newCollection()
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to hand to clients.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// AddAccount registers credentials that log in with the given token.
func (s *Server) AddAccount(email, password, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = account{password: password, token: token}
}

// RequireAuth makes every route except login demand a token issued by the fake.
func (s *Server) RequireAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireAuth = true
}

// Seed inserts records into a collection, assigning ids in order.
func (s *Server) Seed(name string, records ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collections[name]
	for _, r := range records {
		raw, err := json.Marshal(r)
		if err != nil {
			panic(err)
		}
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			panic(err)
		}
		c.insert(obj)
	}
}

// FailNext makes the next request to method+path (path below /api) fail.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, message: message}
}

// Requests returns every request received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Count returns how many requests hit method+path (path below /api).
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the latest request to method+path (path below /api).
func (s *Server) Last(method, path string) (Recorded, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Recorded{}, false
}

// Records returns the stored records of a collection, in insertion order.
func (s *Server) Records(name string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collections[name].all()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/members/vetting/{status}", s.handleFilter("members", "vettingStatus", "status"))
			r.Get("/members/pastor/{pastorId}", s.handleFilter("members", "pastorId", "pastorId"))
			r.Patch("/members/{id}/vetting", s.handleSetField("members", "vettingStatus"))
			r.Patch("/members/{id}/assign-pastor/{pastorId}", s.handleAssignPastor)

			r.Get("/pastors/branch/{branch}", s.handleFilter("pastors", "churchBranch", "branch"))
			r.Get("/pastors/country/{code}", s.handleFilter("pastors", "countryCode", "code"))

			r.Get("/donations/member/{memberId}", s.handleFilter("donations", "memberId", "memberId"))
			r.Get("/donations/type/{type}", s.handleFilter("donations", "donationType", "type"))
			r.Get("/donations/campaign/{code}", s.handleFilter("donations", "campaignCode", "code"))
			r.Get("/donations/date-range", s.handleDonationRange)

			r.Get("/rooms/available", s.handleAvailableRooms)
			r.Get("/rooms/available/type/{type}", s.handleAvailableRooms)
			r.Get("/rooms/status/{status}", s.handleFilter("rooms", "status", "status"))
			r.Get("/rooms/type/{type}", s.handleFilter("rooms", "type", "type"))
			r.Get("/rooms/number/{number}", s.handleFindOne("rooms", "roomNumber", "number"))
			r.Get("/rooms/stats", s.handleRoomStats)

			r.Get("/bookings/reference/{ref}", s.handleFindOne("bookings", "bookingReference", "ref"))
			r.Get("/bookings/status/{status}", s.handleFilter("bookings", "status", "status"))
			r.Get("/bookings/room/{roomId}", s.handleFilter("bookings", "room.id", "roomId"))
			r.Get("/bookings/guest/{email}", s.handleFilter("bookings", "guestEmail", "email"))
			r.Get("/bookings/active", s.handleBookingsOn(func(b map[string]any, day string) bool {
				return str(b["checkInDate"]) <= day && str(b["checkOutDate"]) > day
			}))
			r.Get("/bookings/check-ins", s.handleBookingsOn(func(b map[string]any, day string) bool {
				return str(b["checkInDate"]) == day && inStay(b)
			}))
			r.Get("/bookings/check-outs", s.handleBookingsOn(func(b map[string]any, day string) bool {
				return str(b["checkOutDate"]) == day && inStay(b)
			}))
			r.Get("/bookings/stats", s.handleBookingStats)
			r.Get("/bookings/revenue", s.handleRevenue)
			r.Patch("/bookings/{id}/status", s.handleSetField("bookings", "status"))

			for _, name := range Collections {
				r.Get("/"+name, s.handleList(name))
				r.Post("/"+name, s.handleCreate(name))
				r.Get("/"+name+"/{id}", s.handleGet(name))
				r.Put("/"+name+"/{id}", s.handleUpdate(name))
				r.Delete("/"+name+"/{id}", s.handleDelete(name))
			}
		})
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		path := strings.TrimPrefix(r.URL.Path, "/api")
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		key := r.Method + " " + path
		f, failing := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()

		if failing {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		required := s.requireAuth
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		valid := s.tokens[token]
		s.mu.Unlock()

		if required && !valid {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.Email]
	if ok && acct.password == req.Password {
		s.tokens[acct.token] = true
	}
	s.mu.Unlock()

	if !ok || acct.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": acct.token})
}

func (s *Server) handleList(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Records(name))
	}
}

func (s *Server) handleCreate(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var obj map[string]any
		if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		applyDefaults(name, obj)

		s.mu.Lock()
		if name == "bookings" {
			s.priceBooking(obj)
		}
		created := s.collections[name].insert(obj)
		s.mu.Unlock()

		writeJSON(w, http.StatusCreated, created)
	}
}

func applyDefaults(name string, obj map[string]any) {
	setDefault := func(field string, value any) {
		if v, ok := obj[field]; !ok || v == nil || v == "" {
			obj[field] = value
		}
	}
	switch name {
	case "members":
		setDefault("vettingStatus", "PENDING")
	case "rooms":
		setDefault("status", "AVAILABLE")
	case "bookings":
		setDefault("status", "PENDING")
		setDefault("bookingReference", "HG-"+strings.ToUpper(uuid.NewString()[:8]))
	}
}

// priceBooking fills the stay length and total from the booked room's
// nightly price, as the real server does. Callers hold s.mu.
func (s *Server) priceBooking(obj map[string]any) {
	in, err1 := time.Parse(dateLayout, str(obj["checkInDate"]))
	out, err2 := time.Parse(dateLayout, str(obj["checkOutDate"]))
	if err1 != nil || err2 != nil || !out.After(in) {
		return
	}
	nights := int64(out.Sub(in).Hours() / 24)
	obj["numberOfNights"] = nights

	if v, ok := obj["totalAmount"]; ok && v != nil {
		return
	}
	ref, _ := obj["room"].(map[string]any)
	room, ok := s.collections["rooms"].items[toInt(ref["id"])]
	if !ok {
		return
	}
	if price, ok := room["price"].(float64); ok {
		obj["totalAmount"] = price * float64(nights)
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request, name string) (map[string]any, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	s.mu.Lock()
	obj, ok := s.collections[name].items[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", name, id))
		return nil, false
	}
	return obj, true
}

func (s *Server) handleGet(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if obj, ok := s.lookup(w, r, name); ok {
			writeJSON(w, http.StatusOK, obj)
		}
	}
}

func (s *Server) handleUpdate(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := s.lookup(w, r, name)
		if !ok {
			return
		}
		var obj map[string]any
		if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s.mu.Lock()
		obj["id"] = existing["id"]
		s.collections[name].items[toInt(existing["id"])] = obj
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, obj)
	}
}

func (s *Server) handleDelete(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := s.lookup(w, r, name)
		if !ok {
			return
		}
		s.mu.Lock()
		s.collections[name].remove(toInt(existing["id"]))
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleSetField(name, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		obj, ok := s.lookup(w, r, name)
		if !ok {
			return
		}
		value := r.URL.Query().Get("status")
		if value == "" {
			writeError(w, http.StatusBadRequest, "status is required")
			return
		}
		s.mu.Lock()
		obj[field] = value
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, obj)
	}
}

func (s *Server) handleAssignPastor(w http.ResponseWriter, r *http.Request) {
	member, ok := s.lookup(w, r, "members")
	if !ok {
		return
	}
	pastorID, err := strconv.ParseInt(chi.URLParam(r, "pastorId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pastor id")
		return
	}

	s.mu.Lock()
	_, exists := s.collections["pastors"].items[pastorID]
	if exists {
		member["pastorId"] = pastorID
	}
	s.mu.Unlock()

	if !exists {
		writeError(w, http.StatusNotFound, fmt.Sprintf("pastors %d not found", pastorID))
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (s *Server) handleFilter(name, field, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		want := chi.URLParam(r, param)
		out := []map[string]any{}
		for _, obj := range s.Records(name) {
			if fmt.Sprint(fieldValue(obj, field)) == want {
				out = append(out, obj)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleDonationRange(w http.ResponseWriter, r *http.Request) {
	start, end := r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate")
	out := []map[string]any{}
	for _, obj := range s.Records("donations") {
		d := fmt.Sprint(obj["donationDate"])
		if (start == "" || d >= start) && (end == "" || d <= end) {
			out = append(out, obj)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAvailableRooms serves both /rooms/available and its by-type variant.
func (s *Server) handleAvailableRooms(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "type")
	out := []map[string]any{}
	for _, obj := range s.Records("rooms") {
		if obj["status"] == "AVAILABLE" && (kind == "" || obj["type"] == kind) {
			out = append(out, obj)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFindOne(name, field, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		want := chi.URLParam(r, param)
		for _, obj := range s.Records(name) {
			if fmt.Sprint(fieldValue(obj, field)) == want {
				writeJSON(w, http.StatusOK, obj)
				return
			}
		}
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s %s not found", name, want))
	}
}

func (s *Server) handleRoomStats(w http.ResponseWriter, r *http.Request) {
	var total, available, occupied int
	for _, obj := range s.Records("rooms") {
		total++
		switch obj["status"] {
		case "AVAILABLE":
			available++
		case "OCCUPIED":
			occupied++
		}
	}
	rate := 0.0
	if total > 0 {
		rate = float64(occupied) / float64(total) * 100
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalRooms":     total,
		"availableRooms": available,
		"occupiedRooms":  occupied,
		"occupancyRate":  rate,
	})
}

func (s *Server) handleBookingsOn(match func(booking map[string]any, day string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day := r.URL.Query().Get("date")
		if day == "" {
			writeError(w, http.StatusBadRequest, "date is required")
			return
		}
		out := []map[string]any{}
		for _, obj := range s.Records("bookings") {
			if match(obj, day) {
				out = append(out, obj)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleBookingStats(w http.ResponseWriter, r *http.Request) {
	counts := map[string]int{}
	bookings := s.Records("bookings")
	for _, obj := range bookings {
		counts[str(obj["status"])]++
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalBookings":     len(bookings),
		"confirmedBookings": counts["CONFIRMED"],
		"pendingBookings":   counts["PENDING"],
		"checkedInBookings": counts["CHECKED_IN"],
	})
}

// handleRevenue sums CONFIRMED bookings checking in within the period.
func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	start, end := r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate")
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "startDate and endDate are required")
		return
	}
	var total float64
	for _, obj := range s.Records("bookings") {
		in := str(obj["checkInDate"])
		if obj["status"] == "CONFIRMED" && in >= start && in <= end {
			if v, ok := obj["totalAmount"].(float64); ok {
				total += v
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"startDate":    start,
		"endDate":      end,
		"totalRevenue": total,
	})
}

const dateLayout = "2006-01-02"

func inStay(booking map[string]any) bool {
	switch booking["status"] {
	case "CONFIRMED", "CHECKED_IN":
		return true
	}
	return false
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// fieldValue resolves dotted paths such as "room.id".
func fieldValue(obj map[string]any, path string) any {
	var cur any = obj
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

func toInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, map[string]string{"message": message})
}
