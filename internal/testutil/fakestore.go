// Package testutil provides an in-process stand-in for the remote REST
// store, covering the query dialect the console actually speaks: eq filters,
// column shaping, ordering, limits, the count directive, and
// return=representation on writes.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"radio-fleet-console/internal/store"
)

// APIKey is the key the fake store accepts.
const APIKey = "test-api-key"

// FakeStore is a tiny REST store over in-memory tables.
type FakeStore struct {
	mu       sync.Mutex
	tables   map[string][]map[string]any
	nextID   int
	failures int
	failOn   struct {
		method, table string
		n             int
	}
	requests int

	srv *httptest.Server
}

// NewFakeStore starts the fake store; it shuts down with the test.
func NewFakeStore(t *testing.T) *FakeStore {
	f := &FakeStore{tables: map[string][]map[string]any{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

// URL returns the base URL to hand to store.New.
func (f *FakeStore) URL() string { return f.srv.URL }

// Client returns a store client wired to this fake.
func (f *FakeStore) Client(opts ...store.Option) *store.Client {
	return store.New(f.srv.URL, APIKey, opts...)
}

// Seed inserts rows directly, bypassing HTTP. Rows without an id get one.
func (f *FakeStore) Seed(table string, rows ...map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range rows {
		f.insertLocked(table, row)
	}
}

// Rows returns a snapshot of a table.
func (f *FakeStore) Rows(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, len(f.tables[table]))
	for i, row := range f.tables[table] {
		cp := make(map[string]any, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}

// FailNext makes the next n requests answer 500.
func (f *FakeStore) FailNext(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = n
}

// FailOn makes the next n requests matching method and table answer 500;
// other requests are unaffected.
func (f *FakeStore) FailOn(method, table string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn.method = method
	f.failOn.table = table
	f.failOn.n = n
}

// RequestCount reports how many requests the store has served, including
// failed ones.
func (f *FakeStore) RequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *FakeStore) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++

	if r.Header.Get("apikey") != APIKey {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
		return
	}
	if f.failures > 0 {
		f.failures--
		http.Error(w, `{"message":"temporarily unavailable"}`, http.StatusInternalServerError)
		return
	}

	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
	if table == "" || strings.Contains(table, "/") {
		http.Error(w, `{"message":"unknown resource"}`, http.StatusNotFound)
		return
	}

	if f.failOn.n > 0 && r.Method == f.failOn.method && table == f.failOn.table {
		f.failOn.n--
		http.Error(w, `{"message":"temporarily unavailable"}`, http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	filters := map[string]string{}
	for col, vals := range q {
		if col == "select" || col == "order" || col == "limit" {
			continue
		}
		if len(vals) > 0 && strings.HasPrefix(vals[0], "eq.") {
			filters[col] = strings.TrimPrefix(vals[0], "eq.")
		}
	}

	switch r.Method {
	case http.MethodGet:
		f.serveSelect(w, table, q, filters)
	case http.MethodPost:
		f.serveInsert(w, r, table)
	case http.MethodPatch:
		f.servePatch(w, r, table, filters)
	case http.MethodDelete:
		f.serveDelete(w, table, filters)
	default:
		http.Error(w, `{"message":"method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

func (f *FakeStore) serveSelect(w http.ResponseWriter, table string, q map[string][]string, filters map[string]string) {
	rows := f.matchLocked(table, filters)

	sel := ""
	if v, ok := q["select"]; ok && len(v) > 0 {
		sel = v[0]
	}
	if sel == "count" {
		writeBody(w, http.StatusOK, []map[string]int{{"count": len(rows)}})
		return
	}

	if v, ok := q["order"]; ok && len(v) > 0 {
		col := v[0]
		desc := strings.HasSuffix(col, ".desc")
		col = strings.TrimSuffix(strings.TrimSuffix(col, ".desc"), ".asc")
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := fmt.Sprint(rows[i][col]), fmt.Sprint(rows[j][col])
			if desc {
				return a > b
			}
			return a < b
		})
	}

	if v, ok := q["limit"]; ok && len(v) > 0 {
		if n, err := strconv.Atoi(v[0]); err == nil && n < len(rows) {
			rows = rows[:n]
		}
	}

	if sel != "" && sel != "*" {
		cols := strings.Split(sel, ",")
		shaped := make([]map[string]any, len(rows))
		for i, row := range rows {
			out := map[string]any{}
			for _, col := range cols {
				out[col] = row[col]
			}
			shaped[i] = out
		}
		rows = shaped
	}

	writeBody(w, http.StatusOK, rows)
}

func (f *FakeStore) serveInsert(w http.ResponseWriter, r *http.Request, table string) {
	var row map[string]any
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		http.Error(w, `{"message":"invalid body"}`, http.StatusBadRequest)
		return
	}
	inserted := f.insertLocked(table, row)
	writeBody(w, http.StatusCreated, []map[string]any{inserted})
}

func (f *FakeStore) servePatch(w http.ResponseWriter, r *http.Request, table string, filters map[string]string) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, `{"message":"invalid body"}`, http.StatusBadRequest)
		return
	}
	var updated []map[string]any
	for _, row := range f.tables[table] {
		if !matches(row, filters) {
			continue
		}
		for k, v := range patch {
			row[k] = v
		}
		row["updated_at"] = time.Now().UTC().Format(time.RFC3339)
		updated = append(updated, row)
	}
	if updated == nil {
		updated = []map[string]any{}
	}
	writeBody(w, http.StatusOK, updated)
}

func (f *FakeStore) serveDelete(w http.ResponseWriter, table string, filters map[string]string) {
	kept := f.tables[table][:0]
	for _, row := range f.tables[table] {
		if !matches(row, filters) {
			kept = append(kept, row)
		}
	}
	f.tables[table] = kept
	writeBody(w, http.StatusOK, []map[string]any{})
}

func (f *FakeStore) matchLocked(table string, filters map[string]string) []map[string]any {
	out := []map[string]any{}
	for _, row := range f.tables[table] {
		if matches(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

func (f *FakeStore) insertLocked(table string, row map[string]any) map[string]any {
	if _, ok := row["id"]; !ok {
		f.nextID++
		row["id"] = "gen-" + strconv.Itoa(f.nextID)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = now
	}
	if _, ok := row["updated_at"]; !ok {
		row["updated_at"] = now
	}
	f.tables[table] = append(f.tables[table], row)
	return row
}

func matches(row map[string]any, filters map[string]string) bool {
	for col, want := range filters {
		if fmt.Sprint(row[col]) != want {
			return false
		}
	}
	return true
}

func writeBody(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
