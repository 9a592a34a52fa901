//go:build integration

package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
)

// fakeRouter is an in-memory stand-in for the RouterOS REST API with one
// WireGuard interface, wg0.
type fakeRouter struct {
	mu         sync.Mutex
	nextID     int
	peers      map[string]map[string]any
	privateKey bool
}

func newFakeRouter() *fakeRouter {
	return &fakeRouter{peers: map[string]map[string]any{}}
}

func (f *fakeRouter) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/interface/wireguard", f.listInterfaces)
	mux.HandleFunc("GET /rest/interface/wireguard/peers", f.listPeers)
	mux.HandleFunc("PUT /rest/interface/wireguard/peers", f.createPeer)
	mux.HandleFunc("GET /rest/interface/wireguard/peers/{id}", f.getPeer)
	mux.HandleFunc("PATCH /rest/interface/wireguard/peers/{id}", f.patchPeer)
	mux.HandleFunc("DELETE /rest/interface/wireguard/peers/{id}", f.deletePeer)
	return mux
}

func (f *fakeRouter) sawPrivateKey() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.privateKey
}

func (f *fakeRouter) disabled(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	peer, ok := f.peers[id]
	return ok && peer["disabled"] == "true"
}

func (f *fakeRouter) listInterfaces(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" && name != "wg0" {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, []map[string]string{{
		".id":         "*1",
		"name":        "wg0",
		"public-key":  "router-public-key",
		"listen-port": "13231",
	}})
}

func (f *fakeRouter) listPeers(w http.ResponseWriter, r *http.Request) {
	iface := r.URL.Query().Get("interface")

	f.mu.Lock()
	out := make([]map[string]any, 0, len(f.peers))
	for _, peer := range f.peers {
		if iface == "" || peer["interface"] == iface {
			out = append(out, peer)
		}
	}
	f.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i][".id"].(string) < out[j][".id"].(string) })
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeRouter) createPeer(w http.ResponseWriter, r *http.Request) {
	var peer map[string]any
	if err := json.NewDecoder(r.Body).Decode(&peer); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": 400, "message": "Bad Request", "detail": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := peer["private-key"]; ok {
		f.privateKey = true
	}
	for _, existing := range f.peers {
		if existing["public-key"] == peer["public-key"] && existing["interface"] == peer["interface"] {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": 400, "message": "Bad Request", "detail": "failure: peer with such public key already exists"})
			return
		}
	}
	f.nextID++
	peer[".id"] = fmt.Sprintf("*%X", f.nextID)
	peer["disabled"] = "false"
	f.peers[peer[".id"].(string)] = peer
	writeJSON(w, http.StatusCreated, peer)
}

func (f *fakeRouter) getPeer(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	peer, ok := f.peers[r.PathValue("id")]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": 404, "message": "Not Found", "detail": "no such item"})
		return
	}
	writeJSON(w, http.StatusOK, peer)
}

func (f *fakeRouter) patchPeer(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": 400, "message": "Bad Request", "detail": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	peer, ok := f.peers[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": 404, "message": "Not Found", "detail": "no such item"})
		return
	}
	for k, v := range patch {
		peer[k] = v
	}
	writeJSON(w, http.StatusOK, peer)
}

func (f *fakeRouter) deletePeer(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := f.peers[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": 404, "message": "Not Found", "detail": "no such item"})
		return
	}
	delete(f.peers, id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
