// ABOUTME: HTTP handlers for network CRUD, YAML import/export, wiring diagrams, and markdown notes.
// ABOUTME: Every mutation validates by compiling the network before anything is persisted.
package web

import (
	"bytes"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"github.com/statemap-research/basin/export"
	"github.com/statemap-research/basin/netdef"
	"github.com/statemap-research/basin/store"
)

// maxBodySize bounds uploaded documents and request payloads.
const maxBodySize = 1 << 20

type nodePayload struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

type networkPayload struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Nodes       []nodePayload `json:"nodes,omitempty"`
	Rules       []string      `json:"rules"`
}

type networkResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	NodeCount   int           `json:"node_count"`
	Nodes       []nodePayload `json:"nodes"`
	Rules       []string      `json:"rules"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

type networkSummaryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	NodeCount   int    `json:"node_count"`
	UpdatedAt   string `json:"updated_at"`
}

// document converts a network payload to its YAML document form.
func (p *networkPayload) document() *netdef.Document {
	doc := &netdef.Document{
		Name:        p.Name,
		Description: p.Description,
		Rules:       p.Rules,
	}
	for _, n := range p.Nodes {
		doc.Nodes = append(doc.Nodes, netdef.NodeDef{ID: n.ID, Label: n.Label})
	}
	return doc
}

// networkResponseFromRecord parses and compiles a stored document to
// build the full API representation.
func networkResponseFromRecord(rec *store.NetworkRecord) (*networkResponse, error) {
	doc, err := netdef.Parse([]byte(rec.Document))
	if err != nil {
		return nil, err
	}
	net, err := doc.Compile()
	if err != nil {
		return nil, err
	}

	resp := &networkResponse{
		ID:          rec.NetworkID,
		Name:        rec.Name,
		Description: rec.Description,
		NodeCount:   net.Size(),
		Rules:       doc.Rules,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	for _, node := range net.Nodes() {
		resp.Nodes = append(resp.Nodes, nodePayload{ID: node.ID, Label: node.Label})
	}
	return resp, nil
}

// loadNetwork fetches a record and compiles its document, writing the
// appropriate error response on failure.
func (s *Server) loadNetwork(w http.ResponseWriter, networkID string) (*store.NetworkRecord, *netdef.Document, bool) {
	rec, err := s.store.GetNetwork(networkID)
	if err != nil {
		writeStoreError(w, err)
		return nil, nil, false
	}

	doc, err := netdef.Parse([]byte(rec.Document))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stored document is unreadable: "+err.Error())
		return nil, nil, false
	}

	return rec, doc, true
}

// handleListNetworks handles GET /api/networks.
func (s *Server) handleListNetworks(w http.ResponseWriter, r *http.Request) {
	networks, err := s.store.ListNetworks()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	out := make([]networkSummaryResponse, 0, len(networks))
	for _, n := range networks {
		out = append(out, networkSummaryResponse{
			ID:          n.NetworkID,
			Name:        n.Name,
			Description: n.Description,
			NodeCount:   n.NodeCount,
			UpdatedAt:   n.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"networks": out})
}

// handleCreateNetwork handles POST /api/networks with a JSON payload.
func (s *Server) handleCreateNetwork(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.saveFromPayload(w, r, store.NewID(), "")
	if !ok {
		return
	}

	resp, err := networkResponseFromRecord(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleUpdateNetwork handles PUT /api/networks/{id}.
func (s *Server) handleUpdateNetwork(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := s.store.GetNetwork(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	rec, ok := s.saveFromPayload(w, r, id, existing.CreatedAt)
	if !ok {
		return
	}

	resp, err := networkResponseFromRecord(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// saveFromPayload validates a JSON network payload, compiles it, and
// persists it under the given id.
func (s *Server) saveFromPayload(w http.ResponseWriter, r *http.Request, id, createdAt string) (*store.NetworkRecord, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var payload networkPayload
	if err := readJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return nil, false
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return nil, false
	}

	doc := payload.document()
	net, err := doc.Compile()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}

	data, err := doc.Marshal()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}

	rec := &store.NetworkRecord{
		NetworkID:   id,
		Name:        payload.Name,
		Description: payload.Description,
		Document:    string(data),
		NodeCount:   net.Size(),
		CreatedAt:   createdAt,
	}
	if err := s.store.SaveNetwork(rec); err != nil {
		writeStoreError(w, err)
		return nil, false
	}
	return rec, true
}

// handleImportNetwork handles POST /api/networks/import with a raw YAML
// document body. The original text is stored verbatim.
func (s *Server) handleImportNetwork(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "document too large")
		return
	}

	doc, err := netdef.Parse(body)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if strings.TrimSpace(doc.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "document needs a name")
		return
	}

	net, err := doc.Compile()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rec := &store.NetworkRecord{
		NetworkID:   store.NewID(),
		Name:        doc.Name,
		Description: doc.Description,
		Document:    string(body),
		NodeCount:   net.Size(),
	}
	if err := s.store.SaveNetwork(rec); err != nil {
		writeStoreError(w, err)
		return
	}

	resp, err := networkResponseFromRecord(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleGetNetwork handles GET /api/networks/{id}.
func (s *Server) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetNetwork(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	resp, err := networkResponseFromRecord(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDeleteNetwork handles DELETE /api/networks/{id}.
func (s *Server) handleDeleteNetwork(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteNetwork(chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportNetwork handles GET /api/networks/{id}/export, returning
// the stored YAML document as a download.
func (s *Server) handleExportNetwork(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetNetwork(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="`+sanitizeFilename(rec.Name)+`.yaml"`)
	_, _ = w.Write([]byte(rec.Document))
}

// handleWiringDOT handles GET /api/networks/{id}/wiring.dot.
func (s *Server) handleWiringDOT(w http.ResponseWriter, r *http.Request) {
	_, doc, ok := s.loadNetwork(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	net, err := doc.Compile()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(export.WiringDOT(net)))
}

// handleWiringSVG handles GET /api/networks/{id}/wiring.svg.
func (s *Server) handleWiringSVG(w http.ResponseWriter, r *http.Request) {
	_, doc, ok := s.loadNetwork(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	net, err := doc.Compile()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := s.renderDOT(r.Context(), export.WiringDOT(net), "svg")
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(data)
}

// handleGetNotes handles GET /api/networks/{id}/notes.
func (s *Server) handleGetNotes(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetNetwork(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"notes": rec.Notes})
}

// handleUpdateNotes handles PUT /api/networks/{id}/notes.
func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var payload struct {
		Notes string `json:"notes"`
	}
	if err := readJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := s.store.UpdateNotes(chi.URLParam(r, "id"), payload.Notes); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"notes": payload.Notes})
}

// handleNotesHTML handles GET /api/networks/{id}/notes/html, rendering
// the markdown notes to HTML.
func (s *Server) handleNotesHTML(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetNetwork(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(renderMarkdown(rec.Notes)))
}

// renderMarkdown converts markdown to HTML using goldmark. Raw HTML in
// the input stays escaped under goldmark's defaults; on conversion
// errors the input is served escaped instead.
func renderMarkdown(input string) string {
	var buf bytes.Buffer
	md := goldmark.New()
	if err := md.Convert([]byte(input), &buf); err != nil {
		return template.HTMLEscapeString(input)
	}
	return buf.String()
}

// sanitizeFilename strips characters that would break a Content-
// Disposition filename or escape the download directory.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == '-' || ch == '_':
			b.WriteRune(ch)
		case ch == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "network"
	}
	return b.String()
}
