package http

import (
	"net/http"

	"gagyebu/internal/core"
	"gagyebu/internal/groups"
	"gagyebu/internal/groups/memory"
	applog "gagyebu/internal/log"
)

type groupsResponse struct {
	Groups                 []core.MerchantGroup `json:"groups"`
	ExcludedPaymentMethods []string             `json:"excludedPaymentMethods"`
}

type saveGroupRequest struct {
	Label     string   `json:"label"`
	Merchants []string `json:"merchants"`
}

type excludedRequest struct {
	Labels []string `json:"labels"`
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	s.writeGroups(w, r, http.StatusOK)
}

func (s *Server) writeGroups(w http.ResponseWriter, r *http.Request, status int) {
	ctx := r.Context()
	merchantGroups, err := s.groups.Groups(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	excluded, err := s.groups.ExcludedPaymentMethods(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if excluded == nil {
		excluded = []string{}
	}
	writeJSON(w, status, groupsResponse{Groups: merchantGroups, ExcludedPaymentMethods: excluded})
}

// handleExportGroups downloads the configuration as a groups YAML file.
func (s *Server) handleExportGroups(w http.ResponseWriter, r *http.Request) {
	b, err := memory.Export(r.Context(), s.groups)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="groups.yaml"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// handleSaveGroup creates or replaces the group named in the path.
func (s *Server) handleSaveGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req saveGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	g := core.MerchantGroup{
		Name:      sanitizeInput(r.PathValue("name")),
		Label:     sanitizeInput(req.Label),
		Merchants: req.Merchants,
	}
	if err := s.groups.SaveGroup(ctx, g); err != nil {
		s.writeError(w, r, err)
		return
	}
	applog.FromContext(ctx).InfoContext(ctx, "Merchant group saved",
		applog.FieldOperation, applog.OpConfig,
		"group", g.Name,
		"merchants", len(g.Merchants))
	s.writeGroups(w, r, http.StatusOK)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("name")
	if err := s.groups.DeleteGroup(ctx, name); err != nil {
		s.writeError(w, r, err)
		return
	}
	applog.FromContext(ctx).InfoContext(ctx, "Merchant group deleted",
		applog.FieldOperation, applog.OpConfig,
		"group", name)
	w.WriteHeader(http.StatusNoContent)
}

// handleSetExcluded replaces the payment methods hidden from selection.
func (s *Server) handleSetExcluded(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req excludedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	labels := groups.Dedupe(req.Labels)
	if err := s.groups.SetExcludedPaymentMethods(ctx, labels); err != nil {
		s.writeError(w, r, err)
		return
	}
	applog.FromContext(ctx).InfoContext(ctx, "Excluded payment methods updated",
		applog.FieldOperation, applog.OpConfig,
		"count", len(labels))
	s.writeGroups(w, r, http.StatusOK)
}
