package handler

import (
	"log/slog"
	"net/http"

	"swiftremind/internal/api/handler/dto"
	"swiftremind/internal/domain/audit"
)

// AuditHandler reads the append-only audit trail. The router restricts it to
// admins and superadmins.
type AuditHandler struct {
	repo   audit.Repository
	logger *slog.Logger
}

func NewAuditHandler(repo audit.Repository, l *slog.Logger) *AuditHandler {
	if repo == nil {
		panic("audit repository cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &AuditHandler{
		repo:   repo,
		logger: l.With("component", "AuditHandler"),
	}
}

// ListAuditLogs handles GET /audit-logs
// @Summary List audit log entries
// @Description Lists delete and restore records for the caller's organisation, newest first. Superadmins see all organisations.
// @Tags Audit
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size, capped at 100"
// @Param entity query string false "Filter by entity type" Example(Customer)
// @Success 200 {object} dto.PagedResponse "Page of audit entries"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /audit-logs [get]
// @Security BearerAuth
func (h *AuditHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	page, limit, _ := pagination(r)
	entries, total, err := h.repo.List(r.Context(), audit.ListFilter{
		OrganisationID: viewer.TenantScope(),
		Entity:         r.URL.Query().Get("entity"),
		Offset:         (page - 1) * limit,
		Limit:          limit,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list audit entries", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPagedResponse(dto.NewAuditEntryListResponse(entries), total, page, limit))
}
