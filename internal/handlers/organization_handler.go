package handlers

import (
	"net/http"

	"github.com/studiostorm/server/internal/observability"
	"github.com/studiostorm/server/internal/repository"
)

// OrganizationHandler handles the public organization listing
type OrganizationHandler struct {
	orgRepo repository.OrganizationRepo
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgRepo repository.OrganizationRepo) *OrganizationHandler {
	return &OrganizationHandler{orgRepo: orgRepo}
}

// ListOrganizations returns every partner organization
func (h *OrganizationHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgRepo.GetAll(r.Context())
	if err != nil {
		observability.WithContext(r.Context()).Errorf("list organizations: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch organizations")
		return
	}
	writeJSON(w, http.StatusOK, orgs)
}
