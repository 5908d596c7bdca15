package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"swiftremind/internal/domain/organisation"
)

type CreateOrganisationRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r *CreateOrganisationRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

type UpdateOrganisationRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (r *UpdateOrganisationRequest) ToPatch() *organisation.UpdatePatch {
	return &organisation.UpdatePatch{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

type OrganisationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewOrganisationResponse(org *organisation.Organisation) OrganisationResponse {
	return OrganisationResponse{
		ID:        strconv.FormatInt(org.OrganisationID, 10),
		Name:      org.Name,
		Email:     org.Email,
		Phone:     org.Phone,
		Address:   org.Address,
		Deleted:   org.Deleted,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}

func NewOrganisationListResponse(orgs []*organisation.Organisation) []OrganisationResponse {
	responses := make([]OrganisationResponse, 0, len(orgs))
	for _, org := range orgs {
		responses = append(responses, NewOrganisationResponse(org))
	}
	return responses
}
