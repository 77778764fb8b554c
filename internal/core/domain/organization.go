package domain

import "time"

type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

const (
	DefaultTimezone = "America/Mexico_City"
	DefaultCurrency = "MXN"
	DefaultLocale   = "es-MX"
)

// OrganizationSettings holds tenant-wide presentation preferences.
type OrganizationSettings struct {
	Timezone string `json:"timezone"`
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
}

// Organization is the tenant root. Every other tenant-scoped entity carries
// its ID.
type Organization struct {
	ID        string               `json:"id"`
	Name      string               `json:"nombre"`
	RFC       string               `json:"rfc,omitempty"`
	Plan      Plan                 `json:"plan"`
	Settings  OrganizationSettings `json:"settings"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// NewOrganization builds a free-plan tenant with Mexican defaults.
func NewOrganization(id, name, rfc string, now time.Time) *Organization {
	return &Organization{
		ID:   id,
		Name: name,
		RFC:  rfc,
		Plan: PlanFree,
		Settings: OrganizationSettings{
			Timezone: DefaultTimezone,
			Currency: DefaultCurrency,
			Locale:   DefaultLocale,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
