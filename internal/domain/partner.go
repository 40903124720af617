package domain

import "time"

type Partner struct {
	PartnerID    string                  `json:"id" dynamodbav:"partner_id"`
	TenantID     string                  `json:"tenant_id" dynamodbav:"tenant_id"`
	Name         string                  `json:"name" dynamodbav:"name"`
	Category     string                  `json:"category" dynamodbav:"category"`
	Active       bool                    `json:"active" dynamodbav:"active"`
	ContactEmail string                  `json:"contact_email,omitempty" dynamodbav:"contact_email"`
	ContactPhone *string                 `json:"contact_phone,omitempty" dynamodbav:"contact_phone"`
	WebsiteURL   string                  `json:"website_url,omitempty" dynamodbav:"website_url"`
	Benefits     map[string]BenefitValue `json:"benefits,omitempty" dynamodbav:"benefits"`
	LogoKey      *string                 `json:"logo_key,omitempty" dynamodbav:"logo_key"`
	CreatedAt    time.Time               `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time               `json:"updated" dynamodbav:"updated_at"`
}

type CreatePartnerRequest struct {
	TenantID     string  `json:"tenant_id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	ContactEmail string  `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone"`
	WebsiteURL   string  `json:"website_url" validate:"omitempty,url"`
}

type UpdatePartnerRequest struct {
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	Active       *bool   `json:"active"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone"`
	WebsiteURL   *string `json:"website_url" validate:"omitempty,url"`
}
