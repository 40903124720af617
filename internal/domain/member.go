package domain

import "time"

// Member user types and roles.
const (
	UserTypeEmployee = "employee"
	UserTypeStudent  = "student"

	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Member is an employee or student enrolled in a tenant's benefits program.
// Read-mostly; referenced by validation codes through (tenant_id, member_id).
type Member struct {
	MemberID     string     `json:"id" dynamodbav:"member_id"`
	TenantID     string     `json:"tenant_id" dynamodbav:"tenant_id"`
	UserType     string     `json:"user_type" dynamodbav:"user_type"` // "employee" | "student"
	FirstName    string     `json:"first_name" dynamodbav:"first_name"`
	LastName     string     `json:"last_name" dynamodbav:"last_name"`
	Email        string     `json:"email" dynamodbav:"email"`
	Phone        *string    `json:"phone,omitempty" dynamodbav:"phone"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Role         string     `json:"role" dynamodbav:"role"` // "member" | "admin"
	Active       bool       `json:"active" dynamodbav:"active"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateMemberRequest struct {
	TenantID  string  `json:"tenant_id" validate:"required"`
	UserType  string  `json:"user_type" validate:"required,oneof=employee student"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
}

type UpdateMemberRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
	Active    *bool   `json:"active"`
}
