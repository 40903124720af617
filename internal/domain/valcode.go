package domain

import (
	"fmt"
	"time"
)

// MaskedCode replaces the cleartext code in redemption history records.
const MaskedCode = "***"

// ValidationCode is a short-lived one-time 6-digit code binding a member to a
// partner. PK: code_id = "{tenant_id}_{user_id}_{code}"; the tenant prefix
// makes codes from different tenants structurally unaddressable from each
// other's namespace. ExpiresAt doubles as the DynamoDB TTL attribute; expired
// documents are purged by TTL, never by this code.
type ValidationCode struct {
	CodeID    string     `json:"id" dynamodbav:"code_id"`
	Code      string     `json:"code" dynamodbav:"code"`
	UserID    string     `json:"user_id" dynamodbav:"user_id"`
	UserType  string     `json:"user_type" dynamodbav:"user_type"`
	PartnerID string     `json:"partner_id" dynamodbav:"partner_id"`
	TenantID  string     `json:"tenant_id" dynamodbav:"tenant_id"`
	Used      bool       `json:"used" dynamodbav:"used"`
	ExpiresAt int64      `json:"expires" dynamodbav:"expires_at"` // Unix seconds, TTL
	UsedAt    *time.Time `json:"used_at,omitempty" dynamodbav:"used_at"`
	CreatedAt time.Time  `json:"created" dynamodbav:"created_at"`
}

// CodeID composes the tenant-scoped validation code document id.
func CodeID(tenantID, userID, code string) string {
	return fmt.Sprintf("%s_%s_%s", tenantID, userID, code)
}

// RedemptionRecord is written exactly once per successful redemption and is
// immutable afterward. RecordID is derived from the validation code id; the
// code itself is stored masked.
type RedemptionRecord struct {
	RecordID  string    `json:"id" dynamodbav:"record_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	UserType  string    `json:"user_type" dynamodbav:"user_type"`
	PartnerID string    `json:"partner_id" dynamodbav:"partner_id"`
	Code      string    `json:"code" dynamodbav:"code"` // always MaskedCode
	UsedAt    time.Time `json:"used_at" dynamodbav:"used_at"`
	TenantID  string    `json:"tenant_id" dynamodbav:"tenant_id"`
}

// HistoryEntry is a redemption record enriched with partner metadata for
// caller-facing history listings. Enrichment is best-effort: a missing
// partner leaves the extra fields empty.
type HistoryEntry struct {
	RedemptionRecord
	PartnerName     string `json:"partner_name,omitempty"`
	PartnerCategory string `json:"partner_category,omitempty"`
}

type GenerateCodeRequest struct {
	PartnerID string `json:"partner_id" validate:"required"`
}

type RedeemCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}
