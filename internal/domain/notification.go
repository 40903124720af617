package domain

import "time"

// Notification is an in-app message for a member, written when one of their
// validation codes is redeemed.
type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	MemberID       string    `json:"member_id" dynamodbav:"member_id"`
	TenantID       string    `json:"tenant_id" dynamodbav:"tenant_id"`
	Title          string    `json:"title" dynamodbav:"title"`
	Body           string    `json:"body" dynamodbav:"body"`
	Readed         bool      `json:"readed" dynamodbav:"readed"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}
