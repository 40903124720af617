package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldActive    = "active"
	fieldDeletedAt = "deleted_at"
	fieldReaded    = "readed"
	fieldLogoKey   = "logo_key"
	fieldUpdatedAt = "updated_at"
)
