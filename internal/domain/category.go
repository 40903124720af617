package domain

// Category is an admin-managed lookup entry for partner categories.
type Category struct {
	CategoryID  string `json:"id" dynamodbav:"category_id"`
	Name        string `json:"name" dynamodbav:"name"`
	Description string `json:"description,omitempty" dynamodbav:"description"`
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}
