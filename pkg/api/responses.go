package api

// SuccessResponse acknowledges a mutation with no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// CreatedResponse acknowledges a creation and returns the new id.
type CreatedResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}
