package httpdto

// CreateDirectConversationRequest is used for POST /conversations/direct
type CreateDirectConversationRequest struct {
	ProfileID string `json:"profile_id" binding:"required"`
}
