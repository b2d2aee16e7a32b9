package httpdto

// UpdateProfileRequest is used for PATCH /profiles/me. Absent fields are
// left unchanged.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
