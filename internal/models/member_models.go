package models

// Member represents a directory entry held by the remote member service.
// The ID is assigned by the service and never generated client-side.
type Member struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Ministry string `json:"ministry"`
}

// MemberPayload is the identity-less draft sent on create and update requests.
// Updates replace the stored record's payload in full; this is not a patch type.
type MemberPayload struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Ministry string `json:"ministry"`
}
