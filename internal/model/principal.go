package model

// Principal identifies the authenticated dashboard user.
type Principal struct {
	UserID string
	Role   string
}
