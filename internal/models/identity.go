package model

import "labelforge.com/labelforge/internal/constants"

// Identity is the resolved caller handed in by the upstream authentication
// collaborator. The core never authenticates anyone itself.
type Identity struct {
	UserID string
	Role   constants.Role
}
