package constants

// Role is the resolved role of a caller, provided by the upstream
// authentication layer.
type Role string

const (
	RoleAnnotator Role = "annotator"
	RoleReviewer  Role = "reviewer"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAnnotator, RoleReviewer, RoleAdmin:
		return r, true
	}
	return "", false
}

// CanClaim reports whether the role may take ownership of unclaimed tasks.
func CanClaim(r Role) bool {
	return r == RoleAnnotator || r == RoleAdmin
}

// CanReview reports whether the role may approve or reject submissions.
func CanReview(r Role) bool {
	return r == RoleReviewer || r == RoleAdmin
}

func IsAdmin(r Role) bool {
	return r == RoleAdmin
}
