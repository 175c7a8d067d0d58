package rbac

// Claim names. Keep these stable; they are set on user accounts by the identity provider.
const (
	ClaimAdmin = "admin"
)
