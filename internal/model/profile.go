package model

// UserProfile holds the single per-installation user identity, created during
// onboarding and mutable afterwards. When a remote identity exists the
// profile is mirrored to the backend profiles table.
type UserProfile struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Email   string `json:"email,omitempty"`
	Age     string `json:"age"`
	Country string `json:"country"`
}
