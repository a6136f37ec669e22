package models

// Insight is an ephemeral dashboard entry, recomputed on demand from the
// current room/issue snapshot. Never persisted.
type Insight struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// User is the current-user record kept alongside rooms and issues.
type User struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
