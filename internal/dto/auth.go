package dto

// Session identifies the authenticated student.
type Session struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	LoginHandle string `json:"login_handle"`
}

// AuthState is the persisted shape of the credential store.
type AuthState struct {
	User            *Session `json:"user"`
	IsAuthenticated bool     `json:"is_authenticated"`
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}
