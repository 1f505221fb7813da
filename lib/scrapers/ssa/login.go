package ssa

// LoginRequest is the form posted to the university's single sign-on. It
// is built fresh for every request so no credentials outlive the call that
// needed them.
type LoginRequest struct {
	Username string
	Password string
	// where the sign-on redirects to after a successful login
	Destination string
}

func NewLoginRequest(username, password, destination string) LoginRequest {
	return LoginRequest{
		Username:    username,
		Password:    password,
		Destination: destination,
	}
}

func (r LoginRequest) FormData() map[string]string {
	return map[string]string{
		"appRealm":     "usyd",
		"appID":        "ssa-flexsis",
		"Submit":       "Log in",
		"destURL":      r.Destination,
		"credential_0": r.Username,
		"credential_1": r.Password,
	}
}
