package httpapi

import "time"

// Wire contract: field names follow the pre-existing clients
// (email/password/nickname for identities, source/target/message for sends).

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type updateUserRequest struct {
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sendMessageRequest struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Message string `json:"message"`
}

type userResponse struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type messageResponse struct {
	Source  string    `json:"source"`
	Target  string    `json:"target"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

type statusResponse struct {
	Message string `json:"message"`
	meta
}

type userDetailResponse struct {
	userResponse
	meta
}

type listUsersResponse struct {
	Users []userResponse `json:"users"`
	meta
}

type authResponse struct {
	Token string `json:"token"`
	meta
}

type listMessagesResponse struct {
	Messages []messageResponse `json:"messages"`
	meta
}
