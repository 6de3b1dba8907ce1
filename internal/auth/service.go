// internal/auth/service.go
package auth

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"kingdomseekers/internal/clients"
)

// FallbackLoginMessage is shown when a failed login carries no server message.
const FallbackLoginMessage = "Login failed. Please check your credentials."

// LoginError is a failed login with the message meant for the user.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is what /auth/login returns.
type LoginResponse struct {
	Token string `json:"token"`
}

// Service logs users in and out.
type Service struct {
	client clients.Doer
	store  Store
	logger *zap.Logger
}

func NewService(client clients.Doer, store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, store: store, logger: logger}
}

// Login exchanges credentials for a bearer token and stores it.
// On failure nothing is stored and a *LoginError is returned.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	var resp LoginResponse
	err := s.client.Do(ctx, clients.Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      Credentials{Email: email, Password: password},
		Anonymous: true,
	}, &resp)
	if err != nil {
		s.logger.Warn("login failed", zap.String("email", email), zap.Error(err))
		return "", &LoginError{Message: LoginMessage(err), Err: err}
	}

	if resp.Token != "" {
		if err := s.store.Set(ctx, resp.Token); err != nil {
			return "", fmt.Errorf("failed to store token: %w", err)
		}
	}
	s.logger.Info("logged in", zap.String("email", email))
	return resp.Token, nil
}

// Logout forgets the stored token.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// LoginMessage derives the user-facing message for a failed login.
func LoginMessage(err error) string {
	if msg := clients.ServerMessage(err); msg != "" {
		return msg
	}
	return FallbackLoginMessage
}
