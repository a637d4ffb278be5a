package service

import (
	"context"
	"strings"
	"time"

	"github.com/reelhouse/cli/pkg/api"
	"github.com/reelhouse/cli/pkg/credentials"
	apperrors "github.com/reelhouse/cli/pkg/errors"
	"github.com/reelhouse/cli/pkg/formatter"
	"github.com/reelhouse/cli/pkg/logger"
	"github.com/reelhouse/cli/pkg/output"
	"github.com/reelhouse/cli/pkg/prompter"
	"github.com/reelhouse/cli/pkg/session"
)

type AuthService struct {
	app *App
}

func NewAuthService(app *App) *AuthService {
	return &AuthService{app: app}
}

// Login stores a token issued by the web app. With an empty token the user is
// prompted for it without echo.
func (s *AuthService) Login(ctx context.Context, token string) error {
	if s.app.Session.IsAuthenticated() {
		output.Warning("Already logged in, the stored token will be replaced")
	}

	if token == "" {
		var err error
		token, err = prompter.PromptPassword("Token: ")
		if err != nil {
			return err
		}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.Validation("token", "cannot be empty")
	}

	claims, err := session.Decode(token, s.app.Now())
	if err != nil {
		return err
	}

	s.app.Backend.SetToken(token)
	user, err := s.app.Backend.CurrentUser(ctx)
	if err != nil {
		s.app.Backend.SetToken("")
		if api.IsUnauthorized(err) {
			return apperrors.Unauthenticated("The server rejected this token")
		}
		return err
	}

	if err := s.app.Settings.SetSession(token, user.ID); err != nil {
		return err
	}
	if s.app.CredentialsPath != "" {
		creds := &credentials.Credentials{Token: token, UserID: user.ID, Username: user.Username}
		if claims.ExpiresAt != nil {
			creds.ExpiresAt = claims.ExpiresAt.Time
		}
		if err := credentials.SaveTo(s.app.CredentialsPath, creds); err != nil {
			logger.Warn("Failed to save credentials", "error", err)
		}
	}

	logger.Info("Logged in", "user_id", user.ID)
	output.Success("✓ Logged in as %s", formatter.Bold.Sprint(formatter.Username(*user)))
	return nil
}

// Logout forgets the stored token
func (s *AuthService) Logout() error {
	if !s.app.Session.IsAuthenticated() && s.app.Settings.Token() == "" {
		output.Warning("Not logged in")
		return nil
	}

	if err := s.app.Session.Invalidate(); err != nil {
		return err
	}
	if s.app.CredentialsPath != "" {
		if err := credentials.DeleteAt(s.app.CredentialsPath); err != nil {
			return err
		}
	}
	s.app.Backend.SetToken("")

	output.Success("✓ Logged out")
	return nil
}

// Status shows who is logged in
func (s *AuthService) Status(ctx context.Context) error {
	uid, ok := s.app.Session.CurrentUserID()
	if !ok {
		output.Warning("Not logged in")
		return nil
	}

	record := map[string]interface{}{"User ID": uid}
	if user, err := s.app.Session.CurrentUser(ctx); err == nil {
		record["Username"] = user.Username
		record["Followers"] = user.Followers.Len()
		record["Following"] = user.Following.Len()
	} else {
		logger.Debug("Could not fetch current user", "error", err)
	}

	if claims, err := session.Decode(s.app.Session.Token(), s.app.Now()); err == nil && claims.ExpiresAt != nil {
		record["Expires"] = claims.ExpiresAt.Time.Local().Format(time.RFC1123)
	}
	return output.Record("Session", record)
}
