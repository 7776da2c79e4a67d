package adapters

import (
	"context"
	"fmt"

	"companion/internal/diagnostics/ports"
	profilemodels "companion/internal/profile/models"
	dErrors "companion/pkg/domain-errors"
	"companion/pkg/platform/strings"
)

// NoAuthSources is reported when the user has no linked providers.
const NoAuthSources = "none"

var _ ports.UserDataRepository = (*UserData)(nil)

// ProfileReader is the part of the profile service diagnostics reads.
type ProfileReader interface {
	GetProfile(ctx context.Context) (*profilemodels.Profile, error)
}

// UserData implements ports.UserDataRepository over the profile service.
type UserData struct {
	profiles ProfileReader
}

func NewUserData(profiles ProfileReader) *UserData {
	return &UserData{profiles: profiles}
}

// GetUser returns nil without error when nobody is signed in.
func (u *UserData) GetUser(ctx context.Context) (*ports.User, error) {
	p, err := u.profiles.GetProfile(ctx)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return nil, nil
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &ports.User{ID: p.ID.String()}, nil
}

// AuthenticationSourcesString lists the linked providers, sorted and joined
// with ", ".
func (u *UserData) AuthenticationSourcesString(ctx context.Context) (string, error) {
	p, err := u.profiles.GetProfile(ctx)
	if err != nil {
		return "", fmt.Errorf("load profile: %w", err)
	}
	return strings.JoinSorted(p.AuthSources, ", ", NoAuthSources), nil
}
