package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	healthservice "companion/internal/healthsource/service"
	profilemodels "companion/internal/profile/models"
	profileservice "companion/internal/profile/service"
	profilestore "companion/internal/profile/store"
)

func TestUserDataSignedOut(t *testing.T) {
	profiles, err := profileservice.New(profilestore.NewInMemory())
	require.NoError(t, err)
	users := NewUserData(profiles)

	user, err := users.GetUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = users.AuthenticationSourcesString(context.Background())
	assert.Error(t, err)
}

func TestUserDataSignedIn(t *testing.T) {
	ctx := context.Background()
	profiles, err := profileservice.New(profilestore.NewInMemory())
	require.NoError(t, err)
	p, err := profiles.SignIn(ctx, profilemodels.SignInRequest{Email: "ada@example.com", AuthSource: "google"})
	require.NoError(t, err)
	_, err = profiles.LinkAuthSource(ctx, "Apple")
	require.NoError(t, err)

	users := NewUserData(profiles)

	user, err := users.GetUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, p.ID.String(), user.ID)

	sources, err := users.AuthenticationSourcesString(ctx)
	require.NoError(t, err)
	assert.Equal(t, "apple, google", sources)
}

func TestHealthSources(t *testing.T) {
	svc := healthservice.New()
	repo := NewHealthSources(svc)

	_, ok := repo.HealthSource()
	assert.False(t, ok)

	_, err := svc.Select(context.Background(), "google_fit")
	require.NoError(t, err)

	hs, ok := repo.HealthSource()
	require.True(t, ok)
	assert.Equal(t, "GoogleFit", hs.DiagnosticsName)
}
