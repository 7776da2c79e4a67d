package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "companion/pkg/domain-errors"
)

func TestUpdateProfileRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     UpdateProfileRequest
		wantErr string
	}{
		{name: "valid", req: UpdateProfileRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}},
		{name: "missing first name", req: UpdateProfileRequest{LastName: "Lovelace", Email: "ada@example.com"}, wantErr: "first_name is required"},
		{name: "missing last name", req: UpdateProfileRequest{FirstName: "Ada", Email: "ada@example.com"}, wantErr: "last_name is required"},
		{name: "missing email", req: UpdateProfileRequest{FirstName: "Ada", LastName: "Lovelace"}, wantErr: "email is required"},
		{name: "email without at", req: UpdateProfileRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada.example.com"}, wantErr: "email is invalid"},
		{name: "email with display name", req: UpdateProfileRequest{FirstName: "Ada", LastName: "Lovelace", Email: "Ada <ada@example.com>"}, wantErr: "email is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalize(t *testing.T) {
	req := UpdateProfileRequest{FirstName: "  Ada ", LastName: " Lovelace", Email: " ADA@Example.com "}
	req.Normalize()
	assert.Equal(t, UpdateProfileRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, req)

	signIn := SignInRequest{Email: "ADA@example.com", AuthSource: " Apple "}
	signIn.Normalize()
	assert.Equal(t, "apple", signIn.AuthSource)
	assert.NoError(t, signIn.Validate())
}

func TestHasAuthSource(t *testing.T) {
	p := Profile{AuthSources: []string{"apple", "Google"}}
	assert.True(t, p.HasAuthSource("google"))
	assert.False(t, p.HasAuthSource("facebook"))
}
