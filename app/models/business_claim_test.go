package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessClaimValidate(t *testing.T) {
	tests := []struct {
		name    string
		claim   BusinessClaim
		wantErr bool
	}{
		{name: "minimal", claim: BusinessClaim{Role: "Owner"}},
		{name: "full", claim: BusinessClaim{Role: "Manager", Phone: "+1 555 0100", Email: "owner@example.com", Message: "I run this place"}},
		{name: "missing role", claim: BusinessClaim{Email: "owner@example.com"}, wantErr: true},
		{name: "bad email", claim: BusinessClaim{Role: "Owner", Email: "not-an-email"}, wantErr: true},
		{name: "short phone", claim: BusinessClaim{Role: "Owner", Phone: "12"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.claim.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBusinessClaimBeforeCreateKeepsUUID(t *testing.T) {
	c := &BusinessClaim{}
	assert.NoError(t, c.BeforeCreate(nil))
	assert.Len(t, c.UUID, 36)

	first := c.UUID
	assert.NoError(t, c.BeforeCreate(nil))
	assert.Equal(t, first, c.UUID)
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).FullName())
	assert.Equal(t, "Lovelace", (&User{LastName: "Lovelace"}).FullName())
}
