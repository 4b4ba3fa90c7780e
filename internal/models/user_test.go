package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.Role
		wantErr bool
	}{
		{name: "client", input: "CLIENT", want: models.RoleClient},
		{name: "operative", input: "OPERATIVE", want: models.RoleOperative},
		{name: "admin", input: "ADMIN", want: models.RoleAdmin},
		{name: "lowercase rejected", input: "client", wantErr: true},
		{name: "unknown rejected", input: "SUPERUSER", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := models.ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRolePredicates(t *testing.T) {
	assert.True(t, models.RoleAdmin.IsAdmin())
	assert.False(t, models.RoleOperative.IsAdmin())
	assert.False(t, models.RoleClient.IsAdmin())

	assert.True(t, models.RoleAdmin.IsOperativeOrAdmin())
	assert.True(t, models.RoleOperative.IsOperativeOrAdmin())
	assert.False(t, models.RoleClient.IsOperativeOrAdmin())
}
