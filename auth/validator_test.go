package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		req        RegisterAccountRequest
		wantFields []string
	}{
		{name: "valid", req: RegisterAccountRequest{"asd@asd.com", "yes", "aA12testTest"}},
		{name: "valid short upper", req: RegisterAccountRequest{"email@gmail.com", "yes", "aA12aaaaaa"}},
		{
			name:       "single lowercase letter",
			req:        RegisterAccountRequest{"email@gmail.com", "yes", "a"},
			wantFields: []string{"password", "password", "password"},
		},
		{
			name:       "everything wrong",
			req:        RegisterAccountRequest{"email", "user name", ""},
			wantFields: []string{"email", "userName", "password", "password", "password"},
		},
		{name: "missing tld", req: RegisterAccountRequest{"email@sdf", "yes", "aA12testTest"}, wantFields: []string{"email"}},
		{name: "empty username", req: RegisterAccountRequest{"a@b.com", "", "aA12testTest"}, wantFields: []string{"userName"}},
		{
			name:       "long username",
			req:        RegisterAccountRequest{"a@b.com", "long_name_that_exceeds_24_characters", "aA12testTest"},
			wantFields: []string{"userName"},
		},
		{name: "no digit", req: RegisterAccountRequest{"a@b.com", "u", "aAbcdefgh"}, wantFields: []string{"password"}},
		{name: "no upper", req: RegisterAccountRequest{"a@b.com", "u", "a1bcdefgh"}, wantFields: []string{"password"}},
		{name: "too long", req: RegisterAccountRequest{"a@b.com", "u", "aA1" + strings.Repeat("x", 70)}, wantFields: []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			var fields []string
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidator_SingleLetterPasswordMessages(t *testing.T) {
	err := NewValidator().Validate(RegisterAccountRequest{"email@gmail.com", "yes", "a"})

	assert.Equal(t, ValidationErrors{
		{Field: "password", Message: "must be at least 8 characters long"},
		{Field: "password", Message: "must contain an upper-case letter"},
		{Field: "password", Message: "must contain a digit"},
	}, err)
}

func TestValidator_CustomRules(t *testing.T) {
	v := NewValidator(Rule{"userName", "must not be admin", func(r RegisterAccountRequest) bool {
		return r.Username != "admin"
	}})

	assert.NoError(t, v.Validate(RegisterAccountRequest{Username: "u"}))
	assert.EqualError(t, v.Validate(RegisterAccountRequest{Username: "admin"}), "validation failed: userName must not be admin")
}
