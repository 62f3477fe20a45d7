package validators

import (
	"testing"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Group(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.CreateGroupRequest{Title: "Cats", Slug: "cats_2-x"}))

	err := v.Validate(&models.CreateGroupRequest{Title: "", Slug: "not a slug"})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "This field is required.", verr.Fields["title"])
	assert.Contains(t, verr.Fields["slug"], "valid slug")
}

func TestValidate_Signup(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.CreateLocalUserRequest{Username: "leo.t+1@x", Password: "long-enough"}))

	err := v.Validate(&models.CreateLocalUserRequest{Username: "bad name!", Email: "nope", Password: "short"})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Equal(t, "Enter a valid email address.", verr.Fields["email"])
	assert.Equal(t, "Ensure this value has at least 8 characters.", verr.Fields["password"])
}

func TestValidate_BlankText(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		input any
		field string
	}{
		{"group title", &models.CreateGroupRequest{Title: "   ", Slug: "s"}, "title"},
		{"post text", &models.PostRequest{Text: " \n\t"}, "text"},
		{"comment text", &models.CreateCommentRequest{Text: "  "}, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *services.ValidationError
			require.ErrorAs(t, v.Validate(tt.input), &verr)
			assert.Equal(t, "This field is required.", verr.Fields[tt.field])
		})
	}

	assert.NoError(t, v.Validate(&models.PostRequest{Text: "Test text"}))
	assert.NoError(t, v.Validate(&models.CreateCommentRequest{Text: "ok"}))
}
