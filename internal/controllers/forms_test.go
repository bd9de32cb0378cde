package controllers

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "First Name", displayName("FirstName"))
	assert.Equal(t, "Email", displayName("Username"))
	assert.Equal(t, "Owner", displayName("OwnerID"))
	assert.Equal(t, "Property Type", displayName("PropertyTypeID"))
	assert.Equal(t, "Price", displayName("Price"))
}

func TestValidationMessages(t *testing.T) {
	form := AddUserForm{
		Document:        "1010",
		LastName:        "Zuluaga",
		Username:        "juan",
		Password:        "123456",
		PasswordConfirm: "654321",
	}
	err := binding.Validator.ValidateStruct(&form)
	require.Error(t, err)

	msgs := validationMessages(err)
	assert.Contains(t, msgs, "The field First Name is mandatory.")
	assert.Contains(t, msgs, "The field Email must be a valid email.")
	assert.Contains(t, msgs, "The password and confirmation password do not match.")
}

func TestValidationMessagesForSelects(t *testing.T) {
	form := ContractForm{Price: 10}
	err := binding.Validator.ValidateStruct(&form)
	require.Error(t, err)

	msgs := validationMessages(err)
	assert.Contains(t, msgs, "You must select an owner.")
	assert.Contains(t, msgs, "You must select a property.")
	assert.Contains(t, msgs, "You must select a lessee.")
	assert.Contains(t, msgs, "The field Start Date is mandatory.")
}

func TestValidationMessagesFallback(t *testing.T) {
	assert.Equal(t, []string{"The submitted form is not valid."}, validationMessages(errors.New("strconv.ParseFloat: invalid syntax")))
}
