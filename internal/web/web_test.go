package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "$999.99", Money(999.99))
	assert.Equal(t, "$1,000.00", Money(1000))
	assert.Equal(t, "$1,234,567.50", Money(1234567.5))
	assert.Equal(t, "-$12,000.00", Money(-12000))
}

func TestTemplatesDefinePages(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, page := range []string{
		PageLogin, PageNotAuthorized, PageHome, PageNotFound, PageError,
		PageOwners, PageOwnerDetails, PageOwnerProperty, PagePropertyDetails, PageAddImage,
		PageLessees, PageLesseeDetails, PageManagers, PageManagerDetails,
		PageUserCreate, PageUserEdit, PageUserDelete,
		PagePropertyTypes, PagePropertyTypeDetails, PagePropertyTypeForm, PagePropertyTypeDelete,
		PageContracts, PageContractDetails, PageContractForm, PageContractDelete,
	} {
		assert.NotNil(t, tmpl.Lookup(page), page)
	}
}

func TestNotFoundPageRendersAnonymously(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, PageNotFound, map[string]interface{}{"Title": "Not found"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<title>Not found - MyLeasing</title>")
	assert.Contains(t, buf.String(), `href="/Account/Login"`)
}

func TestDateInput(t *testing.T) {
	assert.Equal(t, "", dateInput(time.Time{}))
	assert.Equal(t, "2024-06-01", dateInput(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
}
