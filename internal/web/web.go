package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beesaferoot/myleasing/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names as defined in the templates.
const (
	PageLogin         = "account/login"
	PageNotAuthorized = "account/not-authorized"
	PageHome          = "home/index"
	PageNotFound      = "errors/not-found"
	PageError         = "errors/error"

	PageOwners          = "owners/index"
	PageOwnerDetails    = "owners/details"
	PageOwnerProperty   = "owners/property-form"
	PagePropertyDetails = "owners/property-details"
	PageAddImage        = "owners/add-image"

	PageLessees       = "lessees/index"
	PageLesseeDetails = "lessees/details"

	PageManagers       = "managers/index"
	PageManagerDetails = "managers/details"

	PageUserCreate = "users/create"
	PageUserEdit   = "users/edit"
	PageUserDelete = "users/delete"

	PagePropertyTypes       = "property-types/index"
	PagePropertyTypeDetails = "property-types/details"
	PagePropertyTypeForm    = "property-types/form"
	PagePropertyTypeDelete  = "property-types/delete"

	PageContracts       = "contracts/index"
	PageContractDetails = "contracts/details"
	PageContractForm    = "contracts/form"
	PageContractDelete  = "contracts/delete"
)

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"money":     Money,
	"decimal":   func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"date":      func(t time.Time) string { return t.Format("Jan 02, 2006") },
	"dateInput": func(t time.Time) string { return dateInput(t) },
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
	"isManager": func(role string) bool { return role == models.RoleManager },
}

// Templates parses every page.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("myleasing").Funcs(Funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Static serves the embedded stylesheet.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Money renders 1234567.5 as $1,234,567.50.
func Money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

func dateInput(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
