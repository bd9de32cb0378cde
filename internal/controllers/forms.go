package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/internal/services"
)

type LoginForm struct {
	Username   string `form:"Username" binding:"required,email"`
	Password   string `form:"Password" binding:"required,min=6"`
	RememberMe bool   `form:"RememberMe"`
	ReturnUrl  string `form:"ReturnUrl"`
}

type EditUserForm struct {
	Document    string `form:"Document" binding:"required,max=20"`
	FirstName   string `form:"FirstName" binding:"required,max=50"`
	LastName    string `form:"LastName" binding:"required,max=50"`
	Address     string `form:"Address" binding:"max=100"`
	PhoneNumber string `form:"PhoneNumber" binding:"max=20"`
}

func editUserFormOf(u *models.User) EditUserForm {
	return EditUserForm{
		Document:    u.Document,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
	}
}

func (f EditUserForm) profile() services.UserProfile {
	return services.UserProfile{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Document:    f.Document,
		Address:     f.Address,
		PhoneNumber: f.PhoneNumber,
	}
}

// AddUserForm registers a new owner, lessee or manager. Username is the email.
type AddUserForm struct {
	Document        string `form:"Document" binding:"required,max=20"`
	FirstName       string `form:"FirstName" binding:"required,max=50"`
	LastName        string `form:"LastName" binding:"required,max=50"`
	Address         string `form:"Address" binding:"max=100"`
	PhoneNumber     string `form:"PhoneNumber" binding:"max=20"`
	Username        string `form:"Username" binding:"required,email,max=100"`
	Password        string `form:"Password" binding:"required,min=6,max=20"`
	PasswordConfirm string `form:"PasswordConfirm" binding:"required,eqfield=Password"`
}

func (f AddUserForm) newUser() services.NewUser {
	return services.NewUser{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Document:    f.Document,
		Address:     f.Address,
		Email:       f.Username,
		PhoneNumber: f.PhoneNumber,
		Password:    f.Password,
	}
}

type PropertyForm struct {
	OwnerID        uint    `form:"OwnerId"`
	PropertyTypeID uint    `form:"PropertyTypeId" binding:"required"`
	Neighborhood   string  `form:"Neighborhood" binding:"required,max=50"`
	Address        string  `form:"Address" binding:"required,max=50"`
	Price          float64 `form:"Price" binding:"gt=0"`
	SquareMeters   int     `form:"SquareMeters" binding:"gt=0"`
	Rooms          int     `form:"Rooms" binding:"gt=0"`
	Stratum        int     `form:"Stratum" binding:"gte=1,lte=6"`
	HasParkingLot  bool    `form:"HasParkingLot"`
	IsAvailable    bool    `form:"IsAvailable"`
	Remarks        string  `form:"Remarks"`
}

func propertyFormOf(p *models.Property) PropertyForm {
	return PropertyForm{
		OwnerID:        p.OwnerID,
		PropertyTypeID: p.PropertyTypeID,
		Neighborhood:   p.Neighborhood,
		Address:        p.Address,
		Price:          p.Price,
		SquareMeters:   p.SquareMeters,
		Rooms:          p.Rooms,
		Stratum:        p.Stratum,
		HasParkingLot:  p.HasParkingLot,
		IsAvailable:    p.IsAvailable,
		Remarks:        p.Remarks,
	}
}

func (f PropertyForm) input() services.PropertyInput {
	return services.PropertyInput{
		OwnerID:        f.OwnerID,
		PropertyTypeID: f.PropertyTypeID,
		Neighborhood:   f.Neighborhood,
		Address:        f.Address,
		Price:          f.Price,
		SquareMeters:   f.SquareMeters,
		Rooms:          f.Rooms,
		Stratum:        f.Stratum,
		HasParkingLot:  f.HasParkingLot,
		IsAvailable:    f.IsAvailable,
		Remarks:        f.Remarks,
	}
}

type PropertyTypeForm struct {
	Name string `form:"Name" binding:"required,max=50"`
}

type ContractForm struct {
	OwnerID    uint      `form:"OwnerId" binding:"required"`
	PropertyID uint      `form:"PropertyId" binding:"required"`
	LesseeID   uint      `form:"LesseeId" binding:"required"`
	Price      float64   `form:"Price" binding:"gt=0"`
	StartDate  time.Time `form:"StartDate" time_format:"2006-01-02" time_utc:"1" binding:"required"`
	EndDate    time.Time `form:"EndDate" time_format:"2006-01-02" time_utc:"1" binding:"required,gtefield=StartDate"`
	IsActive   bool      `form:"IsActive"`
	Remarks    string    `form:"Remarks"`
}

func contractFormOf(ct *models.Contract) ContractForm {
	return ContractForm{
		OwnerID:    ct.OwnerID,
		PropertyID: ct.PropertyID,
		LesseeID:   ct.LesseeID,
		Price:      ct.Price,
		StartDate:  ct.StartDate,
		EndDate:    ct.EndDate,
		IsActive:   ct.IsActive,
		Remarks:    ct.Remarks,
	}
}

func (f ContractForm) input() services.ContractInput {
	return services.ContractInput{
		OwnerID:    f.OwnerID,
		LesseeID:   f.LesseeID,
		PropertyID: f.PropertyID,
		Remarks:    f.Remarks,
		Price:      f.Price,
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		IsActive:   f.IsActive,
	}
}

var displayNames = map[string]string{
	"Username":        "Email",
	"PasswordConfirm": "Password Confirm",
	"PropertyTypeID":  "Property Type",
}

// displayName turns a form field name into the label shown on the page.
func displayName(field string) string {
	if name, ok := displayNames[field]; ok {
		return name
	}
	field = strings.TrimSuffix(field, "ID")
	var b strings.Builder
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// validationMessages explains a binding error in terms of the form labels.
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"The submitted form is not valid."}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := displayName(fe.Field())
		switch fe.Tag() {
		case "required":
			if strings.HasSuffix(fe.Field(), "ID") {
				msgs = append(msgs, fmt.Sprintf("You must select %s.", withArticle(strings.ToLower(name))))
			} else {
				msgs = append(msgs, fmt.Sprintf("The field %s is mandatory.", name))
			}
		case "email":
			msgs = append(msgs, fmt.Sprintf("The field %s must be a valid email.", name))
		case "max":
			msgs = append(msgs, fmt.Sprintf("The field %s must have a maximum length of %s characters.", name, fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("The field %s must have a minimum length of %s characters.", name, fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("The field %s must be greater than %s.", name, fe.Param()))
		case "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("The field %s is out of range.", name))
		case "eqfield":
			msgs = append(msgs, "The password and confirmation password do not match.")
		case "gtefield":
			msgs = append(msgs, fmt.Sprintf("The %s must not be before the %s.", strings.ToLower(name), strings.ToLower(displayName(fe.Param()))))
		default:
			msgs = append(msgs, fmt.Sprintf("The field %s is not valid.", name))
		}
	}
	return msgs
}

func withArticle(noun string) string {
	if noun != "" && strings.ContainsRune("aeiou", rune(noun[0])) {
		return "an " + noun
	}
	return "a " + noun
}
