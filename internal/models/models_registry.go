package models

// ModelTypeRegistry names every persisted model.
var ModelTypeRegistry = map[string]interface{}{
	"User":          User{},
	"PropertyType":  PropertyType{},
	"Owner":         Owner{},
	"Lessee":        Lessee{},
	"Manager":       Manager{},
	"Property":      Property{},
	"PropertyImage": PropertyImage{},
	"Contract":      Contract{},
}

// CreationOrder lists the models so that every table comes after the tables it references.
func CreationOrder() []interface{} {
	return []interface{}{
		&User{},
		&PropertyType{},
		&Owner{},
		&Lessee{},
		&Manager{},
		&Property{},
		&PropertyImage{},
		&Contract{},
	}
}
