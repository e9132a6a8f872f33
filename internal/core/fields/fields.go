// Package fields registers the built-in business-field catalog.
//
// Import it for side effects:
//
//	import _ "github.com/JonMunkholm/datalens/internal/core/fields"
//
// Registration order is catalog order, and catalog order breaks scoring ties,
// so the groups below are listed from most to least commonly uploaded.
package fields

import "github.com/JonMunkholm/datalens/internal/core"

func init() {
	groups := [][]core.BusinessField{
		financial,
		sales,
		customer,
		product,
		inventory,
		marketing,
		operations,
		humanResources,
		geography,
		timeFields,
		webAnalytics,
		support,
	}
	for _, group := range groups {
		for _, f := range group {
			core.Register(f)
		}
	}
}

// in stamps a category onto a group of field definitions.
func in(category string, defs ...core.BusinessField) []core.BusinessField {
	for i := range defs {
		defs[i].Category = category
	}
	return defs
}

func field(id, name string, dt core.DataType, description string, examples ...string) core.BusinessField {
	return core.BusinessField{
		ID:          id,
		Name:        name,
		Description: description,
		DataType:    dt,
		Examples:    examples,
	}
}

const (
	str  = core.TypeString
	num  = core.TypeNumber
	date = core.TypeDate
	flag = core.TypeBoolean
)
