package recommend

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})

	return validate
}

// Query holds one request's criteria. An empty Cuisine and nil pointers mean
// the filter was not supplied.
type Query struct {
	Place     string   `json:"place" validate:"required"`
	Cuisine   string   `json:"cuisine,omitempty"`
	MaxPrice  *int     `json:"max_price,omitempty" validate:"omitempty,min=0"`
	MinRating *float64 `json:"min_rating,omitempty" validate:"omitempty,min=0,max=5"`
}

// Normalize trims free-text fields so that whitespace-only values count as unset.
func (q Query) Normalize() Query {
	q.Place = strings.TrimSpace(q.Place)
	q.Cuisine = strings.TrimSpace(q.Cuisine)

	return q
}

func (q Query) Validate() error {
	return getValidator().Struct(q)
}
