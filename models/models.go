package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var ErrInvalidRestaurant = errors.New("invalid restaurant record")

// Restaurant is a cleaned catalog record. Rate and ApproxCost are nil when unknown.
type Restaurant struct {
	ID         uint64         `gorm:"primaryKey" json:"-"`
	Name       string         `gorm:"not null" json:"name"`
	Location   string         `gorm:"not null;index" json:"location"`
	Cuisines   pq.StringArray `gorm:"type:text[];not null" json:"cuisines"`
	Rate       *float64       `json:"rate"`
	ApproxCost *int           `json:"approx_cost"`
	Votes      int            `gorm:"not null;default:0" json:"votes"`
	RestType   string         `json:"rest_type,omitempty"`
}

func (r *Restaurant) TableName() string {
	return "restaurants"
}

// Validate checks the invariants every catalog record must hold after cleaning.
func (r *Restaurant) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidRestaurant)
	case strings.TrimSpace(r.Location) == "":
		return fmt.Errorf("%w: %q has no location", ErrInvalidRestaurant, r.Name)
	case len(r.Cuisines) == 0:
		return fmt.Errorf("%w: %q has no cuisines", ErrInvalidRestaurant, r.Name)
	case r.Rate != nil && !(*r.Rate >= 0 && *r.Rate <= 5):
		return fmt.Errorf("%w: %q has rate %v outside [0, 5]", ErrInvalidRestaurant, r.Name, *r.Rate)
	case r.ApproxCost != nil && *r.ApproxCost < 0:
		return fmt.Errorf("%w: %q has negative cost %d", ErrInvalidRestaurant, r.Name, *r.ApproxCost)
	case r.Votes < 0:
		return fmt.Errorf("%w: %q has negative votes %d", ErrInvalidRestaurant, r.Name, r.Votes)
	}

	return nil
}

func (r *Restaurant) Stringify() string {
	rate := "N/A"
	if r.Rate != nil {
		rate = fmt.Sprintf("%.1f", *r.Rate)
	}
	cost := "N/A"
	if r.ApproxCost != nil {
		cost = fmt.Sprintf("%d", *r.ApproxCost)
	}

	return fmt.Sprintf("Restaurant: %s, Location: %s, Cuisines: %s, Rating: %s, Votes: %d, Cost for two: %s",
		r.Name, r.Location, strings.Join(r.Cuisines, ", "), rate, r.Votes, cost)
}
