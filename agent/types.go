package main

import (
	"github.com/imkonsowa/restaurant-recommender/recommend"
)

type RecommendRequest struct {
	Place     string   `json:"place"`
	Cuisine   *string  `json:"cuisine"`
	MaxPrice  *int     `json:"max_price"`
	MinRating *float64 `json:"min_rating"`
}

func (r *RecommendRequest) ToQuery() recommend.Query {
	q := recommend.Query{
		Place:     r.Place,
		MaxPrice:  r.MaxPrice,
		MinRating: r.MinRating,
	}
	if r.Cuisine != nil {
		q.Cuisine = *r.Cuisine
	}

	return q.Normalize()
}

type PlacesResponse struct {
	Total  int      `json:"total"`
	Places []string `json:"places"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
