package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/imkonsowa/restaurant-recommender/recommend"
)

const serviceName = "restaurant-recommender"

type Recommender interface {
	Recommend(ctx context.Context, q recommend.Query) (*recommend.Result, error)
}

type PlaceLister interface {
	Places() []string
}

type Handler struct {
	engine Recommender
	places PlaceLister
}

func NewHandler(engine Recommender, places PlaceLister) *Handler {
	return &Handler{
		engine: engine,
		places: places,
	}
}

func (h *Handler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
}

func (h *Handler) ListPlaces(ctx *gin.Context) {
	places := h.places.Places()
	if places == nil {
		places = []string{}
	}

	ctx.JSON(http.StatusOK, PlacesResponse{Total: len(places), Places: places})
}

func (h *Handler) Recommend(ctx *gin.Context) {
	var req RecommendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	query := req.ToQuery()
	if err := query.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		return
	}

	result, err := h.engine.Recommend(ctx.Request.Context(), query)
	switch {
	case errors.Is(err, recommend.ErrNoData):
		ctx.JSON(http.StatusOK, ErrorResponse{Error: recommend.ErrNoData.Error()})
	case err != nil:
		slog.Error("recommendation failed", "place", query.Place, "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	default:
		ctx.JSON(http.StatusOK, result)
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}

	return strings.Join(msgs, "; ")
}
