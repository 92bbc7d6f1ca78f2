package recommend

import (
	"errors"

	"github.com/imkonsowa/restaurant-recommender/llm"
	"github.com/imkonsowa/restaurant-recommender/models"
)

var ErrNoData = errors.New("no data available")

// Result is a successful recommendation. Narrative is nil when the completion
// failed, in which case NarrativeError names the failure kind.
type Result struct {
	Candidates     []models.Restaurant `json:"candidates"`
	Narrative      *string             `json:"narrative"`
	Fallback       bool                `json:"fallback"`
	NarrativeError llm.FailureKind     `json:"narrative_error,omitempty"`
}

// Assemble combines the candidates with the completion outcome. Completion
// errors never fail the result; only an empty candidate list does.
func Assemble(list CandidateList, narrative string, completionErr error) (*Result, error) {
	if list.Len() == 0 {
		return nil, ErrNoData
	}

	result := &Result{
		Candidates: list.Restaurants,
		Fallback:   list.Fallback,
	}

	if completionErr != nil {
		result.NarrativeError = llm.KindOf(completionErr)
		return result, nil
	}

	result.Narrative = &narrative

	return result, nil
}
