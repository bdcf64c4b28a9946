package handlers

import (
	"net/http"

	"github.com/matchday/prediction-pool/middleware"
	"github.com/matchday/prediction-pool/services"
)

type PredictionHandler struct {
	predictionService services.PredictionService
	groupTableService services.GroupTableService
}

func NewPredictionHandler(
	predictionService services.PredictionService,
	groupTableService services.GroupTableService,
) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		groupTableService: groupTableService,
	}
}

// Save upserts the authenticated friend's prediction for a match.
func (h *PredictionHandler) Save(w http.ResponseWriter, r *http.Request) {
	friendID, err := middleware.FriendIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to submit predictions")
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PredictionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	prediction, err := h.predictionService.Save(r.Context(), friendID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"prediction": prediction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PredictionHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	friendID, err := middleware.FriendIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	prediction, err := h.predictionService.GetByFriendAndMatch(r.Context(), friendID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"prediction": prediction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PredictionHandler) ListByStage(w http.ResponseWriter, r *http.Request) {
	friendID, err := getIDFromURL(r, "friendID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	predictions, err := h.predictionService.ListByFriendAndStage(r.Context(), friendID, stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"predictions": predictions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GroupTable returns the friend's self-consistency table for a group stage,
// built from their own predictions.
func (h *PredictionHandler) GroupTable(w http.ResponseWriter, r *http.Request) {
	friendID, err := getIDFromURL(r, "friendID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.groupTableService.GetTable(r.Context(), friendID, stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"table": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
