package handlers

import (
	"net/http"

	"github.com/matchday/prediction-pool/services"
)

type PointsHandler struct {
	pointsService services.PointsService
}

func NewPointsHandler(pointsService services.PointsService) *PointsHandler {
	return &PointsHandler{pointsService: pointsService}
}

func (h *PointsHandler) AwardStagePoint(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		FriendID int `json:"friend_id"`
		Points   int `json:"points"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	point, err := h.pointsService.AwardStagePoint(r.Context(), input.FriendID, stageID, input.Points)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"stage_point": point}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PointsHandler) RevokeStagePoint(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "pointID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.pointsService.RevokeStagePoint(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PointsHandler) ListStagePoints(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	points, err := h.pointsService.ListStagePoints(r.Context(), stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stage_points": points}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PointsHandler) AwardTopScorerPoint(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		FriendID int `json:"friend_id"`
		Points   int `json:"points"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	point, err := h.pointsService.AwardTopScorerPoint(r.Context(), input.FriendID, matchID, input.Points)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"top_scorer_point": point}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PointsHandler) RevokeTopScorerPoint(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "pointID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.pointsService.RevokeTopScorerPoint(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
