package http

import (
	"net/http"
	"strconv"

	"itinera/internal/core"
)

type createTripRequest struct {
	Name     string   `json:"name"`
	Currency string   `json:"currency"`
	Members  []string `json:"members"`
}

type addDayRequest struct {
	DayNumber int    `json:"day_number"`
	Date      string `json:"date"`
}

type moveActivityRequest struct {
	ToIndex int `json:"to_index"`
}

type ledgerResponse struct {
	TripID     string                       `json:"trip_id"`
	Currency   string                       `json:"currency"`
	Total      core.Money                   `json:"total"`
	ByCategory map[core.Category]core.Money `json:"by_category"`
	Balances   map[string]core.Money        `json:"balances"`
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListTrips(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if trips == nil {
		trips = []core.Trip{}
	}
	writeJSON(w, http.StatusOK, trips)
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "invalid request body"})
		return
	}
	trip, err := s.trips.CreateTrip(r.Context(), req.Name, req.Currency, req.Members)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetTrip(r.Context(), r.PathValue("tripID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.trips.DeleteTrip(r.Context(), r.PathValue("tripID")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAddDay(w http.ResponseWriter, r *http.Request) {
	var req addDayRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "invalid request body"})
		return
	}
	day, err := s.trips.AddDay(r.Context(), r.PathValue("tripID"), req.DayNumber, req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, day)
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	dayNumber, ok := dayParam(w, r)
	if !ok {
		return
	}
	day, err := s.trips.GetDay(r.Context(), r.PathValue("tripID"), dayNumber)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	dayNumber, ok := dayParam(w, r)
	if !ok {
		return
	}
	var activity core.Activity
	if err := readJSON(r, &activity); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "invalid request body"})
		return
	}
	day, err := s.trips.AddActivity(r.Context(), r.PathValue("tripID"), dayNumber, activity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, day)
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	dayNumber, ok := dayParam(w, r)
	if !ok {
		return
	}
	var activity core.Activity
	if err := readJSON(r, &activity); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "invalid request body"})
		return
	}
	// The path wins over whatever id the body carries.
	activity.ID = r.PathValue("activityID")
	day, err := s.trips.UpdateActivity(r.Context(), r.PathValue("tripID"), dayNumber, activity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handleMoveActivity(w http.ResponseWriter, r *http.Request) {
	dayNumber, ok := dayParam(w, r)
	if !ok {
		return
	}
	var req moveActivityRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "invalid request body"})
		return
	}
	day, err := s.trips.MoveActivity(r.Context(), r.PathValue("tripID"), dayNumber, r.PathValue("activityID"), req.ToIndex)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	dayNumber, ok := dayParam(w, r)
	if !ok {
		return
	}
	day, err := s.trips.DeleteActivity(r.Context(), r.PathValue("tripID"), dayNumber, r.PathValue("activityID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	view, err := s.ledger.Summary(r.Context(), r.PathValue("tripID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerResponse{
		TripID:     view.TripID,
		Currency:   view.Currency,
		Total:      view.Total,
		ByCategory: view.ByCategory,
		Balances:   view.Balances,
	})
}

func dayParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	dayNumber, err := strconv.Atoi(r.PathValue("day"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "invalid day number"})
		return 0, false
	}
	return dayNumber, true
}
