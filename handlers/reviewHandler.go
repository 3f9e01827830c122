package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"quizbank/models"
	"quizbank/services"

	"github.com/gorilla/mux"
)

type ReviewHandler struct {
	service *services.ReviewService
}

func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sub_topics/{id:[0-9]+}/questions", h.SampleSubTopicQuestions).Methods("GET")
	router.HandleFunc("/questions/random", h.SampleRandomQuestions).Methods("GET")
	router.HandleFunc("/answers", h.SubmitAnswer).Methods("POST")
	router.HandleFunc("/streak", h.GetStreak).Methods("GET")
}

func (h *ReviewHandler) SampleSubTopicQuestions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subTopicID, err := strconv.Atoi(vars["id"])
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid sub-topic ID")
		return
	}

	questions, err := h.service.SampleSubTopicQuestions(r.Context(), subTopicID, queryLimit(r))
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to sample questions")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, questions)
}

func (h *ReviewHandler) SampleRandomQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.SampleRandomQuestions(r.Context(), queryLimit(r))
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to sample questions")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, questions)
}

func (h *ReviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.SubmitAnswer(r.Context(), &req)
	if err != nil {
		if err.Error() == "invalid_choice" {
			h.writeErrorResponse(w, http.StatusBadRequest, "invalid_choice")
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to record answer")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *ReviewHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := h.service.GetStreak(r.Context())
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to compute streak")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, streak)
}

// queryLimit parses the optional limit query parameter; the service clamps it.
func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}

func (h *ReviewHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *ReviewHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
