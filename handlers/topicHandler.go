package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"quizbank/services"

	"github.com/gorilla/mux"
)

type TopicHandler struct {
	service *services.TopicService
}

func NewTopicHandler(service *services.TopicService) *TopicHandler {
	return &TopicHandler{service: service}
}

func (h *TopicHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/topics", h.ListTopics).Methods("GET")
	router.HandleFunc("/topics/{id:[0-9]+}/sub_topics", h.ListSubTopics).Methods("GET")
}

func (h *TopicHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.ListTopics(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to list topics")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, topics)
}

func (h *TopicHandler) ListSubTopics(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	topicID, err := strconv.Atoi(vars["id"])
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid topic ID")
		return
	}

	subTopics, err := h.service.ListSubTopics(r.Context(), topicID)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to list sub-topics")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, subTopics)
}

func (h *TopicHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *TopicHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
