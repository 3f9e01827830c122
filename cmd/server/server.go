package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"quizbank/config"
	"quizbank/db"
	"quizbank/handlers"
	"quizbank/services"
	"quizbank/services/genai"
	"quizbank/services/generate"

	"github.com/gorilla/mux"
)

const schemaPath = "sql/schema.sql"

func main() {
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DB_URL environment variable is required")
	}

	database, err := db.NewDatabase(cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.InitSchema(context.Background(), schemaPath); err != nil {
		log.Fatalf("Failed to apply database schema: %v", err)
	}

	taxonomyRepo := db.NewPostgresTaxonomyRepository(database)
	reviewRepo := db.NewPostgresReviewRepository(database)

	// Generation credentials are deliberately not validated here: requests
	// that need them fail with a 400 instead of keeping the read-only
	// endpoints offline.
	generateService := generate.NewService(cfg, genai.NewAnthropicClient(), taxonomyRepo)
	generateHandler := handlers.NewGenerateHandler(generateService)

	topicService := services.NewTopicService(reviewRepo)
	topicHandler := handlers.NewTopicHandler(topicService)

	reviewService := services.NewReviewService(reviewRepo, cfg.DefaultUserID)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(timingMiddleware)
	router.Use(jsonMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	generateHandler.RegisterRoutes(router)
	topicHandler.RegisterRoutes(router)
	reviewHandler.RegisterRoutes(router)

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	addr := ":" + cfg.Port
	fmt.Printf("Server starting on port %s\n", cfg.Port)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// timingMiddleware stamps every response with how long the handler took and
// logs one line per request.
func timingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &timedResponseWriter{ResponseWriter: w, start: start, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		log.Printf("[INFO] %s %s -> %d (%.1fms)", r.Method, r.URL.Path, recorder.status,
			float64(time.Since(start).Microseconds())/1000)
	})
}

// timedResponseWriter injects timing headers just before the status line is
// committed, since headers cannot be set afterwards.
type timedResponseWriter struct {
	http.ResponseWriter
	start       time.Time
	status      int
	wroteHeader bool
}

func (w *timedResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		elapsed := time.Since(w.start)
		w.Header().Set("X-Process-Time", fmt.Sprintf("%.6f", elapsed.Seconds()))
		w.Header().Set("X-Process-Time-Ms", fmt.Sprintf("%.2f", float64(elapsed.Microseconds())/1000))
		w.wroteHeader = true
		w.status = statusCode
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *timedResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
