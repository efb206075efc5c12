package api

import (
	"database/sql"
	"net/http"

	"github.com/sirupsen/logrus"

	"bytecart/internal/media"
	"bytecart/internal/metrics"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, mediaStore *media.Store, logger *logrus.Logger) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, Logger: logger}
	itemsHandler := &ItemsHandler{DB: db, Logger: logger}
	uploadHandler := &UploadHandler{Media: mediaStore, Logger: logger}

	authMW := AuthMiddleware(jwtSecret)

	// Public: registration and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))

	// Items (owner-scoped, authenticated).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/expiring", authMW(http.HandlerFunc(itemsHandler.Expiring)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("POST /api/items/upload-image", authMW(http.HandlerFunc(uploadHandler.UploadImage)))

	// Uploaded images.
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(mediaStore.Dir))))

	// Operational endpoints.
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"message": "ByteCart backend is running"})
	})

	return mux
}
