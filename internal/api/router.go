package api

import (
	"net/http"
	"shop-directory-service/internal/api/handlers"
	"shop-directory-service/internal/ports"
)

// NewRouter wires the directory endpoints and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(dir handlers.Directory) http.Handler {
	mux := http.NewServeMux()

	dirHandler := &handlers.DirectoryHandler{Directory: dir}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/directory", dirHandler.Get)
	mux.HandleFunc("/directory/refresh", dirHandler.Refresh)
	mux.HandleFunc("/directory/category", dirHandler.Category)
	mux.HandleFunc("/directory/selection", dirHandler.Selection)
	mux.HandleFunc("/categories", dirHandler.Categories)
	mux.HandleFunc("/shops", dirHandler.Shops)

	return loggingMiddleware(mux)
}

// NewStubRouter serves stored shops in the remote API's shape for local runs.
func NewStubRouter(repo ports.ShopRepository, path string) http.Handler {
	mux := http.NewServeMux()

	stubHandler := &handlers.StubHandler{Repo: repo}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc(path, stubHandler.List)

	return loggingMiddleware(mux)
}
