package httpapi

import "github.com/go-chi/chi/v5"

// Routes registers every API endpoint on r
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.HandleHealth)

	// Company directory; the first path is the one the page's loader calls
	r.Get("/retrieve_companies/", h.HandleCompanies)
	r.Get("/api/get/companies", h.HandleCompanies)

	r.Get("/api/search", h.HandleSearch)
	r.Get("/search/results", h.HandleSearchResults)

	r.Post("/api/modify/follow", h.HandleFollow)
	r.Get("/api/get/follows", h.HandleFollows)

	r.Get("/api/get/notifications", h.HandleNotifications)
	r.Delete("/api/delete/notification/{id}", h.HandleDeleteNotification)
	r.Delete("/api/delete/notifications", h.HandleDeleteNotifications)
	r.Get("/api/ws/notifications", h.HandleNotificationStream)

	r.Get("/api/get/articles", h.HandleArticles)
	r.Get("/api/get/sentiment/{ticker}", h.HandleSentiment)
	r.Post("/api/ingest/article", h.HandleIngestArticle)
}
