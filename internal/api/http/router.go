package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"skirent-backend/internal/security"
	"skirent-backend/internal/service"
	"skirent-backend/internal/storage"
)

// Services are the application services exposed over HTTP.
type Services struct {
	Auth          service.AuthService
	Profile       service.ProfileService
	Materials     service.MaterialService
	Clients       service.ClientService
	Reservations  service.ReservationService
	Notifications service.NotificationService
}

type RouterOptions struct {
	Tokens         security.TokenManager
	Images         storage.ImageStore
	MaxUploadBytes int64
	Observer       RequestObserver
	Metrics        http.Handler // nil disables the metrics endpoint
	MetricsPath    string
}

// NewRouter builds the REST API. Routes under /api/v1 go through AuthMiddleware;
// health, metrics and image downloads are public.
func NewRouter(svc Services, opts RouterOptions) *mux.Router {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware, LoggingMiddleware(opts.Observer))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if opts.Metrics != nil && opts.MetricsPath != "" {
		router.Handle(opts.MetricsPath, opts.Metrics).Methods(http.MethodGet)
	}
	if opts.Images != nil {
		router.HandleFunc("/uploads/{key:.+}", NewImageHandler(opts.Images).Download).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(opts.Tokens))

	auth := NewAuthHandler(svc.Auth, svc.Profile)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", auth.RefreshToken).Methods(http.MethodPost)
	api.HandleFunc("/me", auth.GetMe).Methods(http.MethodGet)
	api.HandleFunc("/me", auth.UpdateMe).Methods(http.MethodPatch)

	materials := NewMaterialHandler(svc.Materials, opts.MaxUploadBytes)
	api.HandleFunc("/materials", materials.List).Methods(http.MethodGet)
	api.HandleFunc("/materials", materials.Create).Methods(http.MethodPost)
	api.HandleFunc("/materials/{id}", materials.Get).Methods(http.MethodGet)
	api.HandleFunc("/materials/{id}", materials.Update).Methods(http.MethodPatch)
	api.HandleFunc("/materials/{id}", materials.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/materials/{id}/image", materials.UploadImage).Methods(http.MethodPut)
	api.HandleFunc("/categories", materials.ListCategories).Methods(http.MethodGet)

	clients := NewClientHandler(svc.Clients)
	api.HandleFunc("/roles", clients.ListRoles).Methods(http.MethodGet)
	api.HandleFunc("/clients", clients.List).Methods(http.MethodGet)
	api.HandleFunc("/clients", clients.Create).Methods(http.MethodPost)
	api.HandleFunc("/clients/{id}", clients.Get).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}", clients.Update).Methods(http.MethodPatch)
	api.HandleFunc("/clients/{id}", clients.Delete).Methods(http.MethodDelete)

	reservations := NewReservationHandler(svc.Reservations)
	// fixed paths first so they are not taken for an {id}
	api.HandleFunc("/reservations/count", reservations.Count).Methods(http.MethodGet)
	api.HandleFunc("/reservations/quote", reservations.Quote).Methods(http.MethodPost)
	api.HandleFunc("/reservations", reservations.List).Methods(http.MethodGet)
	api.HandleFunc("/reservations", reservations.Create).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}", reservations.Get).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}", reservations.Update).Methods(http.MethodPut)
	api.HandleFunc("/reservations/{id}", reservations.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/clients/{id}/reservations", reservations.ListByClient).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}/reservations/count", reservations.CountByClient).Methods(http.MethodGet)

	pushes := NewPushHandler(svc.Notifications)
	api.HandleFunc("/push/tokens", pushes.RegisterToken).Methods(http.MethodPost)
	api.HandleFunc("/push/send", pushes.Send).Methods(http.MethodPost)

	return router
}
