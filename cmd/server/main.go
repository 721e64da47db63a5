package main

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"restogateway/internal/api"
	"restogateway/internal/config"
	"restogateway/internal/service"
)

func main() {
	godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	credentials := service.NewCredentialService(cfg)
	remarked := service.NewRemarkedService(cfg, credentials, logger)
	bookings := service.NewBookingService(remarked, logger)
	iiko := service.NewIikoService(cfg, logger)
	reviews := service.NewRocketDataService(cfg, logger)

	bookingHandler := api.NewBookingHandler(remarked, bookings)
	eventHandler := api.NewEventHandler(remarked)
	menuHandler := api.NewMenuHandler(iiko)
	reviewHandler := api.NewReviewHandler(reviews)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/slots", bookingHandler.GetSlots).Methods("POST")
	apiRouter.HandleFunc("/reserve", bookingHandler.CreateReserve).Methods("POST")
	apiRouter.HandleFunc("/reserve/cancel", bookingHandler.CancelReserve).Methods("POST")
	apiRouter.HandleFunc("/ticket/buy", bookingHandler.BuyTicket).Methods("POST")
	apiRouter.HandleFunc("/payment/check", bookingHandler.CheckPayment).Methods("POST")
	apiRouter.HandleFunc("/events", eventHandler.GetEvents).Methods("GET")
	apiRouter.HandleFunc("/events/holdTickets", eventHandler.HoldTickets).Methods("POST")
	apiRouter.HandleFunc("/menu", menuHandler.GetMenus).Methods("POST")
	apiRouter.HandleFunc("/menu/external", menuHandler.GetExternalMenus).Methods("GET")
	apiRouter.HandleFunc("/reviews", reviewHandler.SendReview).Methods("POST")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Restaurant-Id"}),
	)

	logger.Info().Str("port", cfg.Port).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(os.Stdout, cors(r))); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
