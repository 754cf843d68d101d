package routes

import (
	"net/http"

	"github.com/polaris-studio/booking-backend/internal/api/handlers"
	"github.com/polaris-studio/booking-backend/internal/api/middleware"
	"github.com/polaris-studio/booking-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler    *handlers.AuthHandler
	bookingHandler *handlers.BookingHandler

	serviceHandler      *handlers.ServiceHandler
	businessHourHandler *handlers.BusinessHourHandler
	blockedDateHandler  *handlers.BlockedDateHandler

	auth    *middleware.AuthMiddleware
	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	bookingHandler *handlers.BookingHandler,
	serviceHandler *handlers.ServiceHandler,
	businessHourHandler *handlers.BusinessHourHandler,
	blockedDateHandler *handlers.BlockedDateHandler,
	auth *middleware.AuthMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		authHandler:    authHandler,
		bookingHandler: bookingHandler,

		serviceHandler:      serviceHandler,
		businessHourHandler: businessHourHandler,
		blockedDateHandler:  blockedDateHandler,

		auth:    auth,
		metrics: metrics,
	}
}

// staff wraps a handler so only authenticated staff accounts reach it
func (r *Router) staff(h http.HandlerFunc) http.Handler {
	return r.auth.RequireAuth(h)
}

// manager wraps a handler so only ADMIN or MANAGER accounts reach it
func (r *Router) manager(h http.HandlerFunc) http.Handler {
	return r.auth.RequireManager(h)
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Session endpoints
	r.mux.HandleFunc("POST /api/login", r.authHandler.Login)
	r.mux.HandleFunc("GET /api/logout", r.authHandler.Logout)

	// Booking endpoints. Creation is public; everything else is staff-only.
	r.mux.HandleFunc("POST /api/bookings", r.bookingHandler.CreateBooking)
	r.mux.Handle("GET /api/bookings", r.staff(r.bookingHandler.ListBookings))
	r.mux.Handle("GET /api/bookings/reference/{reference}", r.staff(r.bookingHandler.GetBookingByReference))
	r.mux.Handle("GET /api/bookings/{id}", r.staff(r.bookingHandler.GetBooking))
	r.mux.Handle("PATCH /api/bookings/{id}", r.staff(r.bookingHandler.UpdateBookingStatus))
	r.mux.Handle("DELETE /api/bookings/{id}", r.manager(r.bookingHandler.DeleteBooking))

	// Service catalog endpoints. Reads are public so clients can browse.
	r.mux.HandleFunc("GET /api/services", r.serviceHandler.ListServices)
	r.mux.HandleFunc("GET /api/services/{id}", r.serviceHandler.GetService)
	r.mux.Handle("POST /api/services", r.manager(r.serviceHandler.UpsertService))
	r.mux.Handle("DELETE /api/services/{id}", r.manager(r.serviceHandler.DeleteService))

	// Schedule endpoints
	r.mux.HandleFunc("GET /api/business-hours", r.businessHourHandler.ListBusinessHours)
	r.mux.HandleFunc("GET /api/business-hours/{day}", r.businessHourHandler.GetBusinessHour)
	r.mux.Handle("POST /api/business-hours", r.manager(r.businessHourHandler.UpsertBusinessHour))
	r.mux.Handle("DELETE /api/business-hours/{day}", r.manager(r.businessHourHandler.DeleteBusinessHour))

	r.mux.HandleFunc("GET /api/blocked-dates", r.blockedDateHandler.ListBlockedDates)
	r.mux.HandleFunc("GET /api/blocked-dates/{date}", r.blockedDateHandler.GetBlockedDate)
	r.mux.Handle("POST /api/blocked-dates", r.manager(r.blockedDateHandler.UpsertBlockedDate))
	r.mux.Handle("DELETE /api/blocked-dates/{date}", r.manager(r.blockedDateHandler.DeleteBlockedDate))

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so rejected requests still get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
