package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agkmart/agkmart-backend/api/controllers"
	"github.com/agkmart/agkmart-backend/api/middleware"
	"github.com/agkmart/agkmart-backend/internal/delivery"
	"github.com/agkmart/agkmart-backend/internal/identity"
	"github.com/agkmart/agkmart-backend/internal/nearby"
	"github.com/agkmart/agkmart-backend/internal/notifications"
	"github.com/agkmart/agkmart-backend/internal/pilots"
	"github.com/agkmart/agkmart-backend/internal/tickets"
	"github.com/agkmart/agkmart-backend/pkg/config"
	"github.com/agkmart/agkmart-backend/pkg/logger"
)

// Services bundles everything the router mounts. DBPinger/RedisPinger feed
// the readiness probe; Limiter backs the login rate limit.
type Services struct {
	DBPinger      controllers.Pinger
	RedisPinger   controllers.Pinger
	Limiter       middleware.RateLimiterStore
	Identity      identity.Service
	Pilots        pilots.Service
	Delivery      delivery.Service
	Nearby        nearby.Finder
	Tickets       tickets.Service
	Notifications notifications.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svcs Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.OTPWindow,
		cfg.AuthRateLimit.OTPIPLimit,
		cfg.AuthRateLimit.OTPPhoneLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, svcs.DBPinger, svcs.RedisPinger))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/pilot", func(r chi.Router) {
		// Public surface the app can hit before login.
		r.Get("/app/config", controllers.PilotAppConfig(cfg))
		r.Get("/support/faqs", controllers.SupportFAQs(svcs.Tickets, logg))
		r.Post("/register", controllers.PilotRegister(svcs.Pilots, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(otpPolicy, svcs.Limiter, logg))
			r.Post("/login", controllers.PilotLogin(svcs.Identity, logg))
			r.Post("/request-otp", controllers.PilotRequestOTP(svcs.Identity, logg))
			r.Post("/verify-otp", controllers.PilotVerifyOTP(svcs.Identity, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole("pilot", logg))

			r.Get("/profile/{pilotId}", controllers.PilotProfile(svcs.Pilots, svcs.Delivery, logg))
			r.Post("/update-location", controllers.PilotUpdateLocation(svcs.Pilots, logg))
			r.Post("/availability", controllers.PilotSetAvailability(svcs.Pilots, logg))

			r.Post("/scan-order", controllers.PilotScanOrder(svcs.Delivery, logg))
			r.Post("/accept-order", controllers.PilotAcceptOrder(svcs.Delivery, logg))
			r.Post("/start-journey", controllers.PilotStartJourney(svcs.Delivery, logg))
			r.Post("/complete-delivery", controllers.PilotCompleteDelivery(svcs.Delivery, logg))
			r.Get("/active-order", controllers.PilotActiveOrder(svcs.Delivery, logg))
			r.Get("/delivery-history", controllers.PilotDeliveryHistory(svcs.Delivery, logg))

			r.Get("/available-nearby-orders", controllers.PilotNearbyOrders(svcs.Nearby, logg))

			r.Get("/stats", controllers.PilotDashboardStats(svcs.Pilots, svcs.Delivery, logg))
			r.Get("/dashboard/stats", controllers.PilotDashboardStats(svcs.Pilots, svcs.Delivery, logg))

			r.Post("/support/contact", controllers.SupportContact(svcs.Tickets, logg))
			r.Route("/support/tickets", func(r chi.Router) {
				r.Get("/", controllers.SupportTicketList(svcs.Tickets, logg))
				r.Get("/{ticketId}", controllers.SupportTicketDetail(svcs.Tickets, logg))
				r.Post("/{ticketId}/messages", controllers.SupportTicketMessage(svcs.Tickets, logg))
				r.Post("/{ticketId}/rate", controllers.SupportTicketRate(svcs.Tickets, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
			})
		})
	})

	r.Route("/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/pilots", func(r chi.Router) {
			r.Get("/", controllers.AdminPilotList(svcs.Pilots, logg))
			r.Get("/stats", controllers.AdminPilotStats(svcs.Pilots, logg))
			r.Post("/{pilotId}/approve", controllers.AdminApprovePilot(svcs.Pilots, logg))
			r.Post("/{pilotId}/reject", controllers.AdminRejectPilot(svcs.Pilots, logg))
			r.Post("/{pilotId}/deactivate", controllers.AdminDeactivatePilot(svcs.Pilots, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateOrder(svcs.Delivery, logg))
			r.Get("/stats", controllers.AdminOrderStats(svcs.Delivery, logg))
			r.Post("/{orderId}/dispatch", controllers.AdminDispatchOrder(svcs.Delivery, logg))
			r.Post("/{orderId}/cancel", controllers.AdminCancelOrder(svcs.Delivery, logg))
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", controllers.AdminTicketQueue(svcs.Tickets, logg))
			r.Get("/stats", controllers.AdminTicketStats(svcs.Tickets, logg))
			r.Get("/{ticketId}", controllers.SupportTicketDetail(svcs.Tickets, logg))
			r.Post("/{ticketId}/assign", controllers.AdminAssignTicket(svcs.Tickets, logg))
			r.Post("/{ticketId}/status", controllers.AdminTicketStatus(svcs.Tickets, logg))
			r.Post("/{ticketId}/messages", controllers.AdminTicketMessage(svcs.Tickets, logg))
			r.Post("/{ticketId}/notes", controllers.AdminTicketNote(svcs.Tickets, logg))
		})
	})

	return r
}
