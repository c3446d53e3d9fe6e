package server

import (
	"restaurant-checkout/internal/config"
	"restaurant-checkout/internal/handler"
	appmw "restaurant-checkout/internal/middleware"
	"restaurant-checkout/internal/repository"
	"restaurant-checkout/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	checkoutHandler *handler.CheckoutHandler
}

func NewServer(cfg *config.Config, checkout *service.Checkout, customers repository.CustomerRepository) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(appmw.AuthMiddleware(cfg.Auth.JWTSecret, customers))

	s := &Server{
		echo:            e,
		checkoutHandler: handler.NewCheckoutHandler(checkout, &cfg.Checkout),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	checkout := api.Group("/checkout")
	checkout.GET("", s.checkoutHandler.Show)
	checkout.GET("/partials", s.checkoutHandler.Partials)
	checkout.GET("/success/:hash", s.checkoutHandler.Success)
	checkout.POST("/payment", s.checkoutHandler.ChoosePayment)
	checkout.DELETE("/payment-profile", s.checkoutHandler.DeletePaymentProfile)
	checkout.POST("/confirm", s.checkoutHandler.Confirm)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
