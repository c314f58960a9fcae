package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/kanatbekov/ticket-booking/internal/token"
	"github.com/kanatbekov/ticket-booking/internal/transport/http/handler"
	"github.com/kanatbekov/ticket-booking/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, userHandler *handler.UserHandler, ticketHandler *handler.TicketHandler, tokens *token.Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(tokens)

	// Public auth routes
	r.POST("/users/signUp", userHandler.SignUp)
	r.POST("/users/login", userHandler.Login)
	r.POST("/users/updateJwt", userHandler.UpdateJWT)

	// Protected user routes
	r.GET("/users", authMW, userHandler.List)
	r.GET("/users/:id", authMW, userHandler.GetByID)
	r.POST("/users/buyTicket", authMW, userHandler.BuyTicket)

	// Protected ticket routes
	tickets := r.Group("/tickets", authMW)
	tickets.GET("", ticketHandler.List)
	tickets.POST("", ticketHandler.Create)

	return r
}
