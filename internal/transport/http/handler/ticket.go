package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanatbekov/ticket-booking/internal/domain"
	"github.com/kanatbekov/ticket-booking/internal/usecase"
)

type ticketUsecaser interface {
	Create(ctx context.Context, input usecase.CreateTicketInput) (*domain.Ticket, error)
	List(ctx context.Context) ([]*domain.Ticket, error)
}

type TicketHandler struct {
	tickets ticketUsecaser
	logger  *slog.Logger
}

func NewTicketHandler(tickets ticketUsecaser, logger *slog.Logger) *TicketHandler {
	return &TicketHandler{tickets: tickets, logger: logger.With("component", "ticket_handler")}
}

type ticketPriceRequest struct {
	Value    int64  `json:"value" binding:"min=0"`
	Currency string `json:"currency" binding:"required,oneof=EUR USD GBP"`
}

type createTicketRequest struct {
	Title         string             `json:"title" binding:"required,min=3"`
	TicketPrice   ticketPriceRequest `json:"ticket_price" binding:"required"`
	FromLocation  string             `json:"from_location" binding:"required,min=3"`
	ToLocation    string             `json:"to_location" binding:"required,min=3"`
	ToLocationURL string             `json:"to_location_photo_url" binding:"required,url"`
}

type ticketResponse struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	TicketPrice   moneyPayload `json:"ticket_price"`
	FromLocation  string       `json:"from_location"`
	ToLocation    string       `json:"to_location"`
	ToLocationURL string       `json:"to_location_photo_url"`
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:            t.ID,
		Title:         t.Title,
		TicketPrice:   moneyPayload{Value: t.Price.Value, Currency: string(t.Price.Currency)},
		FromLocation:  t.FromLocation,
		ToLocation:    t.ToLocation,
		ToLocationURL: t.ToLocationURL,
	}
}

// GET /tickets
func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.tickets.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list tickets", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	c.JSON(http.StatusOK, gin.H{"tickets": out})
}

// POST /tickets
func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	created, err := h.tickets.Create(c.Request.Context(), usecase.CreateTicketInput{
		Title:         req.Title,
		Price:         domain.Money{Value: req.TicketPrice.Value, Currency: domain.Currency(req.TicketPrice.Currency)},
		FromLocation:  req.FromLocation,
		ToLocation:    req.ToLocation,
		ToLocationURL: req.ToLocationURL,
	})
	if err != nil {
		h.logger.Error("create ticket", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Ticket was added",
		"response": toTicketResponse(created),
	})
}
