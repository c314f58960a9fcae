package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kanatbekov/ticket-booking/internal/domain"
	"github.com/kanatbekov/ticket-booking/internal/token"
	"github.com/kanatbekov/ticket-booking/internal/usecase"
)

// authUsecaser and userUsecaser are the subsets of the usecases the
// handler needs. Defined here (point of use) so tests can inject fakes.
type authUsecaser interface {
	SignUp(ctx context.Context, input usecase.SignUpInput) (*usecase.SignUpResult, error)
	Login(ctx context.Context, email, password string) (token.Pair, error)
	Refresh(ctx context.Context, refreshToken string) (token.Pair, error)
}

type userUsecaser interface {
	List(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	BuyTicket(ctx context.Context, userID, ticketID string) error
}

type UserHandler struct {
	auth   authUsecaser
	users  userUsecaser
	logger *slog.Logger
}

func NewUserHandler(auth authUsecaser, users userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		auth:   auth,
		users:  users,
		logger: logger.With("component", "user_handler"),
	}
}

type moneyPayload struct {
	Value    int64  `json:"value"`
	Currency string `json:"currency"`
}

type userResponse struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	BoughtTickets []string     `json:"bought_tickets"`
	MoneyBalance  moneyPayload `json:"money_balance"`
}

func toUserResponse(u *domain.User) userResponse {
	tickets := u.BoughtTickets
	if tickets == nil {
		tickets = []string{}
	}
	return userResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		BoughtTickets: tickets,
		MoneyBalance:  moneyPayload{Value: u.Balance.Value, Currency: string(u.Balance.Currency)},
	}
}

// signUpRequest still carries bought_tickets and money_balance for wire
// compatibility, but the server ignores them: new users start with an
// empty purchase set and the operator-configured balance.
type signUpRequest struct {
	Name          string        `json:"name" binding:"required"`
	Email         string        `json:"email" binding:"required"`
	Password      string        `json:"password" binding:"required"`
	BoughtTickets []string      `json:"bought_tickets"`
	MoneyBalance  *moneyPayload `json:"money_balance"`
}

// POST /users/signUp
func (h *UserHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.auth.SignUp(c.Request.Context(), usecase.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailInvalid),
			errors.Is(err, domain.ErrPasswordWeak),
			errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			h.logger.Error("sign up", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "User was created",
		"user":         toUserResponse(result.User),
		"accessToken":  result.Tokens.Access,
		"refreshToken": result.Tokens.Refresh,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /users/login
// Every credential failure gets the same generic 401 so the response
// does not reveal whether the email exists.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": errAuthFailed})
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailed) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": errAuthFailed})
			return
		}
		h.logger.Error("login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  pair.Access,
		"refreshToken": pair.Refresh,
	})
}

type updateJWTRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// POST /users/updateJwt
func (h *UserHandler) UpdateJWT(c *gin.Context) {
	var req updateJWTRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": errTokenMissing})
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": errTokenInvalid})
			return
		}
		h.logger.Error("update jwt", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"newAccessToken":  pair.Access,
		"newRefreshToken": pair.Refresh,
	})
}

// GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// GET /users/:id
// A malformed id cannot match any user, so it gets the same 404 as a
// missing one.
func (h *UserHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": errUserNotFound})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": errUserNotFound})
			return
		}
		h.logger.Error("get user by id", "user_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

type buyTicketRequest struct {
	UserID   string `json:"userId"`
	TicketID string `json:"ticketId"`
}

// POST /users/buyTicket
func (h *UserHandler) BuyTicket(c *gin.Context) {
	var req buyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.TicketID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": errIDsRequired})
		return
	}

	if uuid.Validate(req.UserID) != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": errUserNotFound})
		return
	}
	if uuid.Validate(req.TicketID) != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": errTicketNotFound})
		return
	}

	err := h.users.BuyTicket(c.Request.Context(), req.UserID, req.TicketID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": errUserNotFound})
		case errors.Is(err, domain.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": errTicketNotFound})
		case errors.Is(err, domain.ErrAlreadyOwned):
			c.JSON(http.StatusBadRequest, gin.H{"message": errAlreadyOwned})
		case errors.Is(err, domain.ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, gin.H{"message": errInsufficient})
		case errors.Is(err, domain.ErrCurrencyMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"message": errCurrencyMismatch})
		default:
			h.logger.Error("buy ticket", "user_id", req.UserID, "ticket_id", req.TicketID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket purchased successfully"})
}
