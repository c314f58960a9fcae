package handler

// Response messages are part of the API contract; clients match on them.
const (
	errInternalServer   = "Something went wrong on the server."
	errAuthFailed       = "Authentication failed. Please check your credentials."
	errTokenMissing     = "Authentication token is not provided."
	errTokenInvalid     = "Authentication token is not valid."
	errUserNotFound     = "User not found."
	errTicketNotFound   = "Ticket not found."
	errIDsRequired      = "User Id and ticket Id are required in the request body."
	errAlreadyOwned     = "User already bought this ticket"
	errInsufficient     = "Insufficient funds."
	errCurrencyMismatch = "Ticket currency does not match the balance currency."
)
