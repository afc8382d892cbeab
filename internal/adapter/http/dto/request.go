package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tellergo/teller/internal/domain"
	"github.com/tellergo/teller/internal/usecase"
)

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ToUseCaseInput converts to use case input. An empty role defaults to
// customer; banker accounts must ask for the role explicitly.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	role := domain.Role(r.Role)
	if r.Role == "" {
		role = domain.RoleCustomer
	}

	return usecase.RegisterInput{
		Username: r.Username,
		Email:    r.Email,
		FullName: r.FullName,
		Password: r.Password,
		Role:     role,
	}
}

// LoginRequest represents a request to authenticate.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MutationRequest represents a deposit or withdrawal request.
type MutationRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}
