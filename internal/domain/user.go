package domain

import (
	"context"
	"time"
)

// User representa a conta de acesso (credenciais) do usuário.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

// Identity é o usuário autenticado extraído do token (JWT próprio ou Firebase).
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
	Role        UserRole
}

// UserRegistration representa o payload de entrada para o cadastro.
type UserRegistration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address"`
	Role     string `json:"role" validate:"required,oneof=customer admin"`
}

// Profile é o documento de perfil do usuário: dados pessoais, carrinho e lista de desejos.
// CartVersion é o token de concorrência otimista do carrinho.
type Profile struct {
	UserID      string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	ZipCode     string     `json:"zipCode,omitempty"`
	Country     string     `json:"country,omitempty"`
	Role        UserRole   `json:"role"`
	Cart        []CartLine `json:"cart"`
	CartVersion int        `json:"cartVersion"`
	Wishlist    []string   `json:"wishlist"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ProfileUpdate carrega apenas os campos a alterar (atualização parcial).
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	ZipCode *string `json:"zipCode,omitempty"`
	Country *string `json:"country,omitempty"`
}

// Empty informa se nenhum campo foi enviado.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Phone == nil && u.Address == nil && u.City == nil &&
		u.State == nil && u.ZipCode == nil && u.Country == nil
}

// ProfileStats agrega os números exibidos na tela de perfil.
type ProfileStats struct {
	Listings       int     `json:"listings"`
	ActiveListings int     `json:"activeListings"`
	TotalValue     float64 `json:"totalValue"`
	CartCount      int     `json:"cartCount"`
	WishlistCount  int     `json:"wishlistCount"`
}

// UserRepository define o contrato de persistência das credenciais.
type UserRepository interface {
	Save(ctx context.Context, user User, profile Profile) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}

// ProfileRepository define o contrato do armazenamento de perfis.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (Profile, error)
	CreateProfile(ctx context.Context, profile Profile) (Profile, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error
	UpdateCartIfVersion(ctx context.Context, userID string, cart []CartLine, expectedVersion int) (bool, error)
	AddToWishlist(ctx context.Context, userID, listingID string) error
	RemoveFromWishlist(ctx context.Context, userID, listingID string) error
}
