package models

// Account roles and sign-in providers.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

// User represents a customer or admin account. Accounts created through a
// social provider carry an empty PasswordHash and can never authenticate
// with a password.
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex" json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"`
	Provider     string `json:"provider"`
	Role         string `json:"role"`

	// Default shipping profile, copied into orders at checkout.
	Province      string `json:"province"`
	District      string `json:"district"`
	Ward          string `json:"ward"`
	AddressDetail string `json:"address_detail"`

	Orders []Order `json:"orders,omitempty"`
}
