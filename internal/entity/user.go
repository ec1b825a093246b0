package entity

import "time"

// Authority labels are stored verbatim: uppercase, no prefix convention.
// Route rules compare them by exact string membership.
const (
	AuthorityAdmin  = "ADMIN"
	AuthorityUser   = "USER"
	AuthorityDealer = "DEALER"
)

// DbUser represents a persisted user account.
type DbUser struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Name         string      `gorm:"column:name;type:varchar(255)" json:"name"`
	Email        string      `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone        string      `gorm:"column:phone;type:varchar(50)" json:"phone"`
	PasswordHash string      `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Authorities  StringArray `gorm:"column:authorities;type:text;not null" json:"authorities"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// UserSummary is a lightweight user description returned to clients.
type UserSummary struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Authorities []string  `json:"authorities"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuthRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}
