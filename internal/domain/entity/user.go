package entity

import "time"

// User representa un usuario del sistema. Cada usuario tiene su propio kardex
// por producto; las transacciones siempre se consultan con su scope.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
