package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	// GetByID obtiene un usuario por ID. (nil, nil) si no existe.
	GetByID(id string) (*entity.User, error)
	// GetByUsername obtiene un usuario por username. (nil, nil) si no existe.
	GetByUsername(username string) (*entity.User, error)
	// GetByEmail obtiene un usuario por email. (nil, nil) si no existe.
	GetByEmail(email string) (*entity.User, error)
}
