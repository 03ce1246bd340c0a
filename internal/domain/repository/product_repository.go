package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para el catálogo de productos.
type ProductRepository interface {
	Create(product *entity.Product) error
	// GetByID obtiene un producto por ID. (nil, nil) si no existe.
	GetByID(id string) (*entity.Product, error)
	// GetByName obtiene un producto por nombre. (nil, nil) si no existe.
	GetByName(name string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
