package usecase

import "time"

// Clock abstrae la hora actual. Toda la validación de "la fecha no puede ser
// futura" pasa por aquí, en un único punto; los tests inyectan un reloj fijo.
type Clock interface {
	Now() time.Time
}

// SystemClock implementación de Clock con la hora del sistema.
type SystemClock struct{}

// Now devuelve time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
