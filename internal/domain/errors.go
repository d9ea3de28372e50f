package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInsufficientFunds  = errors.New("saldo insuficiente en la billetera")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrOrderTerminal      = errors.New("la orden ya está en un estado terminal")
	ErrStudentNotLinked   = errors.New("el estudiante no está vinculado a la cuenta")
	ErrCodeExpired        = errors.New("código de verificación expirado")
)
