package handler

import "time"

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
}

type loginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

type registerRequest struct {
	FirstName string `json:"nombre"   validate:"notblank,min=2,max=50"`
	LastName  string `json:"apellido" validate:"notblank,min=2,max=50"`
	Email     string `json:"email"    validate:"notblank,email"`
	Password  string `json:"password" validate:"notblank,min=6,max=72"`
	Phone     string `json:"telefono" validate:"notblank"`
}

type registerResponse struct {
	Message   string    `json:"mensaje"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

type editClientRequest struct {
	FirstName  string  `json:"nombre"   validate:"notblank,min=2,max=50"`
	LastName   string  `json:"apellido" validate:"notblank,min=2,max=50"`
	DocumentID *string `json:"dni"      validate:"omitempty,notblank,max=20"`
	Email      string  `json:"email"    validate:"notblank,email"`
}

type clientResponse struct {
	PersonID      string    `json:"idPersona"`
	AccountID     string    `json:"idUsuario"`
	FirstName     string    `json:"nombre"`
	LastName      string    `json:"apellido"`
	Phone         string    `json:"telefono"`
	DocumentID    *string   `json:"dni"`
	Email         string    `json:"email"`
	AccountActive bool      `json:"usuarioActivo"`
	PersonActive  bool      `json:"personaActiva"`
	CreatedAt     time.Time `json:"creadoEn"`
}

type clientListResponse struct {
	Active   []clientResponse `json:"activos"`
	Disabled []clientResponse `json:"bajaLogica"`
}
