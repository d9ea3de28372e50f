package dto

import "time"

// CreateStudentRequest alta de estudiante PCA.
type CreateStudentRequest struct {
	FullName      string `json:"full_name"`
	Grade         string `json:"grade"`
	GuardianEmail string `json:"guardian_email"`
	ExternalCode  string `json:"external_code"`
}

// StudentResponse representación de un estudiante.
type StudentResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Grade         string    `json:"grade"`
	GuardianEmail string    `json:"guardian_email"`
	ExternalCode  string    `json:"external_code"`
	CreatedAt     time.Time `json:"created_at"`
}

// StudentListResponse listado paginado de estudiantes.
type StudentListResponse struct {
	Items []StudentResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateSchoolYearRequest alta de año escolar.
type CreateSchoolYearRequest struct {
	Label    string    `json:"label"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// SchoolYearResponse representación de un año escolar.
type SchoolYearResponse struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Active   bool      `json:"active"`
}

// GrantAccessRequest otorga acceso a libros de texto a un estudiante para un año.
type GrantAccessRequest struct {
	StudentID    string `json:"student_id"`
	SchoolYearID string `json:"school_year_id"`
}

// TextbookAccessResponse permiso otorgado.
type TextbookAccessResponse struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	SchoolYearID string    `json:"school_year_id"`
	GrantedAt    time.Time `json:"granted_at"`
}

// CreateConexionRequest el admin emite un código para vincular cliente-estudiante.
type CreateConexionRequest struct {
	UserID    string `json:"user_id"`
	StudentID string `json:"student_id"`
}

// VerifyConexionRequest el cliente confirma el vínculo con el código recibido.
type VerifyConexionRequest struct {
	Code string `json:"code"`
}

// ConexionResponse representación de una conexión cliente-estudiante.
type ConexionResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	StudentID   string     `json:"student_id"`
	StudentName string     `json:"student_name,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
}
