package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/application/students"
	"github.com/unatienda/store-api/internal/domain/repository"
)

// StudentHandler maneja estudiantes PCA, años escolares y accesos a libros.
type StudentHandler struct {
	uc *students.UseCase
}

// NewStudentHandler construye el handler.
func NewStudentHandler(uc *students.UseCase) *StudentHandler {
	return &StudentHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar estudiante
// @Tags         students
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStudentRequest  true  "Datos del estudiante"
// @Success      201   {object}  dto.StudentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/store/students [post]
func (h *StudentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStudentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "full_name es requerido"})
	}
	out, err := h.uc.CreateStudent(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener estudiante por ID
// @Tags         students
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del estudiante"
// @Success      200  {object}  dto.StudentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/students/{id} [get]
func (h *StudentHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetStudent(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar estudiantes
// @Tags         students
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Búsqueda por nombre (ignora acentos)"
// @Param        grade      query  string  false  "Filtrar por grado"
// @Param        sort_by    query  string  false  "full_name | grade | created_at"
// @Param        sort_desc  query  bool    false  "Orden descendente"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.StudentListResponse
// @Router       /api/store/students [get]
func (h *StudentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	var sort dto.SortRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	_ = c.QueryParser(&sort)

	q := repository.StudentQuery{
		Search:   c.Query("search"),
		Grade:    c.Query("grade"),
		SortBy:   sort.SortBy,
		SortDesc: sort.SortDesc,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	out, err := h.uc.ListStudents(q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportRoster godoc
// @Summary      Exportar el padrón de estudiantes a Excel
// @Tags         students
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/store/students/export [get]
func (h *StudentHandler) ExportRoster(c *fiber.Ctx) error {
	data, err := h.uc.ExportRoster()
	if err != nil {
		return respondError(c, err)
	}
	fileName := fmt.Sprintf("estudiantes-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Send(data)
}

// CreateSchoolYear godoc
// @Summary      Crear año escolar
// @Tags         school-years
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSchoolYearRequest  true  "Datos del año escolar"
// @Success      201   {object}  dto.SchoolYearResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/store/school-years [post]
func (h *StudentHandler) CreateSchoolYear(c *fiber.Ctx) error {
	var in dto.CreateSchoolYearRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Label == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "label es requerido"})
	}
	out, err := h.uc.CreateSchoolYear(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSchoolYears godoc
// @Summary      Listar años escolares
// @Tags         school-years
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SchoolYearResponse
// @Router       /api/store/school-years [get]
func (h *StudentHandler) ListSchoolYears(c *fiber.Ctx) error {
	out, err := h.uc.ListSchoolYears()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ActivateSchoolYear godoc
// @Summary      Marcar un año escolar como activo
// @Description  Solo un año puede estar activo a la vez; activar uno desactiva
// @Description  los demás.
// @Tags         school-years
// @Security     Bearer
// @Param        id  path  string  true  "ID del año escolar"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/school-years/{id}/activate [post]
func (h *StudentHandler) ActivateSchoolYear(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.ActivateSchoolYear(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GrantAccess godoc
// @Summary      Otorgar acceso a libros de texto
// @Description  Si no se indica año escolar se usa el año activo.
// @Tags         textbook-access
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GrantAccessRequest  true  "Estudiante y año escolar"
// @Success      201   {object}  dto.TextbookAccessResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/store/textbook-access [post]
func (h *StudentHandler) GrantAccess(c *fiber.Ctx) error {
	var in dto.GrantAccessRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.StudentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "student_id es requerido"})
	}
	out, err := h.uc.GrantAccess(GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RevokeAccess godoc
// @Summary      Revocar acceso a libros de texto
// @Tags         textbook-access
// @Security     Bearer
// @Param        studentId     path  string  true  "ID del estudiante"
// @Param        schoolYearId  path  string  true  "ID del año escolar"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/textbook-access/{studentId}/{schoolYearId} [delete]
func (h *StudentHandler) RevokeAccess(c *fiber.Ctx) error {
	studentID := c.Params("studentId")
	yearID := c.Params("schoolYearId")
	if studentID == "" || yearID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "studentId y schoolYearId son requeridos"})
	}
	if err := h.uc.RevokeAccess(studentID, yearID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAccess godoc
// @Summary      Listar accesos otorgados de un año escolar
// @Tags         textbook-access
// @Security     Bearer
// @Produce      json
// @Param        school_year_id  query  string  true  "ID del año escolar"
// @Success      200  {array}  dto.TextbookAccessResponse
// @Router       /api/store/textbook-access [get]
func (h *StudentHandler) ListAccess(c *fiber.Ctx) error {
	yearID := c.Query("school_year_id")
	if yearID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "school_year_id es requerido"})
	}
	out, err := h.uc.ListAccess(yearID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
