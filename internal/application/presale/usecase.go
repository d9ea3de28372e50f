package presale

import (
	"fmt"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/unatienda/store-api/internal/application/dto"
	"github.com/unatienda/store-api/internal/domain"
	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/matching"
	"github.com/unatienda/store-api/internal/domain/repository"
	"github.com/unatienda/store-api/pkg/logger"
)

// ParsedRow fila del archivo de preventa ya parseada por el lector xlsx.
type ParsedRow struct {
	RowNumber     int
	CustomerName  string
	CustomerEmail string
	StudentName   string
	Grade         string
	Total         decimal.Decimal
	Err           string // fila inválida: motivo, se omite y se reporta
}

// Reader puerto del lector de archivos de preventa (excelize).
type Reader interface {
	Read(r io.Reader) ([]ParsedRow, error)
}

// Mailer puerto de notificación por correo al acudiente tras vincular.
type Mailer interface {
	SendOrderLinked(to, customerName, studentName, orderNumber string) error
}

// UseCase casos de uso de importación de preventa y vinculación a estudiantes.
type UseCase struct {
	presaleRepo repository.PresaleRepository
	studentRepo repository.StudentRepository
	reader      Reader
	mailer      Mailer
	node        *snowflake.Node
	log         *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(presaleRepo repository.PresaleRepository, studentRepo repository.StudentRepository, reader Reader, mailer Mailer, node *snowflake.Node, log *logger.Logger) *UseCase {
	return &UseCase{
		presaleRepo: presaleRepo,
		studentRepo: studentRepo,
		reader:      reader,
		mailer:      mailer,
		node:        node,
		log:         log,
	}
}

// Import procesa un archivo de preventa: cada fila válida se vuelve una orden
// pendiente dentro de un lote nuevo. Las filas inválidas se omiten y se
// reportan; una fila mala nunca aborta el lote completo.
func (uc *UseCase) Import(userID, fileName string, file io.Reader) (*dto.ImportResultResponse, error) {
	rows, err := uc.reader.Read(file)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if len(rows) == 0 {
		return nil, domain.ErrInvalidInput
	}
	batch := &entity.PresaleBatch{
		ID:        uuid.New().String(),
		FileName:  fileName,
		TotalRows: len(rows),
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}
	if err := uc.presaleRepo.CreateBatch(batch); err != nil {
		return nil, err
	}

	result := &dto.ImportResultResponse{BatchID: batch.ID, FileName: fileName, TotalRows: len(rows)}
	for _, row := range rows {
		if row.Err != "" {
			result.Skipped++
			result.Errors = append(result.Errors, rowError(row.RowNumber, row.Err))
			continue
		}
		exists, err := uc.presaleRepo.ExistsByBatchRow(batch.ID, row.RowNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped++
			result.Errors = append(result.Errors, rowError(row.RowNumber, "fila duplicada"))
			continue
		}
		order := &entity.PresaleOrder{
			ID:            uuid.New().String(),
			OrderNumber:   "PRE-" + uc.node.Generate().String(),
			BatchID:       batch.ID,
			RowNumber:     row.RowNumber,
			CustomerName:  row.CustomerName,
			CustomerEmail: row.CustomerEmail,
			StudentName:   row.StudentName,
			Grade:         row.Grade,
			Total:         row.Total,
			Status:        entity.PresalePending,
			ImportedAt:    time.Now(),
		}
		if err := uc.presaleRepo.CreateOrder(order); err != nil {
			return nil, err
		}
		result.Imported++
	}

	batch.Imported = result.Imported
	batch.Skipped = result.Skipped
	if err := uc.presaleRepo.UpdateBatchCounts(batch); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("batch_id", batch.ID).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("Importación de preventa completada")
	return result, nil
}

// ListOrders lista órdenes de preventa con filtros.
func (uc *UseCase) ListOrders(q repository.PresaleQuery) (*dto.PresaleListResponse, error) {
	list, total, err := uc.presaleRepo.ListOrders(q)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PresaleOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toPresaleResponse(o))
	}
	return &dto.PresaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// GetOrder obtiene una orden de preventa.
func (uc *UseCase) GetOrder(id string) (*dto.PresaleOrderResponse, error) {
	order, err := uc.presaleRepo.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toPresaleResponse(order), nil
}

// Suggestions calcula candidatos de vinculación para una orden pendiente,
// ordenados por puntaje (email > nombre exacto > parcial).
func (uc *UseCase) Suggestions(orderID string) ([]dto.LinkSuggestionResponse, error) {
	order, err := uc.presaleRepo.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	students, err := uc.studentRepo.ListAllForMatching()
	if err != nil {
		return nil, err
	}
	candidates := make([]matching.Candidate, 0, len(students))
	for _, s := range students {
		candidates = append(candidates, matching.Candidate{
			StudentID:     s.ID,
			FullName:      s.FullName,
			FoldedName:    s.FoldedName,
			Grade:         s.Grade,
			GuardianEmail: s.GuardianEmail,
		})
	}
	suggestions := matching.Suggest(order, candidates)
	out := make([]dto.LinkSuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, dto.LinkSuggestionResponse{
			StudentID:   s.StudentID,
			FullName:    s.FullName,
			Grade:       s.Grade,
			Score:       s.Score,
			MatchReason: s.MatchReason,
		})
	}
	return out, nil
}

// Link confirma el vínculo orden-estudiante y notifica al acudiente por correo.
// Solo órdenes pendientes pueden vincularse.
func (uc *UseCase) Link(orderID, adminID string, in dto.LinkRequest) (*dto.PresaleOrderResponse, error) {
	if in.StudentID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.presaleRepo.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.PresalePending {
		return nil, domain.ErrConflict
	}
	student, err := uc.studentRepo.GetByID(in.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	order.Status = entity.PresaleLinked
	order.StudentID = student.ID
	order.LinkedBy = adminID
	order.LinkedAt = &now
	if err := uc.presaleRepo.UpdateOrder(order); err != nil {
		return nil, err
	}
	if order.CustomerEmail != "" {
		if err := uc.mailer.SendOrderLinked(order.CustomerEmail, order.CustomerName, student.FullName, order.OrderNumber); err != nil {
			// el vínculo ya quedó registrado; el correo no lo revierte
			uc.log.Error().Err(err).Str("order_id", order.ID).Msg("No se pudo enviar el correo de vinculación")
		}
	}
	return toPresaleResponse(order), nil
}

// Dismiss descarta una orden pendiente (fila inválida o duplicada real).
func (uc *UseCase) Dismiss(orderID string) (*dto.PresaleOrderResponse, error) {
	order, err := uc.presaleRepo.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.PresalePending {
		return nil, domain.ErrConflict
	}
	order.Status = entity.PresaleDismissed
	if err := uc.presaleRepo.UpdateOrder(order); err != nil {
		return nil, err
	}
	return toPresaleResponse(order), nil
}

// ListBatches lista los lotes de importación recientes.
func (uc *UseCase) ListBatches(limit, offset int) ([]dto.ImportResultResponse, error) {
	list, err := uc.presaleRepo.ListBatches(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ImportResultResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.ImportResultResponse{
			BatchID:   b.ID,
			FileName:  b.FileName,
			TotalRows: b.TotalRows,
			Imported:  b.Imported,
			Skipped:   b.Skipped,
		})
	}
	return out, nil
}

func rowError(row int, msg string) string {
	return fmt.Sprintf("fila %d: %s", row, msg)
}

func toPresaleResponse(o *entity.PresaleOrder) *dto.PresaleOrderResponse {
	return &dto.PresaleOrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		BatchID:       o.BatchID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		StudentName:   o.StudentName,
		Grade:         o.Grade,
		Total:         o.Total,
		Status:        o.Status,
		StudentID:     o.StudentID,
		ImportedAt:    o.ImportedAt,
		LinkedAt:      o.LinkedAt,
	}
}
