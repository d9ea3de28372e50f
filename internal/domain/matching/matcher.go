// Package matching implementa la sugerencia de vínculos de preventa: dado el
// nombre/email que trae la fila del tablero CRM, propone estudiantes registrados
// ordenados por calidad de coincidencia.
package matching

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/unatienda/store-api/internal/domain/entity"
)

// Puntajes por tipo de coincidencia. Email exacto domina siempre; el nombre
// completo normalizado supera a cualquier combinación de coincidencias parciales.
const (
	scoreEmail   = 100
	scoreName    = 50
	scorePartial = 10
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normaliza texto para comparación: minúsculas, sin acentos, espacios colapsados.
// "José  Pérez" y "jose perez" producen la misma forma.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Candidate entrada mínima de un estudiante para el matcher. FoldedName debe
// venir ya normalizado (se persiste así en la tabla de estudiantes).
type Candidate struct {
	StudentID     string
	FullName      string
	FoldedName    string
	Grade         string
	GuardianEmail string
}

// Suggest devuelve los candidatos que coinciden con la orden, ordenados de mejor
// a peor puntaje (desempate por nombre para un orden estable). Sin coincidencia
// alguna devuelve lista vacía: la UI ofrece entonces vinculación manual.
func Suggest(order *entity.PresaleOrder, candidates []Candidate) []entity.LinkSuggestion {
	email := strings.ToLower(strings.TrimSpace(order.CustomerEmail))
	name := Fold(order.StudentName)
	nameParts := strings.Fields(name)

	var out []entity.LinkSuggestion
	for _, c := range candidates {
		score, reason := 0, ""
		switch {
		case email != "" && email == strings.ToLower(strings.TrimSpace(c.GuardianEmail)):
			score, reason = scoreEmail, "email"
		case name != "" && name == c.FoldedName:
			score, reason = scoreName, "name"
		default:
			// Coincidencia parcial: cada palabra del nombre importado presente
			// en el nombre del estudiante suma; se exigen al menos dos.
			hits := 0
			for _, p := range nameParts {
				if len(p) >= 3 && strings.Contains(c.FoldedName, p) {
					hits++
				}
			}
			if hits >= 2 {
				score, reason = hits*scorePartial, "partial"
			}
		}
		if score == 0 {
			continue
		}
		out = append(out, entity.LinkSuggestion{
			StudentID:   c.StudentID,
			FullName:    c.FullName,
			Grade:       c.Grade,
			Score:       score,
			MatchReason: reason,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].FullName < out[j].FullName
	})
	return out
}
