package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/domain/matching"
)

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"José Pérez", "jose perez"},
		{"  MARÍA   GONZÁLEZ ", "maria gonzalez"},
		{"nino Ñáñez", "nino nanez"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matching.Fold(tc.in), "Fold(%q)", tc.in)
	}
}

func candidates() []matching.Candidate {
	return []matching.Candidate{
		{StudentID: "s1", FullName: "José Pérez Castillo", FoldedName: "jose perez castillo", Grade: "5A", GuardianEmail: "padres.perez@example.com"},
		{StudentID: "s2", FullName: "María González", FoldedName: "maria gonzalez", Grade: "3B", GuardianEmail: "gonzalez@example.com"},
		{StudentID: "s3", FullName: "José Castillo Ruiz", FoldedName: "jose castillo ruiz", Grade: "5A", GuardianEmail: ""},
	}
}

// El email exacto del acudiente domina cualquier coincidencia por nombre.
func TestSuggest_EmailGanaSiempre(t *testing.T) {
	order := &entity.PresaleOrder{
		CustomerEmail: "GONZALEZ@example.com",
		StudentName:   "José Pérez Castillo", // nombre apunta a s1, email a s2
	}
	got := matching.Suggest(order, candidates())
	require.NotEmpty(t, got)
	assert.Equal(t, "s2", got[0].StudentID)
	assert.Equal(t, "email", got[0].MatchReason)
}

// Nombre completo normalizado (acentos y mayúsculas indiferentes) coincide exacto.
func TestSuggest_NombreNormalizado(t *testing.T) {
	order := &entity.PresaleOrder{StudentName: "jose perez CASTILLO"}
	got := matching.Suggest(order, candidates())
	require.NotEmpty(t, got)
	assert.Equal(t, "s1", got[0].StudentID)
	assert.Equal(t, "name", got[0].MatchReason)
}

// Coincidencias parciales exigen al menos dos palabras y quedan por debajo
// de la coincidencia exacta.
func TestSuggest_ParcialOrdenadoPorPuntaje(t *testing.T) {
	order := &entity.PresaleOrder{StudentName: "José Castillo"}
	got := matching.Suggest(order, candidates())
	require.Len(t, got, 2)
	for _, s := range got {
		assert.Equal(t, "partial", s.MatchReason)
	}
	// Desempate estable por nombre
	assert.Equal(t, "José Castillo Ruiz", got[0].FullName)
	assert.Equal(t, "José Pérez Castillo", got[1].FullName)
}

// Una sola palabra coincidente no alcanza: demasiado ruido en apellidos comunes.
func TestSuggest_UnaPalabraNoSugiere(t *testing.T) {
	order := &entity.PresaleOrder{StudentName: "Castillo"}
	got := matching.Suggest(order, candidates())
	assert.Empty(t, got)
}

func TestSuggest_SinDatosNoSugiere(t *testing.T) {
	got := matching.Suggest(&entity.PresaleOrder{}, candidates())
	assert.Empty(t, got)
}
