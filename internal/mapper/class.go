package mapper

import (
	"strconv"

	"github.com/sheet-sync-api/internal/models"
	"github.com/sheet-sync-api/internal/resolve"
)

var (
	turmaNomeKeys = []string{"nome", "turma", "curso", "modalidade"}
	// The display id reuses the name resolution with a bare "id" candidate
	// appended last.
	turmaIDKeys        = []string{"nome", "turma", "curso", "modalidade", "id"}
	turmaHorarioKeys   = []string{"horario", "hora", "dias", "periodo"}
	turmaProfessorKeys = []string{"professor", "instrutor", "regente", "profe"}
	turmaVagasKeys     = []string{"capacidade", "vagas", "max", "limite"}
)

// MapTurma builds a class offering from a raw row. Rows whose name
// resolves empty are invalid and yield nil. Capacity keeps the value's
// leading digits and defaults to 0 rather than failing the row.
func MapTurma(rec models.Record) *models.Turma {
	nome := resolve.Field(rec, turmaNomeKeys)
	if nome == "" {
		return nil
	}
	return &models.Turma{
		ID:         resolve.Field(rec, turmaIDKeys),
		Nome:       nome,
		Horario:    resolve.Field(rec, turmaHorarioKeys),
		Professor:  resolve.Field(rec, turmaProfessorKeys),
		Capacidade: parseCapacidade(resolve.Field(rec, turmaVagasKeys)),
	}
}

// parseCapacidade reads the leading digits of a capacity value, so
// "20 vagas" yields 20. Non-numeric or empty values yield 0.
func parseCapacidade(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
