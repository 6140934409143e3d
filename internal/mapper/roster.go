package mapper

import (
	"strings"
	"unicode/utf8"

	"github.com/sheet-sync-api/internal/models"
	"github.com/sheet-sync-api/internal/normalize"
	"github.com/sheet-sync-api/internal/resolve"
)

var (
	rosterNomeKeys   = []string{"estudante", "nome", "aluno"}
	rosterCursoKeys  = []string{"modalidade", "curso", "turma_sport", "aula", "plano", "cur"}
	rosterStatusKeys = []string{"status", "ativo", "situa", "matri", "situacao", "ativado"}

	rosterNascKeys        = []string{"nasc", "data de nascimento", "nascimento"}
	rosterContatoKeys     = []string{"whatsapp", "tel", "contato"}
	rosterResponsavelKeys = []string{"responsavel 1", "mae"}
	rosterWhatsapp1Keys   = []string{"whatsapp1"}
)

// RosterRow is the resolved view of one "base" row, which mixes student
// attributes with enrollment state in a single flat record.
type RosterRow struct {
	Aluno          models.Aluno
	Curso          string
	Status         string // lowercased raw status text
	Ativo          bool
	StatusFallback bool // activation came from the loose "at" substring
}

// MapRosterRow resolves a base row. Rows whose student name trims to
// fewer than 2 characters are invalid and yield nil. The student ID is
// the normalized slug of the name; the course string is carried as the
// class-offering identity without any lookup against the turmas
// collection.
func MapRosterRow(rec models.Record) *RosterRow {
	nome := resolve.Field(rec, rosterNomeKeys)
	if utf8.RuneCountInString(nome) < 2 {
		return nil
	}

	status := strings.ToLower(resolve.Field(rec, rosterStatusKeys))
	activation, fallback := InferActivation(status)

	return &RosterRow{
		Aluno: models.Aluno{
			ID:              normalize.Slug(nome),
			Nome:            nome,
			DataNascimento:  resolve.Field(rec, rosterNascKeys),
			Contato:         resolve.Field(rec, rosterContatoKeys),
			Responsavel1:    resolve.Field(rec, rosterResponsavelKeys),
			Whatsapp1:       resolve.Field(rec, rosterWhatsapp1Keys),
			StatusMatricula: status,
		},
		Curso:          resolve.Field(rec, rosterCursoKeys),
		Status:         status,
		Ativo:          activation == ActivationActive,
		StatusFallback: fallback,
	}
}
