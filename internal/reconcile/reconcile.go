// Package reconcile converts a raw batch of sheet rows into deduplicated
// entity collections. The engine is stateless: each call receives the full
// batch and returns full new collections, and the caller decides which of
// them to apply to persisted state.
package reconcile

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sheet-sync-api/internal/mapper"
	"github.com/sheet-sync-api/internal/models"
)

// Result carries the collections rebuilt by one cycle. A nil slice means
// the category was absent from the batch, or every row in it was invalid:
// either way the caller must leave its stored collection untouched. Alunos
// and Matriculas are non-nil (possibly empty) whenever the base category
// had rows, since the base sheet is authoritative for both.
type Result struct {
	Usuarios   []models.Usuario
	Turmas     []models.Turma
	Alunos     []models.Aluno
	Matriculas []models.Matricula

	Stats Stats
}

// Stats counts what happened to the batch, for sync-run bookkeeping.
type Stats struct {
	UsuariosDiscarded int
	TurmasDiscarded   int
	BaseDiscarded     int
	StatusFallbacks   int
}

// Discarded is the total number of rows dropped across all categories.
func (s Stats) Discarded() int {
	return s.UsuariosDiscarded + s.TurmasDiscarded + s.BaseDiscarded
}

// Engine runs reconciliation cycles. It holds only a logger; see the
// package comment for the statelessness contract.
type Engine struct {
	log zerolog.Logger
}

// New creates a reconciliation engine.
func New(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "reconcile").Logger()}
}

// Reconcile maps, deduplicates and links every category present in the
// batch. Row-level failures never abort the cycle: invalid rows are
// counted and skipped.
func (e *Engine) Reconcile(batch *models.Batch) Result {
	var res Result
	if batch == nil {
		return res
	}

	if len(batch.Usuarios) > 0 {
		usuarios := make([]models.Usuario, 0, len(batch.Usuarios))
		for _, rec := range batch.Usuarios {
			u := mapper.MapUsuario(rec)
			if u == nil {
				res.Stats.UsuariosDiscarded++
				continue
			}
			usuarios = append(usuarios, *u)
		}
		// Never let a sync wipe out all accounts: a category whose every
		// row was invalid is treated as "nothing to update".
		if len(usuarios) > 0 {
			res.Usuarios = usuarios
		}
	}

	if len(batch.Turmas) > 0 {
		turmas := make([]models.Turma, 0, len(batch.Turmas))
		for _, rec := range batch.Turmas {
			t := mapper.MapTurma(rec)
			if t == nil {
				res.Stats.TurmasDiscarded++
				continue
			}
			turmas = append(turmas, *t)
		}
		if len(turmas) > 0 {
			res.Turmas = turmas
		}
	}

	if len(batch.Base) > 0 {
		res.Alunos, res.Matriculas = e.reconcileBase(batch.Base, &res.Stats)
	}

	e.log.Debug().
		Int("usuarios", len(res.Usuarios)).
		Int("turmas", len(res.Turmas)).
		Int("alunos", len(res.Alunos)).
		Int("matriculas", len(res.Matriculas)).
		Int("discarded", res.Stats.Discarded()).
		Msg("Batch reconciled")

	return res
}

// reconcileBase walks the mixed student+enrollment rows in source order.
// Students deduplicate by slug identity with first-occurrence-wins: later
// rows with the same identity never overwrite the stored attributes, but
// still contribute enrollments. An enrollment is created only when the
// resolved course is non-empty and the row's status classified as active.
func (e *Engine) reconcileBase(rows []models.Record, stats *Stats) ([]models.Aluno, []models.Matricula) {
	alunos := make([]models.Aluno, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	matriculas := make([]models.Matricula, 0, len(rows))

	for _, rec := range rows {
		row := mapper.MapRosterRow(rec)
		if row == nil {
			stats.BaseDiscarded++
			continue
		}

		if !seen[row.Aluno.ID] {
			seen[row.Aluno.ID] = true
			alunos = append(alunos, row.Aluno)
		}

		if row.StatusFallback {
			// The loose "at" substring classified this row active; keep an
			// audit trail so the token table can be hardened against real
			// data.
			stats.StatusFallbacks++
			e.log.Warn().
				Str("aluno_id", row.Aluno.ID).
				Str("status", row.Status).
				Msg("Activation inferred from substring fallback")
		}

		if row.Curso != "" && row.Ativo {
			matriculas = append(matriculas, models.Matricula{
				ID:      uuid.NewString(),
				AlunoID: row.Aluno.ID,
				TurmaID: row.Curso,
			})
		}
	}

	return alunos, matriculas
}
