// Package mapper turns raw sheet records into typed entities. Each mapper
// is a pure function: it resolves entity-specific candidate key sets
// against the record and returns nil when the row fails the minimal
// validity check for its entity.
package mapper

import (
	"github.com/sheet-sync-api/internal/models"
	"github.com/sheet-sync-api/internal/normalize"
	"github.com/sheet-sync-api/internal/resolve"
)

// Candidate key sets per semantic field. Ordering is a tie-break:
// most-preferred name first.
var (
	userLoginKeys = []string{"login", "usuario", "id", "operador"}
	userSenhaKeys = []string{"senha", "password", "key", "pass"}
	userNivelKeys = []string{"nivel", "acesso", "role", "tipo"}
	userNomeKeys  = []string{"nome", "name", "colaborador"}
)

// MapUsuario builds a user account from a raw row. Rows whose login
// resolves empty are invalid and yield nil.
func MapUsuario(rec models.Record) *models.Usuario {
	login := resolve.Field(rec, userLoginKeys)
	if login == "" {
		return nil
	}
	return &models.Usuario{
		Login: login,
		Senha: resolve.Field(rec, userSenhaKeys),
		Nivel: canonicalNivel(resolve.Field(rec, userNivelKeys)),
		Nome:  resolve.Field(rec, userNomeKeys),
	}
}

// canonicalNivel maps a resolved access level onto the closed tag set in
// models.ValidNiveis, ignoring case and accents, so "gestor master" and
// "Estagiario" land on their canonical spellings. Levels outside the set
// are carried through unchanged.
func canonicalNivel(raw string) string {
	key := normalize.Key(raw)
	if key == "" {
		return raw
	}
	for nivel := range models.ValidNiveis {
		if normalize.Key(nivel) == key {
			return nivel
		}
	}
	return raw
}
