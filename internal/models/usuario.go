package models

// Usuario is an application account reconciled from the "usuarios" sheet.
// Login is the identity; rows whose login resolves empty are discarded.
type Usuario struct {
	Login string `json:"login"`
	Senha string `json:"senha"`
	Nivel string `json:"nivel"`
	Nome  string `json:"nome"`
}

// ValidNiveis is the closed set of access-level tags.
var ValidNiveis = map[string]bool{
	"Professor":     true,
	"Gestor":        true,
	"Gestor Master": true,
	"Regente":       true,
	"Estagiário":    true,
	"Start":         true,
}
