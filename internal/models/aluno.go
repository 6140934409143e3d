package models

// Aluno is a student reconciled from the "base" sheet. The ID is the
// normalized slug of the full name (lowercase, whitespace runs collapsed
// to underscores) and is recomputed only at creation time: the first row
// carrying a given slug wins, later rows never overwrite it.
type Aluno struct {
	ID              string `json:"id"`
	Nome            string `json:"nome"`
	DataNascimento  string `json:"dataNascimento"`
	Contato         string `json:"contato"`
	Responsavel1    string `json:"responsavel1"`
	Whatsapp1       string `json:"whatsapp1"`
	StatusMatricula string `json:"statusMatricula"`
}
