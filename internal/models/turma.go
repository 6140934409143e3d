package models

// Turma is a class offering. The resolved name doubles as the display ID;
// rows whose name resolves empty are discarded by the mapper.
type Turma struct {
	ID         string `json:"id"`
	Nome       string `json:"nome"`
	Horario    string `json:"horario"`
	Professor  string `json:"professor"`
	Capacidade int    `json:"capacidade"`
}

// Matricula links a student to a class offering. The ID is an opaque
// surrogate (UUID) and is not stable across sync cycles. TurmaID carries
// the resolved course text directly; it may reference a Turma absent from
// the turmas collection, which this layer tolerates rather than repairs.
type Matricula struct {
	ID      string `json:"id"`
	AlunoID string `json:"alunoId"`
	TurmaID string `json:"turmaId"`
}
