package normalize

import (
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain lowercase", "nome", "nome"},
		{"uppercase folded", "NOME", "nome"},
		{"diacritics stripped", "Situação", "situacao"},
		{"already normalized form", "situacao", "situacao"},
		{"punctuation stripped", "Data de Nascimento", "datadenascimento"},
		{"underscores and digits kept as digits only", "responsavel 1", "responsavel1"},
		{"mixed punctuation", "Turma_Sport!", "turmasport"},
		{"whitespace only", "   ", ""},
		{"empty", "", ""},
		{"cedilla and tilde", "Coração", "coracao"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Key(tt.input)
			if got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeyIdempotent(t *testing.T) {
	inputs := []string{"Situação", "NOME_turma", "responsável 1", "", "já normalizado"}
	for _, in := range inputs {
		once := Key(in)
		twice := Key(once)
		if once != twice {
			t.Errorf("Key not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple name", "Maria Silva", "maria_silva"},
		{"extra whitespace collapses", "maria  silva", "maria_silva"},
		{"leading and trailing space", "  Maria Silva  ", "maria_silva"},
		{"accented name", "João Pedro", "joao_pedro"},
		{"single word", "Ana", "ana"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slug(tt.input)
			if got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
