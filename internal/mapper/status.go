package mapper

import (
	"strings"
)

// Activation classifies a free-text enrollment status.
type Activation int

const (
	ActivationUnknown Activation = iota
	ActivationActive
	ActivationInactive
)

// String returns the classification name for logs.
func (a Activation) String() string {
	switch a {
	case ActivationActive:
		return "active"
	case ActivationInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// Exact status tokens seen in real exports. Checked before any substring
// logic so "inativo" is never misread as active.
var activeTokens = map[string]bool{
	"ativo":       true,
	"ativa":       true,
	"ativado":     true,
	"ativada":     true,
	"sim":         true,
	"1":           true,
	"matriculado": true,
	"matriculada": true,
}

var inactiveTokens = map[string]bool{
	"inativo":    true,
	"inativa":    true,
	"nao":        true,
	"não":        true,
	"0":          true,
	"cancelado":  true,
	"cancelada":  true,
	"trancado":   true,
	"trancada":   true,
	"suspenso":   true,
	"suspensa":   true,
	"encerrado":  true,
	"encerrada":  true,
	"desistente": true,
}

// Substring markers for statuses carrying extra text, e.g.
// "cancelado em março" or "Matrícula ATIVA". Inactive markers win.
var inactiveMarkers = []string{"inativ", "cancel", "tranc", "suspen", "desist", "encerr"}
var activeMarkers = []string{"ativ", "matricul"}

// InferActivation maps a lowercased free-text status onto a tri-state
// classification: exact tokens first, then substring markers. The bare
// "at" substring of the legacy importer survives only as a last resort;
// callers should audit-log hits via UsedFallback since statuses like
// "atrasado" land there.
func InferActivation(status string) (a Activation, usedFallback bool) {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return ActivationUnknown, false
	}
	if activeTokens[s] {
		return ActivationActive, false
	}
	if inactiveTokens[s] {
		return ActivationInactive, false
	}
	for _, m := range inactiveMarkers {
		if strings.Contains(s, m) {
			return ActivationInactive, false
		}
	}
	for _, m := range activeMarkers {
		if strings.Contains(s, m) {
			return ActivationActive, false
		}
	}
	if strings.Contains(s, "at") {
		return ActivationActive, true
	}
	return ActivationUnknown, false
}
