package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/sheet-sync-api/internal/models"
	"github.com/sheet-sync-api/internal/store"
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *store.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *store.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// StreamCollection writes a stored collection in the requested format
func (s *exportService) StreamCollection(ctx context.Context, w http.ResponseWriter, name, format string) error {
	if !models.ValidCollections[name] {
		return fmt.Errorf("unknown collection: %s", name)
	}

	s.log.Info().Str("collection", name).Str("format", format).Msg("Starting export")

	data, err := s.repos.Collections.Get(ctx, name)
	if err != nil {
		return err
	}
	if data == nil {
		data = json.RawMessage("[]")
	}

	switch format {
	case "json":
		return s.writeJSON(w, name, data)
	case "ndjson":
		return s.writeNDJSON(w, name, data)
	case "csv":
		return s.writeCSV(w, name, data)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (s *exportService) writeJSON(w http.ResponseWriter, name string, data json.RawMessage) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+name+".json")
	_, err := w.Write(data)
	return err
}

func (s *exportService) writeNDJSON(w http.ResponseWriter, name string, data json.RawMessage) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("stored collection %q is not an array: %w", name, err)
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename="+name+".ndjson")

	flusher, _ := w.(http.Flusher)
	for i, item := range items {
		w.Write(item)
		w.Write([]byte("\n"))
		if (i+1)%100 == 0 && flusher != nil {
			flusher.Flush()
		}
	}

	s.log.Info().Str("collection", name).Int("count", len(items)).Msg("Export completed")
	return nil
}

func (s *exportService) writeCSV(w http.ResponseWriter, name string, data json.RawMessage) error {
	header, rows, err := csvRows(name, data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+name+".csv")

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()

	s.log.Info().Str("collection", name).Int("count", len(rows)).Msg("Export completed")
	return writer.Error()
}

// csvRows flattens a stored collection into header and rows. Each
// collection has a fixed column set mirroring its JSON field names.
func csvRows(name string, data json.RawMessage) ([]string, [][]string, error) {
	switch name {
	case models.CollectionAlunos:
		var alunos []models.Aluno
		if err := json.Unmarshal(data, &alunos); err != nil {
			return nil, nil, err
		}
		header := []string{"id", "nome", "dataNascimento", "contato", "responsavel1", "whatsapp1", "statusMatricula"}
		rows := make([][]string, 0, len(alunos))
		for _, a := range alunos {
			rows = append(rows, []string{a.ID, a.Nome, a.DataNascimento, a.Contato, a.Responsavel1, a.Whatsapp1, a.StatusMatricula})
		}
		return header, rows, nil

	case models.CollectionTurmas:
		var turmas []models.Turma
		if err := json.Unmarshal(data, &turmas); err != nil {
			return nil, nil, err
		}
		header := []string{"id", "nome", "horario", "professor", "capacidade"}
		rows := make([][]string, 0, len(turmas))
		for _, t := range turmas {
			rows = append(rows, []string{t.ID, t.Nome, t.Horario, t.Professor, strconv.Itoa(t.Capacidade)})
		}
		return header, rows, nil

	case models.CollectionMatriculas:
		var matriculas []models.Matricula
		if err := json.Unmarshal(data, &matriculas); err != nil {
			return nil, nil, err
		}
		header := []string{"id", "alunoId", "turmaId"}
		rows := make([][]string, 0, len(matriculas))
		for _, m := range matriculas {
			rows = append(rows, []string{m.ID, m.AlunoID, m.TurmaID})
		}
		return header, rows, nil

	case models.CollectionUsuarios:
		var usuarios []models.Usuario
		if err := json.Unmarshal(data, &usuarios); err != nil {
			return nil, nil, err
		}
		// Passwords never leave through exports.
		header := []string{"login", "nivel", "nome"}
		rows := make([][]string, 0, len(usuarios))
		for _, u := range usuarios {
			rows = append(rows, []string{u.Login, u.Nivel, u.Nome})
		}
		return header, rows, nil
	}
	return nil, nil, fmt.Errorf("unknown collection: %s", name)
}
