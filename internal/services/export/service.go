package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/scribe/internal/models"
)

// Snapshot captures the exportable portion of a session: the active document,
// the last query with its results, and the chat transcript.
type Snapshot struct {
	ExportedAt time.Time            `yaml:"exported_at"`
	Document   string               `yaml:"document,omitempty"`
	LastQuery  string               `yaml:"last_query,omitempty"`
	Results    []models.QueryResult `yaml:"results,omitempty"`
	Transcript []models.ChatMessage `yaml:"transcript,omitempty"`
}

// Service writes session snapshots to disk. The format is chosen by file
// extension: .yaml/.yml or .pdf.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new export service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// Export writes the snapshot to path in the format its extension implies
func (s *Service) Export(path string, snapshot *Snapshot) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return s.exportYAML(path, snapshot)
	case ".pdf":
		return s.exportPDF(path, snapshot)
	default:
		return fmt.Errorf("unsupported export format %q (use .yaml, .yml or .pdf)", filepath.Ext(path))
	}
}

func (s *Service) exportYAML(path string, snapshot *Snapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	s.logger.Info().Str("path", path).Int("bytes", len(data)).Msg("Session exported to YAML")
	return nil
}

func (s *Service) exportPDF(path string, snapshot *Snapshot) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.MultiCell(0, 8, "Session export", "", "L", false)
	pdf.SetFont("Arial", "", 8)
	pdf.MultiCell(0, 5, snapshot.ExportedAt.Format(time.RFC1123), "", "L", false)
	pdf.Ln(4)

	if snapshot.Document != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.MultiCell(0, 6, "Active document", "", "L", false)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, snapshot.Document, "", "L", false)
		pdf.Ln(3)
	}

	if snapshot.LastQuery != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.MultiCell(0, 6, "Last query", "", "L", false)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, snapshot.LastQuery, "", "L", false)
		pdf.Ln(2)

		for i, result := range snapshot.Results {
			pdf.SetFont("Arial", "B", 9)
			header := fmt.Sprintf("%d. %s (page %d, score %.1f%%)",
				i+1, result.Metadata.FileName, result.Metadata.PageNumber, result.Score*100)
			pdf.MultiCell(0, 5, header, "", "L", false)
			pdf.SetFont("Arial", "", 9)
			pdf.MultiCell(0, 5, result.Text, "", "L", false)
			pdf.Ln(2)
		}
		pdf.Ln(2)
	}

	if len(snapshot.Transcript) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.MultiCell(0, 6, "Transcript", "", "L", false)
		for _, message := range snapshot.Transcript {
			pdf.SetFont("Arial", "B", 9)
			pdf.MultiCell(0, 5, string(message.Role), "", "L", false)
			pdf.SetFont("Arial", "", 9)
			pdf.MultiCell(0, 5, message.Content, "", "L", false)
			pdf.Ln(2)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF export: %w", err)
	}

	s.logger.Info().Str("path", path).Msg("Session exported to PDF")
	return nil
}
