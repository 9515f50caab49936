package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/scribe/internal/models"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		ExportedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		Document:   "report.pdf",
		LastQuery:  "what is the revenue",
		Results: []models.QueryResult{
			{
				Text:  "Revenue was $10M",
				Score: 0.92,
				Metadata: models.QueryResultMetadata{
					FileName:   "report.pdf",
					PageNumber: 4,
				},
			},
		},
		Transcript: []models.ChatMessage{
			{Role: models.ChatRoleUser, Content: "hello"},
			{Role: models.ChatRoleAssistant, Content: "Hello there"},
		},
	}
}

func TestExport_YAML(t *testing.T) {
	service := NewService(arbor.NewLogger())
	path := filepath.Join(t.TempDir(), "session.yaml")

	require.NoError(t, service.Export(path, sampleSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var restored Snapshot
	require.NoError(t, yaml.Unmarshal(data, &restored))
	assert.Equal(t, "report.pdf", restored.Document)
	assert.Equal(t, "what is the revenue", restored.LastQuery)
	require.Len(t, restored.Results, 1)
	assert.Equal(t, "Revenue was $10M", restored.Results[0].Text)
	require.Len(t, restored.Transcript, 2)
	assert.Equal(t, models.ChatRoleAssistant, restored.Transcript[1].Role)
}

func TestExport_YMLExtension(t *testing.T) {
	service := NewService(arbor.NewLogger())
	path := filepath.Join(t.TempDir(), "session.yml")
	require.NoError(t, service.Export(path, sampleSnapshot()))
	assert.FileExists(t, path)
}

func TestExport_PDF(t *testing.T) {
	service := NewService(arbor.NewLogger())
	path := filepath.Join(t.TempDir(), "session.pdf")

	require.NoError(t, service.Export(path, sampleSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExport_EmptySnapshotPDF(t *testing.T) {
	service := NewService(arbor.NewLogger())
	path := filepath.Join(t.TempDir(), "empty.pdf")

	require.NoError(t, service.Export(path, &Snapshot{ExportedAt: time.Now()}))
	assert.FileExists(t, path)
}

func TestExport_UnsupportedExtension(t *testing.T) {
	service := NewService(arbor.NewLogger())

	err := service.Export(filepath.Join(t.TempDir(), "session.csv"), sampleSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}
