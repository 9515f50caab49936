package interfaces

import (
	"context"
	"io"

	"github.com/ternarybob/scribe/internal/models"
)

// Gateway is the client for the document question-answering service.
//
// Every operation returns either a result or an error, never both. Errors are
// normalized at this boundary: their Error() string is always non-empty and
// user-displayable, a raw transport fault is never propagated. The stored
// credential is attached to each request as the X-API-Key header when present;
// its absence is not blocked here, the service decides whether to reject.
type Gateway interface {
	// CheckHealth calls GET /api/health. Any failure yields the same fixed
	// "Service is unhealthy" error, it never returns a raw fault.
	CheckHealth(ctx context.Context) (*models.HealthResponse, error)

	// UploadDocument posts the file as multipart form data to /api/upload.
	// Callers are expected to restrict input to a single PDF file before
	// calling, enforcement happens at the UI boundary.
	UploadDocument(ctx context.Context, fileName string, content io.Reader) (*models.UploadResponse, error)

	// QueryDocuments posts the request to /api/query. Optional limit and
	// score_threshold values are passed through verbatim.
	QueryDocuments(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error)

	// SendChatMessage posts the request to /api/chat. On success the open
	// response body is returned as a live byte stream for the caller to drain
	// and close. On a non-2xx status the error reads
	// "HTTP error <status>: <detail>".
	SendChatMessage(ctx context.Context, req *models.ChatRequest) (io.ReadCloser, error)

	// DeleteAllDocuments calls DELETE /api/documents and decodes the detail
	// message on success. Failures use the same formatting as chat.
	DeleteAllDocuments(ctx context.Context) (*models.DeleteResponse, error)
}
