package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/scribe/internal/interfaces"
	"github.com/ternarybob/scribe/internal/models"
)

// fakeCredentials implements interfaces.CredentialStore for testing
type fakeCredentials struct {
	key string
}

func (f *fakeCredentials) Get(ctx context.Context) (string, error) {
	if f.key == "" {
		return "", interfaces.ErrCredentialNotSet
	}
	return f.key, nil
}

func (f *fakeCredentials) Set(ctx context.Context, value string) error {
	f.key = value
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, key string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(&fakeCredentials{key: key},
		WithBaseURL(server.URL),
		WithRateLimit(1000),
	)
}

func TestCheckHealth_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/health", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("X-API-Key"))
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}, "sk-test")

	resp, err := client.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

func TestCheckHealth_UnreachableIsIdempotent(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(&fakeCredentials{}, WithBaseURL(url), WithRateLimit(1000))

	// Repeated checks against an unreachable service always yield the same
	// fixed result, never a raw transport fault
	for i := 0; i < 3; i++ {
		resp, err := client.CheckHealth(context.Background())
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.Equal(t, "Service is unhealthy", err.Error())
	}
}

func TestCheckHealth_Non200(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, "sk-test")

	_, err := client.CheckHealth(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Service is unhealthy", err.Error())
}

func TestUploadDocument_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/upload", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("X-API-Key"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "report.pdf", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-fake", string(content))

		json.NewEncoder(w).Encode(models.UploadResponse{
			Message:  "Document processed",
			Chunks:   3,
			Filename: "report.pdf",
		})
	}, "sk-test")

	resp, err := client.UploadDocument(context.Background(), "report.pdf", strings.NewReader("%PDF-fake"))
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", resp.Filename)
	assert.Equal(t, 3, resp.Chunks)
}

func TestUploadDocument_MissingCredentialStillSent(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		// No credential header, the request still goes out as-is: the
		// service is the authority on rejecting it
		assert.Empty(t, r.Header.Get("X-API-Key"))
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid API key"})
	}, "")

	_, err := client.UploadDocument(context.Background(), "a.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Invalid API key", err.Error())
}

func TestUploadDocument_ErrorWithoutDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>boom</html>"))
	}, "sk-test")

	_, err := client.UploadDocument(context.Background(), "a.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, "Failed to upload file", err.Error())
}

func TestQueryDocuments_RequestPassthrough(t *testing.T) {
	limit := 5
	threshold := 0.7

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/query", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "what is the revenue", body["query"])
		assert.Equal(t, float64(5), body["limit"])
		assert.Equal(t, 0.7, body["score_threshold"])

		json.NewEncoder(w).Encode(models.QueryResponse{
			Query: "what is the revenue",
			Results: []models.QueryResult{
				{
					Text:  "Revenue was $10M",
					Score: 0.92,
					Metadata: models.QueryResultMetadata{
						FileName:   "report.pdf",
						PageNumber: 4,
						HasTables:  true,
					},
				},
			},
		})
	}, "sk-test")

	resp, err := client.QueryDocuments(context.Background(), &models.QueryRequest{
		Query:          "what is the revenue",
		Limit:          &limit,
		ScoreThreshold: &threshold,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Revenue was $10M", resp.Results[0].Text)
	assert.Equal(t, 4, resp.Results[0].Metadata.PageNumber)
	assert.True(t, resp.Results[0].Metadata.HasTables)
	assert.InDelta(t, 0.92, resp.Results[0].Score, 0.001)
}

func TestQueryDocuments_OptionalFieldsOmitted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasLimit := body["limit"]
		_, hasThreshold := body["score_threshold"]
		assert.False(t, hasLimit)
		assert.False(t, hasThreshold)
		json.NewEncoder(w).Encode(models.QueryResponse{Query: "q"})
	}, "sk-test")

	_, err := client.QueryDocuments(context.Background(), &models.QueryRequest{Query: "q"})
	require.NoError(t, err)
}

func TestQueryDocuments_ErrorDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "No documents uploaded"})
	}, "sk-test")

	_, err := client.QueryDocuments(context.Background(), &models.QueryRequest{Query: "q"})
	require.Error(t, err)
	assert.Equal(t, "No documents uploaded", err.Error())
}

func TestSendChatMessage_StreamsBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["user_message"])
		assert.NotEmpty(t, body["developer_message"])

		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
		for _, chunk := range []string{"He", "llo", " there"} {
			w.Write([]byte(chunk))
			flusher.Flush()
		}
	}, "sk-test")

	stream, err := client.SendChatMessage(context.Background(), &models.ChatRequest{
		DeveloperMessage: "You are a helpful assistant.",
		UserMessage:      "hello",
	})
	require.NoError(t, err)
	defer stream.Close()

	content, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "Hello there", string(content))
}

func TestSendChatMessage_HTTPErrorWithDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid API key"})
	}, "sk-test")

	_, err := client.SendChatMessage(context.Background(), &models.ChatRequest{UserMessage: "hi"})
	require.Error(t, err)
	assert.Equal(t, "HTTP error 401: Invalid API key", err.Error())
}

func TestSendChatMessage_HTTPErrorWithoutDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("gateway timeout"))
	}, "sk-test")

	_, err := client.SendChatMessage(context.Background(), &models.ChatRequest{UserMessage: "hi"})
	require.Error(t, err)
	assert.Equal(t, "HTTP error 503: Failed to send chat message", err.Error())
}

func TestDeleteAllDocuments_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/documents", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("X-API-Key"))
		json.NewEncoder(w).Encode(map[string]string{"detail": "All documents deleted"})
	}, "sk-test")

	resp, err := client.DeleteAllDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "All documents deleted", resp.Detail)
}

func TestDeleteAllDocuments_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "vector store unavailable"})
	}, "sk-test")

	_, err := client.DeleteAllDocuments(context.Background())
	require.Error(t, err)
	assert.Equal(t, "HTTP error 500: vector store unavailable", err.Error())
}
