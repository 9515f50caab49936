package models

// UploadResponse is the success payload of POST /api/upload
type UploadResponse struct {
	Message  string `json:"message"`
	Chunks   int    `json:"chunks"`
	Filename string `json:"filename"`
}

// DeleteResponse is the success payload of DELETE /api/documents
type DeleteResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is the payload of GET /api/health
type HealthResponse struct {
	Status string `json:"status"`
}
