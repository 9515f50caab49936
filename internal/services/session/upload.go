package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Upload runs the upload flow for the file at path:
// Idle -> Uploading -> Success or Failure, back to Idle for the next attempt.
//
// The PDF boundary check and the credential guard both short-circuit with a
// local error and no network call. On success the active document name is
// set; on failure it is cleared.
func (s *Service) Upload(ctx context.Context, path string) {
	if s.validator != nil {
		pages, err := s.validator.Validate(path)
		if err != nil {
			s.state.SetUploadError(err.Error())
			s.state.SetUploadedFileName("")
			s.state.SetUploadSuccessMessage("")
			return
		}
		s.logger.Debug().Str("file", path).Int("pages", pages).Msg("Upload candidate validated")
	}

	if !s.hasCredential(ctx) {
		s.state.SetUploadError(msgUploadCredentialRequired)
		s.state.SetUploadedFileName("")
		s.state.SetUploadSuccessMessage("")
		return
	}

	s.state.SetUploading(true)
	s.state.SetUploadError("")
	s.state.SetUploadSuccessMessage("")
	defer s.state.SetUploading(false)

	file, err := os.Open(path)
	if err != nil {
		s.state.SetUploadError(err.Error())
		s.state.SetUploadedFileName("")
		return
	}
	defer file.Close()

	resp, err := s.gateway.UploadDocument(ctx, filepath.Base(path), file)
	if err != nil {
		s.state.SetUploadError(rewriteCredentialError(err.Error()))
		s.state.SetUploadedFileName("")
		return
	}

	s.state.SetUploadSuccessMessage(fmt.Sprintf("Successfully uploaded %s (%d chunks)", resp.Filename, resp.Chunks))
	s.state.SetUploadedFileName(resp.Filename)
	s.state.SetUploadError("")

	s.logger.Info().
		Str("session", s.sessionID).
		Str("file", resp.Filename).
		Int("chunks", resp.Chunks).
		Msg("Upload flow completed")
}
