package session

import (
	"context"
)

// ConfirmFunc asks the user to confirm deletion of the named document
type ConfirmFunc func(documentName string) bool

// Delete runs the deletion flow. It is gated on a stored credential and an
// active document name, each missing precondition failing locally with its
// own message and no network call, then on explicit confirmation.
//
// Success resets document name, upload error, upload success message, last
// query, query results, query error and chat transcript at once. Failure sets
// only the deletion error field.
func (s *Service) Delete(ctx context.Context, confirm ConfirmFunc) {
	if !s.hasCredential(ctx) {
		s.state.SetDeleteError(msgDeleteCredentialMissing)
		return
	}

	documentName := s.state.UploadedFileName()
	if documentName == "" {
		s.state.SetDeleteError(msgDeleteNoDocument)
		return
	}

	if confirm != nil && !confirm(documentName) {
		return
	}

	s.state.SetDeleting(true)
	s.state.SetDeleteError("")
	defer s.state.SetDeleting(false)

	resp, err := s.gateway.DeleteAllDocuments(ctx)
	if err != nil {
		s.state.SetDeleteError(err.Error())
		return
	}

	s.logger.Info().
		Str("session", s.sessionID).
		Str("document", documentName).
		Str("detail", resp.Detail).
		Msg("Documents deleted")

	s.state.ResetDocumentSession(msgDeleteSuccess)
}
