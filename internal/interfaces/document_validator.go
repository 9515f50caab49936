package interfaces

// DocumentValidator enforces the upload boundary constraint: input must be a
// single existing PDF file. It runs before any network call is made.
type DocumentValidator interface {
	// Validate checks the file at path and returns its page count. The error
	// message is user-displayable.
	Validate(path string) (int, error)
}
