package domain

import "errors"

var (
	ErrInvalidDocument    = errors.New("invalid document")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrShapeMismatch      = errors.New("vector dimension mismatch")
	ErrEmbeddingFailure   = errors.New("embedding failed")
	ErrEmbeddingTimeout   = errors.New("embedding timed out")
	ErrOutOfRange         = errors.New("ordinal out of range")
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")
	ErrInvalidTopK        = errors.New("top_k must be positive")
	ErrInvalidQuestion    = errors.New("question must not be empty")
	ErrGenerationFailure  = errors.New("answer generation failed")
)

// OpError records the operation that failed alongside the underlying error.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *OpError) Unwrap() error { return e.Err }

// Op wraps err with the operation name. A nil err stays nil.
func Op(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}
