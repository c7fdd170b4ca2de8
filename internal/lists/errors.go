package lists

// Kind classifies business-rule failures so the API layer can pick a status.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
)

// Error is a business-rule failure. Match it with errors.Is against
// ErrValidation, ErrConflict or ErrNotFound; the message is safe to show to
// clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict   = &Error{Kind: KindConflict, Message: "conflict"}
	ErrNotFound   = &Error{Kind: KindNotFound, Message: "not found"}
)

func invalid(msg string) error  { return &Error{Kind: KindValidation, Message: msg} }
func conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }
func notFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

const (
	msgListNotFound       = "list not found"
	msgSharedNotFound     = "shared list not found"
	msgNameRequired       = "list name is required"
	msgDuplicateName      = "you already have a list with this name"
	msgRenameDefault      = "default lists cannot be renamed"
	msgDeleteDefault      = "default lists cannot be deleted"
	msgDuplicateMovie     = "movie is already in this list"
	msgMovieIDRequired    = "movieId must be a positive integer"
	msgMovieTitleRequired = "title is required"
)
