package docfold

import "errors"

// Sentinel errors for library operations.
//
// Pipeline failure kinds. Every stage failure is wrapped with exactly one
// of these so callers can map it to a user-facing message without parsing
// error strings.
var (
	// ErrMarkdownRender indicates the Markdown source could not be turned
	// into HTML. Recoverable by failing the single conversion.
	ErrMarkdownRender = errors.New("markdown rendering failed")

	// ErrEngineLaunch indicates the headless browser could not be started
	// or connected to. Environment/resource issue; never retried
	// automatically.
	ErrEngineLaunch = errors.New("failed to launch rendering engine")

	// ErrRenderTimeout indicates the in-page render-complete signal never
	// arrived within the configured budget. The engine instance is killed;
	// the caller may retry the whole conversion.
	ErrRenderTimeout = errors.New("render-complete signal timed out")

	// ErrOutlineBuild indicates an internal consistency violation while
	// wiring the bookmark object graph. Always a defect, never expected.
	ErrOutlineBuild = errors.New("outline construction failed")

	// ErrConversionTimeout indicates the whole-run wall-clock budget
	// expired, regardless of which stage was active.
	ErrConversionTimeout = errors.New("conversion timed out")

	// ErrPageRender indicates the engine produced no usable paginated
	// output (navigation or PrintToPDF failure after a successful launch).
	ErrPageRender = errors.New("page rendering failed")

	// ErrInternal covers anything unclassified, including recovered panics.
	ErrInternal = errors.New("internal error")
)

// Input validation errors.
var (
	ErrEmptyMarkdown      = errors.New("markdown content cannot be empty")
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
	ErrInvalidFooterPos   = errors.New("invalid footer position")
	ErrUnknownEngine      = errors.New("unknown rendering engine")
)
