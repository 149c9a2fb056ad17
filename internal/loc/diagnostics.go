package loc

type DiagnosticCode int

const (
	ERROR                             DiagnosticCode = 1000
	ERROR_UNTERMINATED_JS_COMMENT     DiagnosticCode = 1001
	ERROR_FRAGMENT_SHORTHAND_ATTRS    DiagnosticCode = 1002
	ERROR_UNMATCHED_IMPORT            DiagnosticCode = 1003
	ERROR_UNSUPPORTED_SLOT_ATTRIBUTE  DiagnosticCode = 1004
	WARNING                           DiagnosticCode = 2000
	WARNING_UNTERMINATED_HTML_COMMENT DiagnosticCode = 2001
	WARNING_UNCLOSED_HTML_TAG         DiagnosticCode = 2002
	WARNING_DEPRECATED_DIRECTIVE      DiagnosticCode = 2003
	WARNING_IGNORED_DIRECTIVE         DiagnosticCode = 2004
	WARNING_UNSUPPORTED_EXPRESSION    DiagnosticCode = 2005
	WARNING_SET_WITH_CHILDREN         DiagnosticCode = 2006
	WARNING_CANNOT_DEFINE_VARS        DiagnosticCode = 2007
	WARNING_INVALID_SPREAD            DiagnosticCode = 2008
	INFO                              DiagnosticCode = 3000
	HINT                              DiagnosticCode = 4000
)

// DiagnosticSeverity mirrors the four severities a compile result can carry
// (spec.md §7).
type DiagnosticSeverity int

const (
	ErrorType DiagnosticSeverity = iota + 1
	WarningType
	InformationType
	HintType
)

// DiagnosticLocation resolves a Range to human-readable coordinates: a
// 1-based line and a 0-based column, matching the original implementation's
// diagnostic formatter (SPEC_FULL.md §5).
type DiagnosticLocation struct {
	File   string `js:"file"`
	Line   int    `js:"line"`
	Column int    `js:"column"`
	Length int    `js:"length"`
}

// DiagnosticMessage is the wire shape returned to callers (spec.md §7): every
// accumulated error/warning/info/hint is converted to one of these before
// leaving the compiler.
type DiagnosticMessage struct {
	Code       DiagnosticCode      `js:"code"`
	Severity   int                 `js:"severity"`
	Text       string              `js:"text"`
	Location   *DiagnosticLocation `js:"location"`
	Hint       string              `js:"hint"`
}

// ErrorWithRange is the carrier type produced throughout the scanner,
// transform and printer packages: a diagnostic tied to a byte Range in the
// source, resolved to line/column only once, at the point it's reported.
type ErrorWithRange struct {
	Code       DiagnosticCode
	Text       string
	Hint       string
	Suggestion string
	Range      Range
}

func (e *ErrorWithRange) Error() string {
	return e.Text
}

// ToMessage converts the range-carrying error into the wire shape, given a
// location that has already been resolved against a chunk builder.
func (e *ErrorWithRange) ToMessage(location *DiagnosticLocation) DiagnosticMessage {
	hint := e.Hint
	if hint == "" {
		hint = e.Suggestion
	}
	return DiagnosticMessage{
		Code:     e.Code,
		Text:     e.Text,
		Hint:     hint,
		Location: location,
	}
}
