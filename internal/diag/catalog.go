package diag

// Explanation pairs a diagnostic code with its short one-line message
// template and a longer prose explanation, surfaced by "wj explain <code>"
// (§6) and by lsp.Hover when a diagnostic is under the cursor.
type Explanation struct {
	Code  string
	Short string
	Long  string
}

// Catalog is the registry of every stable diagnostic code the compiler can
// emit, grouped by pass: 00xx lexer, 01xx parser, 02xx resolve (Pass A),
// 03xx type reconstruction (Pass B), 04xx derive inference (Pass D), 05xx
// ownership/borrow (WJ0502 is reported by Pass E from Pass C's facts),
// 06xx codegen, 09xx internal/wrapped errors (file I/O, backend failures).
var Catalog = map[string]Explanation{
	"WJ0001": {
		Code:  "WJ0001",
		Short: "unexpected character",
		Long:  "The lexer encountered a byte sequence that does not begin any recognized token.",
	},
	"WJ0002": {
		Code:  "WJ0002",
		Short: "unterminated string literal",
		Long:  "A string literal's closing '\"' was not found before end of file or an unescaped newline.",
	},
	"WJ0003": {
		Code:  "WJ0003",
		Short: "unterminated character literal",
		Long:  "A character literal's closing '\\'' was not found.",
	},
	"WJ0004": {
		Code:  "WJ0004",
		Short: "unknown escape sequence",
		Long:  "A backslash in a string or character literal was followed by a character that has no defined escape meaning.",
	},
	"WJ0100": {
		Code:  "WJ0100",
		Short: "unexpected token",
		Long:  "The parser expected one kind of token at this position but found another; recovery resumes at the next item boundary.",
	},
	"WJ0012": {
		Code:  "WJ0012",
		Short: "expected '::' between path segments",
		Long:  "A qualified path uses '.' or '/' where the module separator '::' is required. Both characters are valid operators elsewhere, so this is only an error in path position.",
	},
	"WJ0200": {
		Code:  "WJ0200",
		Short: "unresolved name",
		Long:  "No definition in scope matches this identifier. If a similarly-named definition exists, a fix suggests renaming to it.",
	},
	"WJ0201": {
		Code:  "WJ0201",
		Short: "ambiguous glob import",
		Long:  "Two or more glob ('use path::*') imports bring a definition of this name into scope, and no explicit import disambiguates it.",
	},
	"WJ0300": {
		Code:  "WJ0300",
		Short: "type mismatch",
		Long:  "The bidirectional local type reconstruction pass could not unify the expected and inferred types at this expression.",
	},
	"WJ0400": {
		Code:  "WJ0400",
		Short: "derive override has no effect",
		Long:  "An explicit '@derive(+T)' or '@derive(-T)' override names a trait the structural eligibility table already resolves the same way.",
	},
	"WJ0401": {
		Code:  "WJ0401",
		Short: "derive override requested for structurally-ineligible trait",
		Long:  "'@derive(+T)' forces derivation of T, but a field's type does not itself implement T, so the generated impl will not compile.",
	},
	"WJ0501": {
		Code:  "WJ0501",
		Short: "ownership mode inferred conservatively across module boundary",
		Long:  "A call site's callee lives in a module whose signature is not yet resolved in this pass, so the argument's use-site mode defaults to the safe (cloning) choice. Add an explicit '&' at the call site if this should borrow instead.",
	},
	"WJ0502": {
		Code:  "WJ0502",
		Short: "use after move",
		Long:  "A binding was moved (passed by value, returned, or stored) and is used again afterward in a position that requires it still be valid.",
	},
	"WJ0900": {
		Code:  "WJ0900",
		Short: "internal error",
		Long:  "An unexpected internal failure (file I/O, backend error) was wrapped into a diagnostic rather than aborting the whole compile session.",
	},
}

// Lookup returns the Explanation for code and whether it was found.
func Lookup(code string) (Explanation, bool) {
	e, ok := Catalog[code]
	return e, ok
}
