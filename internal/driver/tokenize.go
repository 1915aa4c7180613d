package driver

import (
	"plint/internal/diag"
	"plint/internal/lexer"
	"plint/internal/source"
	"plint/internal/token"
)

// TokenizeResult is the token stream of one file.
type TokenizeResult struct {
	Path   string
	Tokens []token.Token
	Bag    *diag.Bag
}

// Tokenize scans path without parsing it. A fatal scanner condition ends
// the stream early and is reported in the bag.
func Tokenize(path, encoding string, maxDiagnostics int) (*TokenizeResult, error) {
	r, err := source.OpenFile(path, encoding)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	bag := diag.NewBag(maxDiagnostics)
	toks, fatal := lexer.Tokenize(r, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	if fatal != nil {
		bag.Add(diag.NewError(fatal.Code, fatal.Loc, fatal.Msg))
	}
	return &TokenizeResult{Path: r.Path(), Tokens: toks, Bag: bag}, nil
}
