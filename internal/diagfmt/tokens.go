package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"plint/internal/token"
)

// TokenOutput is the JSON form of a token.
type TokenOutput struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// FormatTokensPretty prints one token per line.
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%4d: %-16s %4d:%-3d", i+1, tok.Kind.String(), tok.Loc.Line, tok.Loc.Col); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintln(w)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON prints the tokens as a JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, TokenOutput{Kind: tok.Kind.String(), Text: tok.Text, Line: tok.Loc.Line, Col: tok.Loc.Col})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
