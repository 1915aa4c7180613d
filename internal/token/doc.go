// Package token defines lexical token kinds produced by the scanner.
// Invariants:
//   - Keywords and magic constants are case-insensitive.
//   - Annotation words (void, int, throws, triggers, ...) only exist between
//     /*. and .*/; in code they are identifiers.
//   - Built-in type names in code (int, string, ...) are identifiers; the
//     parser recognizes them.
//   - Token.Loc points at the first byte of the lexeme and carries the text
//     of its line for diagnostics.
package token
