// Package token defines lexical token kinds and trivia for safethunk
// interface files and textual expressions.
// Invariants:
//   - Token.Text is the exact source text of Token.Span; identifiers are
//     additionally NFC-normalized in Token.Text.
//   - Attributes are lexed as '@' (Kind: At) + Ident; no per-attribute token kinds.
//   - Comments are leading Trivia and never appear in the main token stream.
//   - Type names (UnsafePointer, Span, CInt, ...) are identifiers.
package token
