// Package format prints declarations, types, expressions and statements back
// to interface-file syntax.
//
// Назначение: вывод синтезированных обёрток и round-trip проверки парсера.
// Не делает: сохранения исходного форматирования, комментариев вне doc-строк или IO.
// Зависимости: internal/ast, internal/parser (только CheckRoundTrip).
package format
