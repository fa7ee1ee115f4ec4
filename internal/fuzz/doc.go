// Package fuzztests houses Go fuzz harnesses for the path an interface file
// takes through safethunk (source -> lexer -> parser -> thunk -> format).
// Its goal is to smoke test robustness and guard against panics or hangs on
// arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, парсер
// и синтез обёрток.
//
// Не делает: запись файлов, кэш, выполнение CLI.

package fuzztests
