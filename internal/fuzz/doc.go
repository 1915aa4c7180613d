// Package fuzztests houses Go fuzz harnesses for the scanner and the
// parser. They guard against panics escaping a file and against hangs on
// arbitrary input.
//
// Назначение: прогонять произвольные байты через лексер и парсер.
//
// Не делает: генерацию корпусов, запуск CLI.
package fuzztests
