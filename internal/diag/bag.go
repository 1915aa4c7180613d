package diag

import (
	"fmt"
	"sort"
)

type Bag struct {
	items  []Diagnostic
	max    int
	counts Counts
}

// NewBag returns a bag keeping at most max diagnostics (0 = unlimited).
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 256 {
		capHint = 64
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
// Счётчики обновляются всегда.
func (b *Bag) Add(d Diagnostic) bool {
	b.counts.add(d.Severity)
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// RestoreBag rebuilds a bag from stored diagnostics and the totals that
// were counted when they were produced.
func RestoreBag(max int, items []Diagnostic, counts Counts) *Bag {
	b := NewBag(max)
	b.items = append(b.items, items...)
	b.counts = counts
	return b
}

func (b *Bag) Cap() int {
	return b.max
}

// Counts returns totals per severity, including dropped diagnostics.
func (b *Bag) Counts() Counts {
	return b.counts
}

// HasErrors возвращает true, если есть хотя бы одна ошибка
func (b *Bag) HasErrors() bool {
	return b.counts.Errors > 0
}

// HasWarnings возвращает true, если есть хотя бы одно предупреждение
func (b *Bag) HasWarnings() bool {
	return b.counts.Warnings > 0
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	b.counts.Errors += other.counts.Errors
	b.counts.Warnings += other.counts.Warnings
	b.counts.Notices += other.counts.Notices
}

// Sort сортирует диагностики по: file, line, column, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i].Primary, b.items[j].Primary
		// сначала по файлу
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Col != dj.Col {
			return di.Col < dj.Col
		}
		// затем по severity (по убыванию: Error > Warning > Notice)
		if b.items[i].Severity != b.items[j].Severity {
			return b.items[i].Severity > b.items[j].Severity
		}
		return b.items[i].Code < b.items[j].Code
	})
}

// простая дедупликация (по Code+Primary+Message)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s:%s", d.Code.ID(), d.Primary.String(), d.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}

// Filter keeps only diagnostics accepted by keep. Counters are left as they were.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	out := b.items[:0]
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	b.items = out
}

// Transform applies fn to every stored diagnostic, moving counters along
// with changed severities.
func (b *Bag) Transform(fn func(Diagnostic) Diagnostic) {
	for i := range b.items {
		before := b.items[i].Severity
		b.items[i] = fn(b.items[i])
		if after := b.items[i].Severity; after != before {
			b.counts.remove(before)
			b.counts.add(after)
		}
	}
}
