package parser

import (
	"fmt"

	"plint/internal/diag"
	"plint/internal/source"
	"plint/internal/throws"
	"plint/internal/types"
)

// thrown records that exception e may leave the code at loc. It is
// caught by the innermost try, declared by the enclosing callable, or
// demotes the package when thrown at top level.
func (pk *Package) thrown(e types.ClassID, loc source.Location) {
	if e == types.NoClassID || pk.ctx.Classes.IsUnchecked(e) {
		return
	}
	if n := len(pk.tries); n > 0 {
		f := pk.tries[n-1]
		if !f.set.Has(e) {
			f.set.Put(e)
			f.locs[e] = loc
		}
		return
	}
	name := pk.ctx.Classes.ClassName(e)
	if pk.fn != nil {
		if !pk.fn.sig.Exceptions.Includes(e, pk.ctx.Classes) {
			pk.errorf(diag.SemaUncaughtException, loc, "exception %s is neither caught nor declared by %s", name, pk.fn.what)
		}
		return
	}
	pk.warnf(diag.SemaTopLevelThrow, loc, "exception %s thrown at top level", name)
	pk.sym.Demote(fmt.Sprintf("uncaught exception %s", name), loc)
}

// triggered records that error kind k may be raised at loc. Silenced code
// does not count.
func (pk *Package) triggered(k throws.ErrorKind, loc source.Location) {
	if pk.silence > 0 {
		return
	}
	if pk.fn != nil {
		if !pk.fn.sig.Errors.Contains(k) {
			pk.errorf(diag.SemaUndeclaredTrigger, loc, "%s may trigger %s but does not declare it", pk.fn.what, k)
		}
		return
	}
	pk.warnf(diag.SemaTopLevelThrow, loc, "%s triggered at top level", k)
	pk.sym.Demote(fmt.Sprintf("triggers %s", k), loc)
}

// pushTry opens the frame of a try block.
func (pk *Package) pushTry() *tryFrame {
	f := &tryFrame{set: throws.NewExceptions(), locs: make(map[types.ClassID]source.Location)}
	pk.tries = append(pk.tries, f)
	return f
}

func (pk *Package) popTry() {
	pk.tries = pk.tries[:len(pk.tries)-1]
}
