package vm

import (
	"github.com/waavs-go/pslang/internal/name"
	"github.com/waavs-go/pslang/internal/object"
)

// def installs fn into systemdict under the given operator name, the way
// the original bootstraps its interpreter's built-in table.
func (v *VM) def(opName string, fn Func) {
	n := name.Intern(opName)
	op := &object.Operator{Name: n, Fn: fn}
	v.SystemDict.Put(n, object.NewOperator(op))
}

// RegisterBuiltins installs the representative operator selection named in
// spec.md §4.9 into v's systemdict. Grouped by file per category
// (stack/math/compare/control/dict/array-string/path/graphics/resource/
// file/print) to mirror how a hand-written interpreter's builtin table is
// usually split.
func RegisterBuiltins(v *VM) {
	registerStackOps(v)
	registerMathOps(v)
	registerCompareOps(v)
	registerControlOps(v)
	registerDictOps(v)
	registerArrayStringOps(v)
	registerPathOps(v)
	registerGraphicsOps(v)
	registerResourceOps(v)
	registerFileOps(v)
	registerPrintOps(v)

	v.SystemDict.Put(name.Intern("systemdict"), object.Object{Kind: object.DictObj, Dict: v.SystemDict})
	v.SystemDict.Put(name.Intern("userdict"), object.Object{Kind: object.DictObj, Dict: v.UserDict})
	v.SystemDict.Put(name.Intern("globaldict"), object.Object{Kind: object.DictObj, Dict: v.GlobalDict})
	v.SystemDict.Put(name.Intern("errordict"), object.Object{Kind: object.DictObj, Dict: v.ErrorDict})
	v.SystemDict.Put(name.Intern("$error"), object.Object{Kind: object.DictObj, Dict: v.ErrorState})
}

// registerErrorHandlers seeds errordict with the default handlers: each
// just records into $error (already done by raiseError before the handler
// runs) and stops, matching spec.md §7's "typically saves context ... and
// invokes stop".
func registerErrorHandlers(v *VM) {
	stopProc := func(vm *VM) error {
		vm.RequestStop()
		return nil
	}
	for _, kind := range []string{
		"stackunderflow", "stackoverflow", "typecheck", "rangecheck",
		"undefined", "undefinedresult", "invalidaccess", "invalidfileaccess",
		"ioerror", "limitcheck", "nocurrentpoint", "unmatchedmark",
		"dictstackunderflow", "dictfull", "syntaxerror", "VMerror",
	} {
		n := name.Intern(kind)
		op := &object.Operator{Name: n, Fn: Func(stopProc)}
		v.ErrorDict.Put(n, object.NewOperator(op))
	}
}
