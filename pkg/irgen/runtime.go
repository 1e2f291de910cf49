// Package irgen wraps github.com/llir/llvm as the external IR Builder
// collaborator the front-end's code generator drives. It owns module
// creation, the runtime extern declarations, the AnchorString record
// type, and per-function value bookkeeping, modeled on the upstream
// library's own Module/Func/Block construction API.
package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// runtime holds the externally-linked C functions every Anchor module
// declares once, up front.
type runtime struct {
	printf *ir.Func
	malloc *ir.Func
	free   *ir.Func
	memcpy *ir.Func
}

// declareRuntime declares printf/malloc/free/memcpy with external linkage
// on mod, matching the signatures:
//
//	printf(i8*, ...) -> i32
//	malloc(i32) -> i32*
//	free(...) -> void
//	memcpy(i8*, i8*, i32) -> void
func declareRuntime(mod *ir.Module) *runtime {
	printf := mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true

	malloc := mod.NewFunc("malloc", types.NewPointer(types.I32), ir.NewParam("size", types.I32))

	free := mod.NewFunc("free", types.Void)
	free.Sig.Variadic = true

	memcpy := mod.NewFunc("memcpy", types.Void,
		ir.NewParam("dst", types.I8Ptr),
		ir.NewParam("src", types.I8Ptr),
		ir.NewParam("n", types.I32),
	)

	return &runtime{printf: printf, malloc: malloc, free: free, memcpy: memcpy}
}
