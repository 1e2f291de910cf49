package irgen

import (
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// ValueLookup is a per-function table of identifier -> value: parameter and
// local allocas, plus the declared functions copied in from the enclosing
// table when the function is entered.
type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{vals: make(map[string]value.Value)}
}

// Inherit copies every binding from other into l, overwriting bindings of
// the same name. Used when entering a function body so functions declared
// in the enclosing table remain callable.
func (l *ValueLookup) Inherit(other *ValueLookup) {
	for k, v := range other.vals {
		l.Set(k, v)
	}
}

func (l *ValueLookup) Get(id string) value.Value {
	if v, ok := l.vals[id]; ok {
		return v
	}

	// Reaching here means the identifier was never declared: the parser
	// resolves such a reference to NOT_FOUND and reports it only when it
	// takes part in a type mismatch.
	panic("irgen: undefined identifier: " + id)
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

// IRBuilder is the external IR Builder collaborator the code generator
// drives. It owns one module, the current insertion point, and the current
// function's value table.
type IRBuilder struct {
	mod              *ir.Module
	runtime          *runtime
	anchorStringType *types.StructType

	fn     *ir.Func
	block  *ir.Block
	values *ValueLookup

	globalSeq int
}

// NewIRBuilder creates a module, declares the runtime externs, and defines
// the AnchorString record type.
func NewIRBuilder() *IRBuilder {
	mod := ir.NewModule()
	b := &IRBuilder{
		mod:     mod,
		runtime: declareRuntime(mod),
		values:  NewValueLookup(),
	}
	b.anchorStringType = types.NewStruct(types.I8Ptr, types.I32)
	b.anchorStringType.TypeName = "AnchorString"
	mod.TypeDefs = append(mod.TypeDefs, b.anchorStringType)

	return b
}

// Module returns the module being built. Call once code generation is
// complete; String()-ing it produces the textual IR dump.
func (b *IRBuilder) Module() *ir.Module {
	return b.mod
}

// IRType maps a source primitive type to its IR representation.
func (b *IRBuilder) IRType(t SourceType) types.Type {
	switch t {
	case TypeInteger:
		return types.I32
	case TypeBoolean:
		return types.I1
	case TypeString:
		return types.NewPointer(b.anchorStringType)
	default:
		return types.Void
	}
}

// SourceType is the minimal type tag irgen needs; codegen.go maps its own
// anchor.Type onto this set so the package stays independent of the parser.
type SourceType int

const (
	TypeVoid SourceType = iota
	TypeInteger
	TypeString
	TypeBoolean
)

// DeclareFunction creates an IR function with one parameter per entry in
// paramTypes (named per paramNames), typed by its declared primitive type
// (pass-by-value of the declared type, not an opaque pointer), and a return
// type mapped from ret. The function is non-variadic regardless of ret.
func (b *IRBuilder) DeclareFunction(name string, paramNames []string, paramTypes []SourceType, ret SourceType) *ir.Func {
	params := make([]*ir.Param, len(paramNames))
	for i, n := range paramNames {
		params[i] = ir.NewParam(n, b.IRType(paramTypes[i]))
	}

	f := b.mod.NewFunc(name, b.IRType(ret), params...)
	b.values.Set(name, f)
	return f
}

// BeginFunction saves the current insertion point, opens f's entry block,
// and seeds a fresh value table with an alloca per parameter (storing the
// incoming parameter value into it), so the very first statement of the
// body can already resolve a VarRef to any parameter.
func (b *IRBuilder) BeginFunction(f *ir.Func) (prevFn *ir.Func, prevBlock *ir.Block, prevValues *ValueLookup) {
	prevFn, prevBlock, prevValues = b.fn, b.block, b.values

	b.fn = f
	b.block = f.NewBlock("entry")

	fresh := NewValueLookup()
	fresh.Inherit(prevValues)
	b.values = fresh

	for _, p := range f.Params {
		slot := b.block.NewAlloca(p.Typ)
		slot.SetName(p.LocalIdent.Name() + ".addr")
		b.block.NewStore(p, slot)
		b.values.Set(p.LocalIdent.Name(), slot)
	}

	return prevFn, prevBlock, prevValues
}

// EndFunction terminates the current block with `ret void` if it is not
// already terminated and the function is declared VOID (a VOID body may fall
// off its end without an explicit ReturnStmt); a non-VOID function left
// unterminated is a codegen bug in the caller, not something to paper over
// here. The saved insertion point is restored either way.
func (b *IRBuilder) EndFunction(prevFn *ir.Func, prevBlock *ir.Block, prevValues *ValueLookup) {
	if b.block.Term == nil && b.fn.Sig.RetType == types.Void {
		b.block.NewRet(nil)
	}

	b.fn, b.block, b.values = prevFn, prevBlock, prevValues
}

// CurrentBlock returns the block instructions are currently appended to.
func (b *IRBuilder) CurrentBlock() *ir.Block {
	return b.block
}

// BrIfOpen emits an unconditional branch to target unless the current block
// already has a terminator (e.g. a `return` inside an if/while body) — a
// second terminator would silently overwrite the first one, since llir
// stores only one Term per block.
func (b *IRBuilder) BrIfOpen(target *ir.Block) {
	if b.block.Term == nil {
		b.block.NewBr(target)
	}
}

// NewBlock allocates a new basic block in the current function without
// switching the insertion point to it.
func (b *IRBuilder) NewBlock(name string) *ir.Block {
	return b.fn.NewBlock(name)
}

// SetBlock switches the insertion point.
func (b *IRBuilder) SetBlock(blk *ir.Block) {
	b.block = blk
}

// DeclareVar stack-allocates a cell of t's IR type, names it after id, and
// stores t's zero value into it.
func (b *IRBuilder) DeclareVar(id string, t SourceType) {
	slot := b.block.NewAlloca(b.IRType(t))
	slot.SetName(id)
	b.block.NewStore(b.zeroValue(t), slot)
	b.values.Set(id, slot)
}

func (b *IRBuilder) zeroValue(t SourceType) value.Value {
	switch t {
	case TypeInteger:
		return constant.NewInt(types.I32, 0)
	case TypeBoolean:
		return boolConstant(false)
	case TypeString:
		return b.emptyAnchorString()
	default:
		return constant.NewInt(types.I32, 0)
	}
}

// Load reads the named alloca.
func (b *IRBuilder) Load(id string, t SourceType) value.Value {
	return b.block.NewLoad(b.IRType(t), b.values.Get(id))
}

// Store writes v into the named alloca.
func (b *IRBuilder) Store(id string, v value.Value) {
	b.block.NewStore(v, b.values.Get(id))
}

// Ret emits a return terminator. A nil value means `ret void`.
func (b *IRBuilder) Ret(v value.Value) {
	b.block.NewRet(v)
}

// Br emits an unconditional branch.
func (b *IRBuilder) Br(target *ir.Block) {
	b.block.NewBr(target)
}

// CondBr emits a conditional branch.
func (b *IRBuilder) CondBr(cond value.Value, whenTrue, whenFalse *ir.Block) {
	b.block.NewCondBr(cond, whenTrue, whenFalse)
}

// IntLiteral yields an i32 constant.
func (b *IRBuilder) IntLiteral(n int64) value.Value {
	return constant.NewInt(types.I32, n)
}

// BoolLiteral yields an i1 constant.
func (b *IRBuilder) BoolLiteral(v bool) value.Value {
	return boolConstant(v)
}

func boolConstant(v bool) *constant.Int {
	if v {
		return constant.NewInt(types.I1, 1)
	}
	return constant.NewInt(types.I1, 0)
}

// Arith dispatches a non-string binary operator (ADD/SUB/MUL/LT/GT/EQ) to
// the corresponding signed-integer IR instruction. No overflow checking.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpLT
	OpGT
	OpEQ
)

func (b *IRBuilder) Arith(op ArithOp, l, r value.Value) value.Value {
	switch op {
	case OpAdd:
		return b.block.NewAdd(l, r)
	case OpSub:
		return b.block.NewSub(l, r)
	case OpMul:
		return b.block.NewMul(l, r)
	case OpLT:
		return b.block.NewICmp(enum.IPredSLT, l, r)
	case OpGT:
		return b.block.NewICmp(enum.IPredSGT, l, r)
	case OpEQ:
		return b.block.NewICmp(enum.IPredEQ, l, r)
	default:
		panic("irgen: unknown arithmetic op")
	}
}

// Call emits a call to the named, previously-declared function with args
// passed by value.
func (b *IRBuilder) Call(name string, args []value.Value) value.Value {
	return b.block.NewCall(b.values.Get(name), args...)
}

// Print chooses "%s" or "%d" by t, materializes the format string as a
// module-level global, and calls printf. STRING arguments are unwrapped to
// their char-buffer pointer first. No trailing newline: output is exactly
// the formatted value, nothing else.
func (b *IRBuilder) Print(t SourceType, v value.Value) {
	format := "%d"
	arg := v

	if t == TypeString {
		format = "%s"
		arg = b.bufferOf(v)
	}

	fmtPtr := b.globalCString(format)
	b.block.NewCall(b.runtime.printf, fmtPtr, arg)
}

// globalCString defines a fresh, uniquely-named module-level null-terminated
// char array global holding s and returns a pointer to its first byte.
func (b *IRBuilder) globalCString(s string) value.Value {
	withNul := s + "\x00"
	arrType := types.NewArray(uint64(len(withNul)), types.I8)
	data := constant.NewCharArrayFromString(withNul)

	b.globalSeq++
	glob := b.mod.NewGlobalDef(".str."+strconv.Itoa(b.globalSeq), data)

	zero := constant.NewInt(types.I32, 0)
	return constant.NewGetElementPtr(arrType, glob, zero, zero)
}
