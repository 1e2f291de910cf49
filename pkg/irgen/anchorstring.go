package irgen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// StringLiteral builds an AnchorString on the stack for a source string
// literal: malloc a buffer sized for s plus its null terminator, memcpy the
// contents in from a module-level global char array, store the buffer
// pointer and length into a fresh AnchorString alloca, and yield a pointer
// to it.
func (b *IRBuilder) StringLiteral(s string) value.Value {
	size := int64(len(s) + 1)
	src := b.globalCString(s)

	dst := b.mallocBuffer(size)
	b.memcpy(dst, src, size)

	return b.packAnchorString(dst, size)
}

// emptyAnchorString is the zero value VarDecl(STRING) initializes to: a
// one-byte buffer holding just the null terminator.
func (b *IRBuilder) emptyAnchorString() value.Value {
	size := int64(1)
	src := b.globalCString("")
	dst := b.mallocBuffer(size)
	b.memcpy(dst, src, size)

	return b.packAnchorString(dst, size)
}

// mallocBuffer calls malloc(size) and bitcasts the resulting i32* to an
// i8* suitable for memcpy/buffer-field storage.
func (b *IRBuilder) mallocBuffer(size int64) value.Value {
	raw := b.block.NewCall(b.runtime.malloc, constant.NewInt(types.I32, size))
	return b.block.NewBitCast(raw, types.I8Ptr)
}

func (b *IRBuilder) memcpy(dst, src value.Value, n int64) {
	b.block.NewCall(b.runtime.memcpy, dst, src, constant.NewInt(types.I32, n))
}

// packAnchorString allocates a fresh AnchorString struct on the stack and
// stores buffer/length into its two fields, yielding a pointer to it.
func (b *IRBuilder) packAnchorString(buffer value.Value, length int64) value.Value {
	slot := b.block.NewAlloca(b.anchorStringType)

	bufField := b.block.NewGetElementPtr(b.anchorStringType, slot,
		constant.NewInt(types.I32, 0), constant.NewInt(types.I32, 0))
	b.block.NewStore(buffer, bufField)

	lenField := b.block.NewGetElementPtr(b.anchorStringType, slot,
		constant.NewInt(types.I32, 0), constant.NewInt(types.I32, 1))
	b.block.NewStore(constant.NewInt(types.I32, length), lenField)

	return slot
}

// bufferOf loads the i8* char-buffer field out of an AnchorString pointer.
func (b *IRBuilder) bufferOf(s value.Value) value.Value {
	bufField := b.block.NewGetElementPtr(b.anchorStringType, s,
		constant.NewInt(types.I32, 0), constant.NewInt(types.I32, 0))
	return b.block.NewLoad(types.I8Ptr, bufField)
}

// lengthOf loads the i32 length (including null terminator) field out of an
// AnchorString pointer.
func (b *IRBuilder) lengthOf(s value.Value) value.Value {
	lenField := b.block.NewGetElementPtr(b.anchorStringType, s,
		constant.NewInt(types.I32, 0), constant.NewInt(types.I32, 1))
	return b.block.NewLoad(types.I32, lenField)
}

// Concat implements the runtime string-concatenation algorithm:
//
//	newSize = sizeL + sizeR - 1   (collapse one null terminator)
//	dst     = malloc(newSize)
//	memcpy(dst, leftBuffer, sizeL - 1)
//	memcpy(dst + (sizeL - 1), rightBuffer, sizeR)
//
// yielding a fresh AnchorString whose buffer is dst and length is newSize.
// Both operands' lengths are read back from their struct fields at runtime
// (they are not necessarily literal constants), so the pointer arithmetic
// and size computation happen in the generated IR, not in the generator.
func (b *IRBuilder) Concat(left, right value.Value) value.Value {
	sizeL := b.lengthOf(left)
	sizeR := b.lengthOf(right)

	one := constant.NewInt(types.I32, 1)
	sizeLMinus1 := b.block.NewSub(sizeL, one)
	newSize := b.block.NewAdd(sizeLMinus1, sizeR)

	rawDst := b.block.NewCall(b.runtime.malloc, newSize)
	dst := b.block.NewBitCast(rawDst, types.I8Ptr)

	leftBuf := b.bufferOf(left)
	rightBuf := b.bufferOf(right)

	b.block.NewCall(b.runtime.memcpy, dst, leftBuf, sizeLMinus1)

	tailDst := b.block.NewGetElementPtr(types.I8, dst, sizeLMinus1)
	b.block.NewCall(b.runtime.memcpy, tailDst, rightBuf, sizeR)

	slot := b.block.NewAlloca(b.anchorStringType)
	bufField := b.block.NewGetElementPtr(b.anchorStringType, slot,
		constant.NewInt(types.I32, 0), constant.NewInt(types.I32, 0))
	b.block.NewStore(dst, bufField)

	lenField := b.block.NewGetElementPtr(b.anchorStringType, slot,
		constant.NewInt(types.I32, 0), constant.NewInt(types.I32, 1))
	b.block.NewStore(newSize, lenField)

	return slot
}
