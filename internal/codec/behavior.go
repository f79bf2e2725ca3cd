package codec

import "fmt"

// BehaviourSignature identifies the on-disk revision of a behaviour tree.
// Later revisions widen goto targets, add per-node versions and grow the
// operand block from 8 to 16 bytes.
type BehaviourSignature uint16

const (
	BehaviourV0 BehaviourSignature = 0x8000 + iota
	BehaviourV1
	BehaviourV2
	BehaviourV3
	BehaviourV4
	BehaviourV5
	BehaviourV6
	BehaviourV7
	BehaviourV8
	BehaviourV9
)

// Goto is the target of a behaviour instruction branch. Non-negative values
// index into the instruction list; the negative sentinels terminate the tree.
type Goto int32

const (
	GotoError Goto = -1
	GotoTrue  Goto = -2
	GotoFalse Goto = -3
)

// Instruction returns the instruction index a goto points at, or false for
// the error/true/false sentinels.
func (g Goto) Instruction() (uint16, bool) {
	if g < 0 {
		return 0, false
	}
	return uint16(g), true
}

func (g Goto) String() string {
	switch g {
	case GotoError:
		return "error"
	case GotoTrue:
		return "true"
	case GotoFalse:
		return "false"
	}
	return fmt.Sprintf("%d", int32(g))
}

// Narrow goto encoding, signatures before V7. One byte, top three values
// reserved for the sentinels.
const (
	gotoNarrowError = 0xFD
	gotoNarrowTrue  = 0xFE
	gotoNarrowFalse = 0xFF
)

// Wide goto encoding, V7 and up. Two bytes, top three values reserved.
const (
	gotoWideError = 0xFFFD
	gotoWideTrue  = 0xFFFE
	gotoWideFalse = 0xFFFF
)

func readGoto(r *Reader, sig BehaviourSignature) (Goto, error) {
	if sig < BehaviourV7 {
		b, err := r.U8()
		if err != nil {
			return 0, err
		}
		switch b {
		case gotoNarrowError:
			return GotoError, nil
		case gotoNarrowTrue:
			return GotoTrue, nil
		case gotoNarrowFalse:
			return GotoFalse, nil
		}
		return Goto(b), nil
	}
	v, err := r.U16()
	if err != nil {
		return 0, err
	}
	switch v {
	case gotoWideError:
		return GotoError, nil
	case gotoWideTrue:
		return GotoTrue, nil
	case gotoWideFalse:
		return GotoFalse, nil
	}
	return Goto(v), nil
}

func writeGoto(w *Writer, g Goto, sig BehaviourSignature) error {
	if sig < BehaviourV7 {
		switch g {
		case GotoError:
			w.U8(gotoNarrowError)
		case GotoTrue:
			w.U8(gotoNarrowTrue)
		case GotoFalse:
			w.U8(gotoNarrowFalse)
		default:
			if g >= gotoNarrowError {
				return fmt.Errorf("goto target %d does not fit the single byte form of signature 0x%04X", g, uint16(sig))
			}
			w.U8(uint8(g))
		}
		return nil
	}
	switch g {
	case GotoError:
		w.U16(gotoWideError)
	case GotoTrue:
		w.U16(gotoWideTrue)
	case GotoFalse:
		w.U16(gotoWideFalse)
	default:
		if g >= gotoWideError {
			return fmt.Errorf("goto target %d collides with a reserved value", g)
		}
		w.U16(uint16(g))
	}
	return nil
}

// BehaviourInstruction is a single node of a behaviour tree: a primitive or
// sub-tree call plus the branch targets for its true and false outcomes.
type BehaviourInstruction struct {
	Opcode      uint16
	TrueTarget  Goto
	FalseTarget Goto
	NodeVersion uint8 // V5 and up
	Operands    []byte
}

// BehaviourFunction is a Simantics behaviour tree (BHAV).
type BehaviourFunction struct {
	FileName      string
	Signature     BehaviourSignature
	TreeType      uint8
	NumParameters uint8
	NumLocals     uint8
	HeaderFlags   uint8
	TreeVersion   int32
	CacheFlags    uint8 // V9 only
	Instructions  []BehaviourInstruction
}

func operandSize(sig BehaviourSignature) int {
	if sig >= BehaviourV3 {
		return 16
	}
	return 8
}

func ParseBehaviourFunction(data []byte) (*BehaviourFunction, error) {
	r := NewReader(data)
	bf := &BehaviourFunction{}

	var err error
	if bf.FileName, err = r.FileName(); err != nil {
		return nil, err
	}
	sig, err := r.U16()
	if err != nil {
		return nil, err
	}
	if sig < uint16(BehaviourV0) || sig > uint16(BehaviourV9) {
		return nil, fmt.Errorf("unknown behaviour signature 0x%04X", sig)
	}
	bf.Signature = BehaviourSignature(sig)
	count, err := r.U16()
	if err != nil {
		return nil, err
	}
	if bf.TreeType, err = r.U8(); err != nil {
		return nil, err
	}
	if bf.NumParameters, err = r.U8(); err != nil {
		return nil, err
	}
	if bf.NumLocals, err = r.U8(); err != nil {
		return nil, err
	}
	if bf.HeaderFlags, err = r.U8(); err != nil {
		return nil, err
	}
	if bf.TreeVersion, err = r.I32(); err != nil {
		return nil, err
	}
	if bf.Signature == BehaviourV9 {
		if bf.CacheFlags, err = r.U8(); err != nil {
			return nil, err
		}
	}

	bf.Instructions = make([]BehaviourInstruction, 0, count)
	for i := 0; i < int(count); i++ {
		instr, err := readInstruction(r, bf.Signature)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		bf.Instructions = append(bf.Instructions, instr)
	}
	return bf, nil
}

func readInstruction(r *Reader, sig BehaviourSignature) (BehaviourInstruction, error) {
	var instr BehaviourInstruction
	var err error
	if instr.Opcode, err = r.U16(); err != nil {
		return instr, err
	}
	if instr.TrueTarget, err = readGoto(r, sig); err != nil {
		return instr, err
	}
	if instr.FalseTarget, err = readGoto(r, sig); err != nil {
		return instr, err
	}
	if sig >= BehaviourV5 {
		if instr.NodeVersion, err = r.U8(); err != nil {
			return instr, err
		}
	}
	operands, err := r.Bytes(operandSize(sig))
	if err != nil {
		return instr, err
	}
	instr.Operands = append([]byte(nil), operands...)
	return instr, nil
}

func (bf *BehaviourFunction) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.FileName(bf.FileName); err != nil {
		return nil, err
	}
	w.U16(uint16(bf.Signature))
	w.U16(uint16(len(bf.Instructions)))
	w.U8(bf.TreeType)
	w.U8(bf.NumParameters)
	w.U8(bf.NumLocals)
	w.U8(bf.HeaderFlags)
	w.I32(bf.TreeVersion)
	if bf.Signature == BehaviourV9 {
		w.U8(bf.CacheFlags)
	}
	for i, instr := range bf.Instructions {
		if err := writeInstruction(w, instr, bf.Signature); err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	return w.Bytes(), nil
}

func writeInstruction(w *Writer, instr BehaviourInstruction, sig BehaviourSignature) error {
	w.U16(instr.Opcode)
	if err := writeGoto(w, instr.TrueTarget, sig); err != nil {
		return err
	}
	if err := writeGoto(w, instr.FalseTarget, sig); err != nil {
		return err
	}
	if sig >= BehaviourV5 {
		w.U8(instr.NodeVersion)
	}
	if len(instr.Operands) != operandSize(sig) {
		return fmt.Errorf("%d operand bytes, signature 0x%04X carries %d", len(instr.Operands), uint16(sig), operandSize(sig))
	}
	w.Raw(instr.Operands)
	return nil
}
