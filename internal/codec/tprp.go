package codec

import "fmt"

const tprpMagic = "PRPT"

// BehaviourFunctionLabels holds the editor facing names for the parameters
// and locals of a behaviour tree (TPRP). The Used flags run parallel to
// Params.
type BehaviourFunctionLabels struct {
	FileName    string
	Unknown1    uint32
	Unknown2    uint32
	Params      []string
	Locals      []string
	Unknown3    uint32
	Used        []uint8
	DisplayCode uint32
	Unknown4    uint32
}

func ParseBehaviourFunctionLabels(data []byte) (*BehaviourFunctionLabels, error) {
	r := NewReader(data)
	fl := &BehaviourFunctionLabels{}

	var err error
	if fl.FileName, err = r.FileName(); err != nil {
		return nil, err
	}
	magic, err := r.Bytes(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != tprpMagic {
		return nil, fmt.Errorf("missing %s magic", tprpMagic)
	}
	if fl.Unknown1, err = r.U32(); err != nil {
		return nil, err
	}
	if fl.Unknown2, err = r.U32(); err != nil {
		return nil, err
	}
	paramCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	localCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	fl.Params = make([]string, paramCount)
	for i := range fl.Params {
		if fl.Params[i], err = r.BigString(); err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
	}
	fl.Locals = make([]string, localCount)
	for i := range fl.Locals {
		if fl.Locals[i], err = r.BigString(); err != nil {
			return nil, fmt.Errorf("local %d: %w", i, err)
		}
	}
	if fl.Unknown3, err = r.U32(); err != nil {
		return nil, err
	}
	used, err := r.Bytes(int(paramCount))
	if err != nil {
		return nil, err
	}
	fl.Used = append([]uint8(nil), used...)
	if fl.DisplayCode, err = r.U32(); err != nil {
		return nil, err
	}
	fl.Unknown4, err = r.U32()
	return fl, err
}

func (fl *BehaviourFunctionLabels) Encode() ([]byte, error) {
	if len(fl.Used) != len(fl.Params) {
		return nil, fmt.Errorf("%d used flags for %d params", len(fl.Used), len(fl.Params))
	}
	w := NewWriter()
	if err := w.FileName(fl.FileName); err != nil {
		return nil, err
	}
	w.Raw([]byte(tprpMagic))
	w.U32(fl.Unknown1)
	w.U32(fl.Unknown2)
	w.U32(uint32(len(fl.Params)))
	w.U32(uint32(len(fl.Locals)))
	for _, p := range fl.Params {
		w.BigString(p)
	}
	for _, l := range fl.Locals {
		w.BigString(l)
	}
	w.U32(fl.Unknown3)
	w.Raw(fl.Used)
	w.U32(fl.DisplayCode)
	w.U32(fl.Unknown4)
	return w.Bytes(), nil
}
