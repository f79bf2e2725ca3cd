package codec

// BehaviourConstants is a tuning constant table (BCON). Behaviour trees read
// these by index through the constant primitive.
type BehaviourConstants struct {
	FileName  string
	Flag      uint8
	Constants []uint16
}

func ParseBehaviourConstants(data []byte) (*BehaviourConstants, error) {
	r := NewReader(data)
	bc := &BehaviourConstants{}

	var err error
	if bc.FileName, err = r.FileName(); err != nil {
		return nil, err
	}
	count, err := r.U8()
	if err != nil {
		return nil, err
	}
	if bc.Flag, err = r.U8(); err != nil {
		return nil, err
	}
	bc.Constants = make([]uint16, count)
	for i := range bc.Constants {
		if bc.Constants[i], err = r.U16(); err != nil {
			return nil, err
		}
	}
	return bc, nil
}

func (bc *BehaviourConstants) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.FileName(bc.FileName); err != nil {
		return nil, err
	}
	w.U8(uint8(len(bc.Constants)))
	w.U8(bc.Flag)
	for _, c := range bc.Constants {
		w.U16(c)
	}
	return w.Bytes(), nil
}
