package codec

// AudioReference names a sound to play (FWAV). The reference resolves
// through the audio system's own lookup tables.
type AudioReference struct {
	FileName  string
	Reference string
}

func ParseAudioReference(data []byte) (*AudioReference, error) {
	r := NewReader(data)
	ar := &AudioReference{}

	var err error
	if ar.FileName, err = r.FileName(); err != nil {
		return nil, err
	}
	ar.Reference, err = r.NullString()
	return ar, err
}

func (ar *AudioReference) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.FileName(ar.FileName); err != nil {
		return nil, err
	}
	w.NullString(ar.Reference)
	return w.Bytes(), nil
}
