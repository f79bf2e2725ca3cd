package codec

// MaterialProperty is one name/value pair of a material definition. Values
// are kept as the strings the game stores, numbers included.
type MaterialProperty struct {
	Name  string
	Value string
}

// MaterialDefinition describes how a mesh subset is rendered (TXMT).
// Names is only on disk from block version 9 on.
type MaterialDefinition struct {
	FileName    string
	Description string
	Type        string
	Properties  []MaterialProperty
	Names       []string
}

func readMaterialDefinition(r *Reader, version uint32) (*MaterialDefinition, error) {
	md := &MaterialDefinition{}

	var err error
	if md.FileName, err = readSGResourceName(r); err != nil {
		return nil, err
	}
	if md.Description, err = r.BigString(); err != nil {
		return nil, err
	}
	if md.Type, err = r.BigString(); err != nil {
		return nil, err
	}
	propertyCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	md.Properties = make([]MaterialProperty, propertyCount)
	for i := range md.Properties {
		if md.Properties[i].Name, err = r.BigString(); err != nil {
			return nil, err
		}
		if md.Properties[i].Value, err = r.BigString(); err != nil {
			return nil, err
		}
	}
	if version > 8 {
		nameCount, err := r.U32()
		if err != nil {
			return nil, err
		}
		md.Names = make([]string, nameCount)
		for i := range md.Names {
			if md.Names[i], err = r.BigString(); err != nil {
				return nil, err
			}
		}
	}
	return md, nil
}

func writeMaterialDefinition(w *Writer, md *MaterialDefinition, version uint32) error {
	writeSGResourceName(w, md.FileName)
	w.BigString(md.Description)
	w.BigString(md.Type)
	w.U32(uint32(len(md.Properties)))
	for _, p := range md.Properties {
		w.BigString(p.Name)
		w.BigString(p.Value)
	}
	if version > 8 {
		w.U32(uint32(len(md.Names)))
		for _, n := range md.Names {
			w.BigString(n)
		}
	}
	return nil
}

// Property returns the value of a named material property.
func (md *MaterialDefinition) Property(name string) (string, bool) {
	for _, p := range md.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// SetProperty replaces the value of a named property, appending it when not
// yet present.
func (md *MaterialDefinition) SetProperty(name, value string) {
	for i := range md.Properties {
		if md.Properties[i].Name == name {
			md.Properties[i].Value = value
			return
		}
	}
	md.Properties = append(md.Properties, MaterialProperty{Name: name, Value: value})
}
