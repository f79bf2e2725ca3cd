// Package codec parses and encodes the file formats stored inside DBPF
// archives. Each format gets a ParseX function and an Encode method that
// writes the same byte layout back out; Decode picks the codec for a
// resource from its type id.
package codec

import "github.com/simtools/dbpfkit/internal/tgi"

// File is a decoded resource of any supported format.
type File interface {
	Encode() ([]byte, error)
}

func decoded[F File](f F, err error) (File, bool, error) {
	if err != nil {
		return nil, true, err
	}
	return f, true, nil
}

// Decode parses resource data according to its type id. The second return
// is false when no codec covers the type, leaving the caller the raw bytes.
func Decode(t tgi.TypeID, data []byte) (File, bool, error) {
	switch t {
	case tgi.PropertySet:
		return decoded(ParsePropertySet(data))
	case tgi.BinaryIndex:
		return decoded(ParseBinaryIndex(data))
	case tgi.TrackSettings,
		tgi.FloorXML,
		tgi.NeighbourhoodObjectXML,
		tgi.WantsXML,
		tgi.MeshOverlayXML,
		tgi.FaceModifierXML,
		tgi.TextureOverlayXML,
		tgi.FenceXML,
		tgi.SkinToneXML,
		tgi.MaterialOverride,
		tgi.Collection,
		tgi.FaceNeutralXML,
		tgi.HairToneXML,
		tgi.FaceRegionXML,
		tgi.FaceArchetypeXML,
		tgi.SimDataXML,
		tgi.RoofXML,
		tgi.PetBodyOptions,
		tgi.WallXML,
		tgi.SimDNA,
		tgi.VersionInformation:
		return decoded(ParseCPF(data))
	case tgi.IDReferenceFile:
		return decoded(ParseSimOutfits(data))
	case tgi.TextureResource, tgi.MaterialDefinition, tgi.GeometricDataContainer:
		return decoded(ParseResourceCollection(data))
	case tgi.TextList, tgi.CatalogDescription, tgi.PieMenuStrings:
		return decoded(ParseTextList(data))
	case tgi.SimanticsBehaviourFunction:
		return decoded(ParseBehaviourFunction(data))
	case tgi.EdithSimanticsBehaviourLabels:
		return decoded(ParseBehaviourFunctionLabels(data))
	case tgi.SimanticsBehaviourConstants:
		return decoded(ParseBehaviourConstants(data))
	case tgi.BehaviourConstantsLabels:
		return decoded(ParseBehaviourConstantsLabels(data))
	case tgi.ObjectFunctions:
		return decoded(ParseObjectFunctions(data))
	case tgi.ObjectData:
		return decoded(ParseObjectData(data))
	case tgi.AudioReference:
		return decoded(ParseAudioReference(data))
	}
	return nil, false, nil
}
