package codec

import "fmt"

// ObjectDataVersion tells which game release wrote an OBJD. University and
// later use a plain u32 length prefix for the trailing name.
type ObjectDataVersion uint32

const (
	ObjectDataBase       ObjectDataVersion = 0x8B
	ObjectDataUniversity ObjectDataVersion = 0x8C
	ObjectDataPets       ObjectDataVersion = 0x8D
)

// ObjectData is an object definition (OBJD): the fixed block of catalog,
// pricing, placement and simulation fields that makes a game object out of a
// set of resources. SecondName is the trailing name some writers leave off
// entirely; nil means it was not present.
type ObjectData struct {
	FileName string
	Version  ObjectDataVersion

	InitialStackSize        uint16
	DefaultWallAdjacent     uint16
	DefaultPlacement        uint16
	DefaultWallPlacement    uint16
	DefaultAllowedHeight    uint16
	InteractionTableID      uint16
	InteractionGroup        uint16
	ObjectType              uint16
	MultiTileMasterID       uint16
	MultiTileSubIndex       uint16
	UseDefaultPlacement     uint16
	LookAtScore             uint16
	GUID                    uint32
	Unlockable              uint16
	CatalogUse              uint16
	Price                   uint16
	BodyStringsID           uint16
	SlotID                  uint16
	DiagonalSelectorGUID    uint32
	GridAlignedSelectorGUID uint32
	ObjectOwnership         uint16
	IgnoreGlobalsim         uint16
	CannotMoveOutWith       uint16
	Hauntable               uint16
	ProxyGUID               uint32
	SlotGroup               uint16
	Aspiration              uint16
	Memory                  uint16
	SalePriceDifferent      uint16
	InitialDepreciation     uint16
	DailyDepreciation       uint16
	SelfDepreciation        uint16
	DepreciationLimit       uint16
	RoomSort                uint16
	FunctionSort            uint16
	CatalogStringsID        uint16
	IsGlobalSimObject       uint16
	TooltipNameType         uint16
	TemplateVersion         uint16
	NicenessMultiplier      uint16
	NoDuplicateOnPlacement  uint16
	WantCategory            uint16
	NoNewNameFromTemplate   uint16
	ObjectVersion           uint16
	DefaultThumbnailID      uint16
	MotiveEffectsID         uint16
	JobObjectGUID           uint32
	CatalogPopupID          uint16
	IgnoreCurrentModelIndex uint16
	LevelOffset             uint16
	ShadowType              uint16
	NumAttributes           uint16
	NumObjectArrays         uint16
	Unused1                 uint16
	FrontDirection          uint16
	Unused2                 uint16
	MultiTileLead           uint16
	ExpansionFlags          uint16
	NumDynamicSprites       uint16
	ChairEntryFlags         uint16
	TileWidth               uint16
	InhibitSuitCopying      uint16
	BuildModeType           uint16
	OriginalGUID            uint32
	ObjectModelGUID         uint32
	BuildModeSubsort        uint16
	ThumbnailGraphic        uint16
	ShadowFlags             uint16
	FootprintMask           uint16
	Unused3                 uint16
	ShadowBrightness        uint16
	Unused4                 uint16
	WallStyleSpriteID       uint16
	HungerRating            uint16
	ComfortRating           uint16
	HygieneRating           uint16
	BladderRating           uint16
	EnergyRating            uint16
	FunRating               uint16
	RoomRating              uint16
	GivesSkill              uint16
	NumTypeAttributes       uint16
	MiscFlags               uint16
	TypeAttributeGUID       uint32
	FunctionSubSort         uint16
	DowntownSort            uint16
	KeepBuying              uint16
	VacationSort            uint16
	ResetLotAction          uint16
	ObjectType3D            uint16
	CommunitySort           uint16
	DreamFlags              uint16
	Unused                  [6]uint16

	SecondName *string
}

// fields lists the fixed block in file order. Parse and encode both walk
// this list so the two can not drift apart.
func (od *ObjectData) fields() []any {
	f := []any{
		&od.InitialStackSize, &od.DefaultWallAdjacent, &od.DefaultPlacement,
		&od.DefaultWallPlacement, &od.DefaultAllowedHeight, &od.InteractionTableID,
		&od.InteractionGroup, &od.ObjectType, &od.MultiTileMasterID,
		&od.MultiTileSubIndex, &od.UseDefaultPlacement, &od.LookAtScore,
		&od.GUID, &od.Unlockable, &od.CatalogUse, &od.Price,
		&od.BodyStringsID, &od.SlotID, &od.DiagonalSelectorGUID,
		&od.GridAlignedSelectorGUID, &od.ObjectOwnership, &od.IgnoreGlobalsim,
		&od.CannotMoveOutWith, &od.Hauntable, &od.ProxyGUID, &od.SlotGroup,
		&od.Aspiration, &od.Memory, &od.SalePriceDifferent,
		&od.InitialDepreciation, &od.DailyDepreciation, &od.SelfDepreciation,
		&od.DepreciationLimit, &od.RoomSort, &od.FunctionSort,
		&od.CatalogStringsID, &od.IsGlobalSimObject, &od.TooltipNameType,
		&od.TemplateVersion, &od.NicenessMultiplier, &od.NoDuplicateOnPlacement,
		&od.WantCategory, &od.NoNewNameFromTemplate, &od.ObjectVersion,
		&od.DefaultThumbnailID, &od.MotiveEffectsID, &od.JobObjectGUID,
		&od.CatalogPopupID, &od.IgnoreCurrentModelIndex, &od.LevelOffset,
		&od.ShadowType, &od.NumAttributes, &od.NumObjectArrays, &od.Unused1,
		&od.FrontDirection, &od.Unused2, &od.MultiTileLead, &od.ExpansionFlags,
		&od.NumDynamicSprites, &od.ChairEntryFlags, &od.TileWidth,
		&od.InhibitSuitCopying, &od.BuildModeType, &od.OriginalGUID,
		&od.ObjectModelGUID, &od.BuildModeSubsort, &od.ThumbnailGraphic,
		&od.ShadowFlags, &od.FootprintMask, &od.Unused3, &od.ShadowBrightness,
		&od.Unused4, &od.WallStyleSpriteID, &od.HungerRating, &od.ComfortRating,
		&od.HygieneRating, &od.BladderRating, &od.EnergyRating, &od.FunRating,
		&od.RoomRating, &od.GivesSkill, &od.NumTypeAttributes, &od.MiscFlags,
		&od.TypeAttributeGUID, &od.FunctionSubSort, &od.DowntownSort,
		&od.KeepBuying, &od.VacationSort, &od.ResetLotAction, &od.ObjectType3D,
		&od.CommunitySort, &od.DreamFlags,
	}
	for i := range od.Unused {
		f = append(f, &od.Unused[i])
	}
	return f
}

func ParseObjectData(data []byte) (*ObjectData, error) {
	r := NewReader(data)
	od := &ObjectData{}

	var err error
	if od.FileName, err = r.FileName(); err != nil {
		return nil, err
	}
	version, err := r.U32()
	if err != nil {
		return nil, err
	}
	switch ObjectDataVersion(version) {
	case ObjectDataBase, ObjectDataUniversity, ObjectDataPets:
		od.Version = ObjectDataVersion(version)
	default:
		return nil, fmt.Errorf("unknown object data version 0x%08X", version)
	}

	for _, f := range od.fields() {
		switch p := f.(type) {
		case *uint16:
			if *p, err = r.U16(); err != nil {
				return nil, err
			}
		case *uint32:
			if *p, err = r.U32(); err != nil {
				return nil, err
			}
		}
	}

	if !r.AtEOF() {
		var name string
		if od.Version > ObjectDataBase {
			name, err = r.String32()
		} else {
			name, err = r.BigString()
		}
		if err == nil {
			od.SecondName = &name
		}
	}
	return od, nil
}

func (od *ObjectData) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.FileName(od.FileName); err != nil {
		return nil, err
	}
	w.U32(uint32(od.Version))
	for _, f := range od.fields() {
		switch p := f.(type) {
		case *uint16:
			w.U16(*p)
		case *uint32:
			w.U32(*p)
		}
	}
	if od.SecondName != nil {
		if od.Version > ObjectDataBase {
			w.String32(*od.SecondName)
		} else {
			w.BigString(*od.SecondName)
		}
	}
	return w.Bytes(), nil
}
