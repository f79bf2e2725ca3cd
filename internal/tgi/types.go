package tgi

import (
	"fmt"
	"sort"
	"strings"
)

// Resource type ids from the community format registry at
// http://simswiki.info/wiki.php?title=List_of_Sims_2_Formats_by_Type
const (
	UserInterface                 TypeID = 0x00000000
	WallGraph                     TypeID = 0x0A284D0B
	TrackSettings                 TypeID = 0x0B9EB87E
	LotDescription                TypeID = 0x0BF999E7
	MeshOverlayXML                TypeID = 0x0C1FE246
	BinaryIndex                   TypeID = 0x0C560F39
	JPEGImage1                    TypeID = 0x0C7E9A76
	PoolSurface                   TypeID = 0x0C900FDB
	FaceModifierXML               TypeID = 0x0C93E3DE
	BusinessInfo                  TypeID = 0x104F6A6E
	TextureResource               TypeID = 0x1C4A276C
	Audio                         TypeID = 0x2026960B
	SceneNode                     TypeID = 0x25232B11
	Array3D                       TypeID = 0x2A51171B
	TextureOverlayXML             TypeID = 0x2C1FD8A1
	FenceArchThumbnail            TypeID = 0x2C30E040
	PopupTracker                  TypeID = 0x2C310F46
	FoundationOrPoolThumbnail     TypeID = 0x2C43CBD4
	DormerThumbnail               TypeID = 0x2C488BCA
	FenceXML                      TypeID = 0x2CB230B8
	SimScores                     TypeID = 0x3053CF74
	SimanticsBehaviourConstants   TypeID = 0x42434F4E
	SimanticsBehaviourFunction    TypeID = 0x42484156
	BitmapImage                   TypeID = 0x424D505F
	CatalogString                 TypeID = 0x43415453
	ImageLink                     TypeID = 0x43494745
	CatalogDescription            TypeID = 0x43545353
	DrawGroup                     TypeID = 0x44475250
	FaceProperties                TypeID = 0x46414345
	FamilyData                    TypeID = 0x46414D68
	FamilyInformation             TypeID = 0x46414D49
	GlobalTuningValues            TypeID = 0x46434E53
	AudioReference                TypeID = 0x46574156
	GlobalData                    TypeID = 0x474C4F42
	HouseData                     TypeID = 0x484F5553
	MaterialDefinition            TypeID = 0x49596978
	WorldDatabase                 TypeID = 0x49FF7D76
	TerrainTextureMap             TypeID = 0x4B58975B
	SkinToneXML                   TypeID = 0x4C158081
	MaterialOverride              TypeID = 0x4C697E5A
	CinematicScene                TypeID = 0x4D51F042
	JPEGImage2                    TypeID = 0x4D533EDD
	FloorXML                      TypeID = 0x4DCADB7E
	NeighborhoodData              TypeID = 0x4E474248
	NameReference                 TypeID = 0x4E524546
	NameMap                       TypeID = 0x4E6D6150
	ObjectData                    TypeID = 0x4F424A44
	ObjectFunctions               TypeID = 0x4F424A66
	ObjectMetadata                TypeID = 0x4F626A4D
	InventoryItem                 TypeID = 0x4F6FD33D
	ImageColorPalette             TypeID = 0x50414C54
	SimPersonalInformation        TypeID = 0x50455253
	StackScript                   TypeID = 0x504F5349
	PackageToolkit                TypeID = 0x50544250
	SimInformation                TypeID = 0x53494D49
	ObjectSlot                    TypeID = 0x534C4F54
	Sprites                       TypeID = 0x53505232
	TextList                      TypeID = 0x53545223
	TATT                          TypeID = 0x54415454
	EdithSimanticsBehaviourLabels TypeID = 0x54505250
	BehaviourConstantsLabels      TypeID = 0x5452434E
	EdithFlowchartTrees           TypeID = 0x54524545
	GroupsCache                   TypeID = 0x54535053
	PieMenuFunctions              TypeID = 0x54544142
	PieMenuStrings                TypeID = 0x54544173
	MaterialObjectXML             TypeID = 0x584D544F
	ObjectClassDump               TypeID = 0x584F424A
	SimPEObjectLua                TypeID = 0x61754C1B
	EnvironmentCubeLighting       TypeID = 0x6A97042F
	Array2D                       TypeID = 0x6B943B43
	Collection                    TypeID = 0x6C4F359D
	LotInformation                TypeID = 0x6C589723
	FaceNeutralXML                TypeID = 0x6C93B566
	NeighbourhoodObjectXML        TypeID = 0x6D619378
	WantsTreeItemXML              TypeID = 0x6D814AFE
	MainLotObjects                TypeID = 0x6F626A74
	UnlockableRewards             TypeID = 0x7181C501
	AudioResource                 TypeID = 0x7B1ACFCD
	GeometricNode                 TypeID = 0x7BA3838C
	Image                         TypeID = 0x856DDBAC
	WallLayer                     TypeID = 0x8A84D7B0
	HairToneXML                   TypeID = 0x8C1580B5
	WallThumbnail                 TypeID = 0x8C31125E
	FloorThumbnail                TypeID = 0x8C311262
	JPEGImage3                    TypeID = 0x8C3CE95A
	FamilyTies                    TypeID = 0x8C870743
	FaceRegionXML                 TypeID = 0x8C93BF6C
	FaceArchetypeXML              TypeID = 0x8C93E35C
	PredictiveMap                 TypeID = 0x8CC0A14B
	SoundEffects                  TypeID = 0x8DB5E4C2
	AcceleratorKeyDefinitions     TypeID = 0xA2E3D533
	PersonData                    TypeID = 0xAACE2EFB
	FencePostLayer                TypeID = 0xAB4BA572
	RoofData                      TypeID = 0xAB9406AA
	NeighbourhoodTerrainGeometry  TypeID = 0xABCB5DA4
	NeighborhoodTerrain           TypeID = 0xABD0DC63
	LinearFogLighting             TypeID = 0xAC06A66F
	DrawStateLighting             TypeID = 0xAC06A676
	Thumbnail                     TypeID = 0xAC2950C1
	GeometricDataContainer        TypeID = 0xAC4F8687
	IDReferenceFile               TypeID = 0xAC506764
	SimDataXML                    TypeID = 0xAC598EAC
	NeighbourhoodID               TypeID = 0xAC8A7A2E
	RoofXML                       TypeID = 0xACA8EA06
	SurfaceTexture                TypeID = 0xACE46235
	LightOverride                 TypeID = 0xADEE8D84
	TSSGSystem                    TypeID = 0xBA353CE1
	AmbientLight                  TypeID = 0xC9C81B9B
	DirectionalLight              TypeID = 0xC9C81BA3
	PointLight                    TypeID = 0xC9C81BA9
	Spotlight                     TypeID = 0xC9C81BAD
	StringMap                     TypeID = 0xCAC4FC40
	VertexLayer                   TypeID = 0xCB4387A1
	FenceThumbnail                TypeID = 0xCC30CDF8
	SimRelations                  TypeID = 0xCC364C2A
	ModularStairThumbnail         TypeID = 0xCC44B5EC
	RoofThumbnail                 TypeID = 0xCC489E46
	ChimneyThumbnail              TypeID = 0xCC48C51F
	WallXML                       TypeID = 0xCCA8E925
	FacialStructure               TypeID = 0xCCCEF852
	MaxisMaterialShader           TypeID = 0xCD7FE87A
	WantsAndFears                 TypeID = 0xCD95548E
	ContentRegistry               TypeID = 0xCDB467B8
	PetBodyOptions                TypeID = 0xD1954460
	CreationResource              TypeID = 0xE519C933
	Directory                     TypeID = 0xE86B1EEF
	EffectsResourceTree           TypeID = 0xEA5118B0
	PropertySet                   TypeID = 0xEBCF3E27
	SimDNA                        TypeID = 0xEBFEE33F
	VersionInformation            TypeID = 0xEBFEE342
	AudioTestSettings             TypeID = 0xEBFEE345
	TerrainThumbnail              TypeID = 0xEC3126C4
	HoodCamera                    TypeID = 0xEC44BDDC
	LevelInformation              TypeID = 0xED534136
	WantsXML                      TypeID = 0xED7D7B4D
	AwningThumbnail               TypeID = 0xF03D464C
	SingularLotObject             TypeID = 0xFA1C39F7
	Animation                     TypeID = 0xFB00791E
	Shape                         TypeID = 0xFC6EB1F7
)

// TypeInfo is display metadata for a known resource type.
type TypeInfo struct {
	// Human readable name, subject to change at any time
	Name string
	// Short abbreviation, not guaranteed to be unique
	Abbreviation string
	// Possible file extensions, the first one is preferred
	Extensions []string
	// Whether resources of this type start with a 64-byte filename header
	EmbeddedFilename bool
}

var knownTypes = map[TypeID]TypeInfo{
	UserInterface:                 {Name: "User Interface", Abbreviation: "UI", Extensions: []string{"ui.txt"}},
	WallGraph:                     {Name: "Wall Graph", Abbreviation: "WGRA"},
	TrackSettings:                 {Name: "Track Settings", Abbreviation: "TRKS"},
	LotDescription:                {Name: "Lot Description", Abbreviation: "LTXT"},
	MeshOverlayXML:                {Name: "Mesh Overlay XML", Abbreviation: "XMOL", Extensions: []string{"mesh_overlay.xml"}},
	BinaryIndex:                   {Name: "Binary Index", Abbreviation: "BINX"},
	JPEGImage1:                    {Name: "JPEG Image", Abbreviation: "JPEG"},
	PoolSurface:                   {Name: "Pool Surface", Abbreviation: "POOL"},
	FaceModifierXML:               {Name: "Face Modifier XML", Abbreviation: "XFMD", Extensions: []string{"face_mod.xml"}},
	BusinessInfo:                  {Name: "Business Info", Abbreviation: "BNFO"},
	TextureResource:               {Name: "Texture Resource", Abbreviation: "TXTR", Extensions: []string{"6tx"}},
	Audio:                         {Name: "Audio", Abbreviation: "XA"},
	SceneNode:                     {Name: "Scene Node", Abbreviation: "5SC", Extensions: []string{"5sc"}},
	Array3D:                       {Name: "Array 3D", Abbreviation: "3ARY"},
	TextureOverlayXML:             {Name: "Texture Overlay XML", Abbreviation: "XTOL", Extensions: []string{"texture_overlay.xml"}},
	FenceArchThumbnail:            {Name: "Fence Arch Thumbnail", Abbreviation: "THUB", Extensions: []string{"fence_arch_thumb.jpg"}},
	PopupTracker:                  {Name: "Popup Tracker", Abbreviation: "POPT"},
	FoundationOrPoolThumbnail:     {Name: "Foundation Or Pool Thumbnail", Abbreviation: "THUB", Extensions: []string{"pool_thumb.jpg"}},
	DormerThumbnail:               {Name: "Dormer Thumbnail", Abbreviation: "THUB", Extensions: []string{"dormer_thumb.jpg"}},
	FenceXML:                      {Name: "Fence XML", Abbreviation: "XFNC", Extensions: []string{"fence.xml"}},
	SimScores:                     {Name: "Sim Scores", Abbreviation: "SCOR"},
	SimanticsBehaviourConstants:   {Name: "Simantics Behaviour Constants", Abbreviation: "BCON", EmbeddedFilename: true},
	SimanticsBehaviourFunction:    {Name: "Simantics Behaviour Function", Abbreviation: "BHAV", EmbeddedFilename: true},
	BitmapImage:                   {Name: "Bitmap Image", Abbreviation: "BMP", Extensions: []string{"bmp"}, EmbeddedFilename: true},
	CatalogString:                 {Name: "Catalog String", Abbreviation: "CATS"},
	ImageLink:                     {Name: "Image Link", Abbreviation: "CIGE"},
	CatalogDescription:            {Name: "Catalog Description", Abbreviation: "CTSS", EmbeddedFilename: true},
	DrawGroup:                     {Name: "Draw Group", Abbreviation: "DGRP"},
	FaceProperties:                {Name: "Face Properties", Abbreviation: "FACE"},
	FamilyData:                    {Name: "Family Data", Abbreviation: "FAMH"},
	FamilyInformation:             {Name: "Family Information", Abbreviation: "FAMI"},
	GlobalTuningValues:            {Name: "Global Tuning Values", Abbreviation: "FCNS"},
	AudioReference:                {Name: "Audio Reference", Abbreviation: "FWAV"},
	GlobalData:                    {Name: "Global Data", Abbreviation: "GLOB", EmbeddedFilename: true},
	HouseData:                     {Name: "House Data", Abbreviation: "HOUS"},
	MaterialDefinition:            {Name: "Material Definition", Abbreviation: "TXMT", Extensions: []string{"5tm"}},
	WorldDatabase:                 {Name: "World Database", Abbreviation: "WRLD"},
	TerrainTextureMap:             {Name: "Terrain Texture Map", Abbreviation: "TMAP"},
	SkinToneXML:                   {Name: "Skin Tone XML", Abbreviation: "XSTN", Extensions: []string{"skin_tone.xml"}},
	MaterialOverride:              {Name: "Material Override", Abbreviation: "MMAT"},
	CinematicScene:                {Name: "Cinematic Scene", Abbreviation: "CINE", Extensions: []string{"5cs"}},
	JPEGImage2:                    {Name: "JPEG Image", Abbreviation: "JPEG", Extensions: []string{"1.jpg"}},
	FloorXML:                      {Name: "Floor XML", Abbreviation: "XFLR", Extensions: []string{"floor.xml"}},
	NeighborhoodData:              {Name: "Neighborhood Data", Abbreviation: "NGBH"},
	NameReference:                 {Name: "Name Reference", Abbreviation: "NREF", EmbeddedFilename: true},
	NameMap:                       {Name: "Name Map", Abbreviation: "NMAP"},
	ObjectData:                    {Name: "Object Data", Abbreviation: "OBJD", EmbeddedFilename: true},
	ObjectFunctions:               {Name: "Object Functions", Abbreviation: "OBJF", EmbeddedFilename: true},
	ObjectMetadata:                {Name: "Object Metadata", Abbreviation: "OBJM"},
	InventoryItem:                 {Name: "Inventory Item", Abbreviation: "INIT"},
	ImageColorPalette:             {Name: "Image Color Palette", Abbreviation: "PALT"},
	SimPersonalInformation:        {Name: "Sim Personal Information", Abbreviation: "PERS"},
	StackScript:                   {Name: "Stack Script", Abbreviation: "POSI"},
	PackageToolkit:                {Name: "Package Toolkit", Abbreviation: "PTBP"},
	SimInformation:                {Name: "Sim Information", Abbreviation: "SIMI"},
	ObjectSlot:                    {Name: "Object Slot", Abbreviation: "SLOT"},
	Sprites:                       {Name: "Sprites", Abbreviation: "SPR2", EmbeddedFilename: true},
	TextList:                      {Name: "Text List", Abbreviation: "STR", EmbeddedFilename: true},
	TATT:                          {Name: "TATT", Abbreviation: "TATT", EmbeddedFilename: true},
	EdithSimanticsBehaviourLabels: {Name: "Edith Simantics Behaviour Labels", Abbreviation: "TPRP", EmbeddedFilename: true},
	BehaviourConstantsLabels:      {Name: "Behaviour Constants Labels", Abbreviation: "TRCN"},
	EdithFlowchartTrees:           {Name: "Edith Flowchart Trees", Abbreviation: "TREE", Extensions: []string{"tree.txt"}, EmbeddedFilename: true},
	GroupsCache:                   {Name: "Groups Cache", Abbreviation: "GROP"},
	PieMenuFunctions:              {Name: "Pie Menu Functions", Abbreviation: "TTAB", EmbeddedFilename: true},
	PieMenuStrings:                {Name: "Pie Menu Strings", Abbreviation: "TTAS", EmbeddedFilename: true},
	MaterialObjectXML:             {Name: "Material Object XML", Abbreviation: "XMTO", Extensions: []string{"material_object.xml"}},
	ObjectClassDump:               {Name: "Object Class Dump", Abbreviation: "XOBJ", Extensions: []string{"object.1.xml"}},
	SimPEObjectLua:                {Name: "SimPE Object Lua", Abbreviation: "SLUA"},
	EnvironmentCubeLighting:       {Name: "Environment Cube Lighting", Abbreviation: "5EL"},
	Array2D:                       {Name: "Array 2D", Abbreviation: "2ARY"},
	Collection:                    {Name: "Collection", Abbreviation: "COLL"},
	LotInformation:                {Name: "Lot Information", Abbreviation: "LOT"},
	FaceNeutralXML:                {Name: "Face Neutral XML", Abbreviation: "XFNU", Extensions: []string{"face_neutral.xml"}},
	NeighbourhoodObjectXML:        {Name: "Neighbourhood Object XML", Abbreviation: "XNGB", Extensions: []string{"neighbourhood_object.xml"}},
	WantsTreeItemXML:              {Name: "Wants Tree Item XML", Abbreviation: "WNTT", Extensions: []string{"wants_tree_item.xml"}},
	MainLotObjects:                {Name: "Main Lot Objects", Abbreviation: "MOBJT"},
	UnlockableRewards:             {Name: "Unlockable Rewards", Abbreviation: "REWD", Extensions: []string{"rewards.txt"}},
	AudioResource:                 {Name: "Audio Resource", Abbreviation: "AUDR"},
	GeometricNode:                 {Name: "Geometric Node", Abbreviation: "GMND", Extensions: []string{"5gn"}},
	Image:                         {Name: "Image", Abbreviation: "IMG", Extensions: []string{"img.jpg"}},
	WallLayer:                     {Name: "Wall Layer", Abbreviation: "WLL"},
	HairToneXML:                   {Name: "Hair Tone XML", Abbreviation: "XHTN", Extensions: []string{"hair_tone.xml"}},
	WallThumbnail:                 {Name: "Wall Thumbnail", Abbreviation: "THUB", Extensions: []string{"wall_thumb.jpg"}},
	FloorThumbnail:                {Name: "Floor Thumbnail", Abbreviation: "THUB", Extensions: []string{"floor_thumb.jpg"}},
	JPEGImage3:                    {Name: "JPEG Image", Abbreviation: "JPEG", Extensions: []string{"2.jpg"}},
	FamilyTies:                    {Name: "Family Ties", Abbreviation: "FAMT"},
	FaceRegionXML:                 {Name: "Face Region XML", Abbreviation: "XFRG", Extensions: []string{"face_region.xml"}},
	FaceArchetypeXML:              {Name: "Face Archetype XML", Abbreviation: "XFCH", Extensions: []string{"face_arch.xml"}},
	PredictiveMap:                 {Name: "Predictive Map", Abbreviation: "PMAP"},
	SoundEffects:                  {Name: "Sound Effects", Abbreviation: "SFX"},
	AcceleratorKeyDefinitions:     {Name: "Accelerator Key Definitions", Abbreviation: "KEYD", Extensions: []string{"keys.txt"}},
	PersonData:                    {Name: "Person Data", Abbreviation: "PDAT"},
	FencePostLayer:                {Name: "Fence Post Layer", Abbreviation: "FPL"},
	RoofData:                      {Name: "Roof Data", Abbreviation: "ROOF"},
	NeighbourhoodTerrainGeometry:  {Name: "Neighbourhood Terrain Geometry", Abbreviation: "NHTG"},
	NeighborhoodTerrain:           {Name: "Neighborhood Terrain", Abbreviation: "NHTR"},
	LinearFogLighting:             {Name: "Linear Fog Lighting", Abbreviation: "5LF", Extensions: []string{"5lf"}},
	DrawStateLighting:             {Name: "Draw State Lighting", Abbreviation: "5DS", Extensions: []string{"5ds"}},
	Thumbnail:                     {Name: "Thumbnail", Abbreviation: "THUB", Extensions: []string{"thumb.jpg"}},
	GeometricDataContainer:        {Name: "Geometric Data Container", Abbreviation: "GMDC", Extensions: []string{"5gd", "gmdc"}},
	IDReferenceFile:               {Name: "3D ID Referencing File", Abbreviation: "3IDR"},
	SimDataXML:                    {Name: "Sim Data XML", Abbreviation: "XSIM"},
	NeighbourhoodID:               {Name: "Neighbourhood ID", Abbreviation: "NID"},
	RoofXML:                       {Name: "Roof XML", Abbreviation: "XROF", Extensions: []string{"roof.xml"}},
	SurfaceTexture:                {Name: "Surface Texture", Abbreviation: "STXR"},
	LightOverride:                 {Name: "Light Override", Abbreviation: "NLO", Extensions: []string{"nlo"}},
	TSSGSystem:                    {Name: "TSSG System", Abbreviation: "TSSG"},
	AmbientLight:                  {Name: "Ambient Light", Abbreviation: "LGHT", Extensions: []string{"5al"}},
	DirectionalLight:              {Name: "Directional Light", Abbreviation: "LGHT", Extensions: []string{"5dl"}},
	PointLight:                    {Name: "Point Light", Abbreviation: "LGHT", Extensions: []string{"5pl"}},
	Spotlight:                     {Name: "Spotlight", Abbreviation: "LGHT", Extensions: []string{"5sl"}},
	StringMap:                     {Name: "String Map", Abbreviation: "SMAP"},
	VertexLayer:                   {Name: "Vertex Layer", Abbreviation: "VERT"},
	FenceThumbnail:                {Name: "Fence Thumbnail", Abbreviation: "THUB", Extensions: []string{"fence_thumb.jpg"}},
	SimRelations:                  {Name: "Sim Relations", Abbreviation: "SREL"},
	ModularStairThumbnail:         {Name: "Modular Stair Thumbnail", Abbreviation: "THUB", Extensions: []string{"modular_stair_thumb.jpg"}},
	RoofThumbnail:                 {Name: "Roof Thumbnail", Abbreviation: "THUB", Extensions: []string{"roof_thumbnail.jpg"}},
	ChimneyThumbnail:              {Name: "Chimney Thumbnail", Abbreviation: "THUB", Extensions: []string{"chimney_thumbnail.jpg"}},
	WallXML:                       {Name: "Wall XML", Abbreviation: "XWLL", Extensions: []string{"wall.xml"}},
	FacialStructure:               {Name: "Facial Structure", Abbreviation: "LXNR"},
	MaxisMaterialShader:           {Name: "Maxis Material Shader", Abbreviation: "MATSHAD", Extensions: []string{"mat.txt"}},
	WantsAndFears:                 {Name: "Wants And Fears", Abbreviation: "SWAF"},
	ContentRegistry:               {Name: "Content Registry", Abbreviation: "CREG"},
	PetBodyOptions:                {Name: "Pet Body Options", Abbreviation: "PBOP"},
	CreationResource:              {Name: "Creation Resource", Abbreviation: "CRES", Extensions: []string{"5cr"}},
	Directory:                     {Name: "DBPF Directory", Abbreviation: "DIR", Extensions: []string{"dir"}},
	EffectsResourceTree:           {Name: "Effects Resource Tree", Abbreviation: "FX", Extensions: []string{"fx"}},
	PropertySet:                   {Name: "Property Set", Abbreviation: "GZPS"},
	SimDNA:                        {Name: "Sim DNA", Abbreviation: "SDNA"},
	VersionInformation:            {Name: "Version Information", Abbreviation: "VERS"},
	AudioTestSettings:             {Name: "Audio Test Settings", Abbreviation: "ATST"},
	TerrainThumbnail:              {Name: "Terrain Thumbnail", Abbreviation: "THUB", Extensions: []string{"terrain_thumb.jpg"}},
	HoodCamera:                    {Name: "Hood Camera", Abbreviation: "HCAM"},
	LevelInformation:              {Name: "Level Information", Abbreviation: "LIFO", Extensions: []string{"6li"}},
	WantsXML:                      {Name: "Wants XML", Abbreviation: "XWNT", Extensions: []string{"wants.xml"}},
	AwningThumbnail:               {Name: "Awning Thumbnail", Abbreviation: "THUB", Extensions: []string{"awning_thumb.jpg"}},
	SingularLotObject:             {Name: "Singular Lot Object", Abbreviation: "OBJT"},
	Animation:                     {Name: "Animation", Abbreviation: "ANIM", Extensions: []string{"5an"}},
	Shape:                         {Name: "Shape", Abbreviation: "SHPE", Extensions: []string{"5sh"}},
}

// Info returns the display metadata for a type id when it is catalogued.
func (t TypeID) Info() (TypeInfo, bool) {
	info, ok := knownTypes[t]
	return info, ok
}

// Abbreviation returns the short type code, or the hex id for unknown types.
func (t TypeID) Abbreviation() string {
	if info, ok := knownTypes[t]; ok {
		return info.Abbreviation
	}
	return fmt.Sprintf("%08X", uint32(t))
}

// FullName returns the human readable type name, or the hex id for unknown
// types.
func (t TypeID) FullName() string {
	if info, ok := knownTypes[t]; ok {
		return info.Name
	}
	return fmt.Sprintf("%08X", uint32(t))
}

// Extension returns the preferred file extension for exported resources of
// this type: the registered one, the lowercased abbreviation when the table
// has none, the hex id for types outside the table.
func (t TypeID) Extension() string {
	if info, ok := knownTypes[t]; ok {
		if len(info.Extensions) > 0 {
			return info.Extensions[0]
		}
		return strings.ToLower(info.Abbreviation)
	}
	return fmt.Sprintf("%08X", uint32(t))
}

// HasEmbeddedFilename reports whether resources of this type begin with the
// 64-byte filename header.
func (t TypeID) HasEmbeddedFilename() bool {
	info, ok := knownTypes[t]
	return ok && info.EmbeddedFilename
}

// TypesByAbbreviation returns every catalogued type whose abbreviation
// matches name, ignoring case. Abbreviations are not unique (a dozen
// thumbnail types all answer to THUB), so the result can hold several ids.
func TypesByAbbreviation(name string) []TypeID {
	var ids []TypeID
	for id, info := range knownTypes {
		if strings.EqualFold(info.Abbreviation, name) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
