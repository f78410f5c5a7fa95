package dat

import "fmt"

// Tag is one attribute marker in an entry's attribute stream.
type Tag uint8

// Attribute tags understood by the decoder. The names follow the
// OpenTibia 8.x naming; only the payload width of each tag matters for
// decoding.
const (
	TagGround          Tag = 0x00 // u16 ground speed
	TagGroundBorder    Tag = 0x01
	TagOnBottom        Tag = 0x02
	TagOnTop           Tag = 0x03
	TagContainer       Tag = 0x04
	TagStackable       Tag = 0x05
	TagForceUse        Tag = 0x06
	TagMultiUse        Tag = 0x07
	TagWritable        Tag = 0x08 // u16 max text length
	TagWritableOnce    Tag = 0x09 // u16 max text length
	TagFluidContainer  Tag = 0x0A
	TagSplash          Tag = 0x0B
	TagNotWalkable     Tag = 0x0C
	TagNotMoveable     Tag = 0x0D
	TagBlockProjectile Tag = 0x0E
	TagNotPathable     Tag = 0x0F
	TagPickupable      Tag = 0x10
	TagHangable        Tag = 0x11
	TagHookSouth       Tag = 0x12
	TagHookEast        Tag = 0x13
	TagRotateable      Tag = 0x14
	TagLight           Tag = 0x15 // u16 level, u16 color
	TagDontHide        Tag = 0x16
	TagTranslucent     Tag = 0x17
	TagDisplacement    Tag = 0x18 // u16 x, u16 y
	TagElevation       Tag = 0x19 // u16 height
	TagLyingCorpse     Tag = 0x1A
	TagAnimateAlways   Tag = 0x1B
	TagMinimapColor    Tag = 0x1C // u16 color
	TagLensHelp        Tag = 0x1D // u16 help id
	TagFullGround      Tag = 0x1E
	TagIgnoreLook      Tag = 0x1F
	TagCloth           Tag = 0x20 // u16 slot

	// TagEnd terminates the attribute stream.
	TagEnd Tag = 0xFF
)

type tagInfo struct {
	name    string
	payload int
}

// tags maps every recognized tag to the number of payload bytes following
// it. Tag values are not contiguous in later formats, hence the table.
var tags = map[Tag]tagInfo{
	TagGround:          {"Ground", 2},
	TagGroundBorder:    {"GroundBorder", 0},
	TagOnBottom:        {"OnBottom", 0},
	TagOnTop:           {"OnTop", 0},
	TagContainer:       {"Container", 0},
	TagStackable:       {"Stackable", 0},
	TagForceUse:        {"ForceUse", 0},
	TagMultiUse:        {"MultiUse", 0},
	TagWritable:        {"Writable", 2},
	TagWritableOnce:    {"WritableOnce", 2},
	TagFluidContainer:  {"FluidContainer", 0},
	TagSplash:          {"Splash", 0},
	TagNotWalkable:     {"NotWalkable", 0},
	TagNotMoveable:     {"NotMoveable", 0},
	TagBlockProjectile: {"BlockProjectile", 0},
	TagNotPathable:     {"NotPathable", 0},
	TagPickupable:      {"Pickupable", 0},
	TagHangable:        {"Hangable", 0},
	TagHookSouth:       {"HookSouth", 0},
	TagHookEast:        {"HookEast", 0},
	TagRotateable:      {"Rotateable", 0},
	TagLight:           {"Light", 4},
	TagDontHide:        {"DontHide", 0},
	TagTranslucent:     {"Translucent", 0},
	TagDisplacement:    {"Displacement", 4},
	TagElevation:       {"Elevation", 2},
	TagLyingCorpse:     {"LyingCorpse", 0},
	TagAnimateAlways:   {"AnimateAlways", 0},
	TagMinimapColor:    {"MinimapColor", 2},
	TagLensHelp:        {"LensHelp", 2},
	TagFullGround:      {"FullGround", 0},
	TagIgnoreLook:      {"IgnoreLook", 0},
	TagCloth:           {"Cloth", 2},
}

// PayloadWidth returns how many bytes follow tag in the attribute stream.
// ok is false for tags the decoder does not know, including TagEnd.
func PayloadWidth(tag Tag) (width int, ok bool) {
	info, ok := tags[tag]
	return info.payload, ok
}

func (t Tag) String() string {
	if t == TagEnd {
		return "End"
	}
	if info, ok := tags[t]; ok {
		return info.name
	}
	return fmt.Sprintf("Tag(0x%02X)", uint8(t))
}
