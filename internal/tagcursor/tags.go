package tagcursor

// Tag codes dispatched by PreloadEngine (§4.2) and FrameRunner (§4.3). Some
// named codes are not branched on by any component and serve only TagName;
// codes a caller does not handle fall through its "ignore silently" default case.
const (
	TagEnd                       = 0
	TagShowFrame                 = 1
	TagDefineShape                = 2
	TagPlaceObject               = 4
	TagRemoveObject              = 5
	TagDefineBits                = 6
	TagDefineButton              = 7
	TagJPEGTables                = 8
	TagSetBackgroundColor        = 9
	TagDefineFont                = 10
	TagDefineText                = 11
	TagDoAction                  = 12
	TagDefineFontInfo            = 13
	TagDefineSound               = 14
	TagStartSound                = 15
	TagDefineButtonSound         = 17
	TagSoundStreamHead           = 18
	TagSoundStreamBlock          = 19
	TagDefineBitsLossless        = 20
	TagDefineBitsJPEG2           = 21
	TagDefineShape2              = 22
	TagDefineButtonCxform        = 23
	TagProtect                   = 24
	TagPlaceObject2              = 26
	TagRemoveObject2             = 28
	TagDefineShape3              = 32
	TagDefineText2               = 33
	TagDefineButton2             = 34
	TagDefineBitsJPEG3           = 35
	TagDefineBitsLossless2       = 36
	TagDefineEditText            = 37
	TagDefineSprite              = 39
	TagFrameLabel                = 43
	TagSoundStreamHead2          = 45
	TagDefineMorphShape          = 46
	TagDefineFont2               = 48
	TagExportAssets              = 56
	TagImportAssets              = 57
	TagEnableDebugger            = 58
	TagDoInitAction              = 59
	TagDefineVideoStream         = 60
	TagVideoFrame                = 61
	TagDefineFontInfo2           = 62
	TagEnableDebugger2           = 64
	TagScriptLimits              = 65
	TagSetTabIndex               = 66
	TagFileAttributes            = 69
	TagPlaceObject3              = 70
	TagImportAssets2             = 71
	TagDefineFontAlignZones      = 73
	TagCSMTextSettings           = 74
	TagDefineFont3               = 75
	TagSymbolClass               = 76
	TagMetadata                  = 77
	TagDefineScalingGrid         = 78
	TagDoABC                     = 82
	TagDefineShape4              = 83
	TagDefineMorphShape2         = 84
	TagDefineSceneAndFrameLabels = 86
	TagDefineBinaryData          = 87
	TagDefineFontName            = 88
	TagStartSound2               = 89
	TagDefineBitsJPEG4           = 90
	TagDefineFont4               = 91
	TagEnableTelemetry           = 93
)

// TagName returns a human-readable name for logging; unknown codes render
// as "Unknown".
func TagName(code int) string {
	if n, ok := tagNames[code]; ok {
		return n
	}
	return "Unknown"
}

var tagNames = map[int]string{
	TagEnd:                       "End",
	TagShowFrame:                 "ShowFrame",
	TagDefineShape:               "DefineShape",
	TagPlaceObject:               "PlaceObject",
	TagRemoveObject:              "RemoveObject",
	TagDefineBits:                "DefineBits",
	TagDefineButton:              "DefineButton",
	TagJPEGTables:                "JPEGTables",
	TagSetBackgroundColor:        "SetBackgroundColor",
	TagDefineFont:                "DefineFont",
	TagDefineText:                "DefineText",
	TagDoAction:                  "DoAction",
	TagDefineFontInfo:            "DefineFontInfo",
	TagDefineSound:               "DefineSound",
	TagStartSound:                "StartSound",
	TagDefineButtonSound:         "DefineButtonSound",
	TagSoundStreamHead:           "SoundStreamHead",
	TagSoundStreamBlock:          "SoundStreamBlock",
	TagDefineBitsLossless:        "DefineBitsLossless",
	TagDefineBitsJPEG2:           "DefineBitsJPEG2",
	TagDefineShape2:              "DefineShape2",
	TagDefineButtonCxform:        "DefineButtonCxform",
	TagProtect:                   "Protect",
	TagPlaceObject2:              "PlaceObject2",
	TagRemoveObject2:             "RemoveObject2",
	TagDefineShape3:              "DefineShape3",
	TagDefineText2:               "DefineText2",
	TagDefineButton2:             "DefineButton2",
	TagDefineBitsJPEG3:           "DefineBitsJPEG3",
	TagDefineBitsLossless2:       "DefineBitsLossless2",
	TagDefineEditText:            "DefineEditText",
	TagDefineSprite:              "DefineSprite",
	TagFrameLabel:                "FrameLabel",
	TagSoundStreamHead2:          "SoundStreamHead2",
	TagDefineMorphShape:          "DefineMorphShape",
	TagDefineFont2:               "DefineFont2",
	TagExportAssets:              "ExportAssets",
	TagImportAssets:              "ImportAssets",
	TagEnableDebugger:            "EnableDebugger",
	TagDoInitAction:              "DoInitAction",
	TagDefineVideoStream:         "DefineVideoStream",
	TagVideoFrame:                "VideoFrame",
	TagDefineFontInfo2:           "DefineFontInfo2",
	TagEnableDebugger2:           "EnableDebugger2",
	TagScriptLimits:              "ScriptLimits",
	TagSetTabIndex:               "SetTabIndex",
	TagFileAttributes:            "FileAttributes",
	TagPlaceObject3:              "PlaceObject3",
	TagImportAssets2:             "ImportAssets2",
	TagDefineFontAlignZones:      "DefineFontAlignZones",
	TagCSMTextSettings:           "CSMTextSettings",
	TagDefineFont3:               "DefineFont3",
	TagSymbolClass:               "SymbolClass",
	TagMetadata:                  "Metadata",
	TagDefineScalingGrid:         "DefineScalingGrid",
	TagDoABC:                     "DoABC",
	TagDefineShape4:              "DefineShape4",
	TagDefineMorphShape2:         "DefineMorphShape2",
	TagDefineSceneAndFrameLabels: "DefineSceneAndFrameLabelData",
	TagDefineBinaryData:          "DefineBinaryData",
	TagDefineFontName:            "DefineFontName",
	TagStartSound2:               "StartSound2",
	TagDefineBitsJPEG4:           "DefineBitsJPEG4",
	TagDefineFont4:               "DefineFont4",
	TagEnableTelemetry:           "EnableTelemetry",
}

// IsShapeDefinition reports whether code is one of the DefineShape[1-4]
// variants, used by PreloadEngine to register shape characters uniformly.
func IsShapeDefinition(code int) bool {
	switch code {
	case TagDefineShape, TagDefineShape2, TagDefineShape3, TagDefineShape4:
		return true
	}
	return false
}

// IsMorphShapeDefinition reports whether code is DefineMorphShape[1-2].
func IsMorphShapeDefinition(code int) bool {
	return code == TagDefineMorphShape || code == TagDefineMorphShape2
}

// IsBitsDefinition reports whether code is one of the DefineBits* image
// variants.
func IsBitsDefinition(code int) bool {
	switch code {
	case TagDefineBits, TagDefineBitsLossless, TagDefineBitsJPEG2, TagDefineBitsJPEG3,
		TagDefineBitsLossless2, TagDefineBitsJPEG4:
		return true
	}
	return false
}

// IsFontDefinition reports whether code is DefineFont[1-3]/4.
func IsFontDefinition(code int) bool {
	switch code {
	case TagDefineFont, TagDefineFont2, TagDefineFont3, TagDefineFont4:
		return true
	}
	return false
}

// IsTextDefinition reports whether code is DefineText[1-2].
func IsTextDefinition(code int) bool {
	return code == TagDefineText || code == TagDefineText2
}

// IsButtonDefinition reports whether code is DefineButton[1-2].
func IsButtonDefinition(code int) bool {
	return code == TagDefineButton || code == TagDefineButton2
}

// IsPlaceObject reports whether code is one of PlaceObject[1-3];
// PlaceObject4 (code 94) is not recognised.
func IsPlaceObject(code int) bool {
	switch code {
	case TagPlaceObject, TagPlaceObject2, TagPlaceObject3:
		return true
	}
	return false
}

// IsRemoveObject reports whether code is RemoveObject[1-2].
func IsRemoveObject(code int) bool {
	return code == TagRemoveObject || code == TagRemoveObject2
}

// IsSoundStreamHead reports whether code is SoundStreamHead[1-2].
func IsSoundStreamHead(code int) bool {
	return code == TagSoundStreamHead || code == TagSoundStreamHead2
}
