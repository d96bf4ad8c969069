package model

// Generation defaults and limits, in user units.
const (
	DefaultTabSize = 20.0
	MinTabSize     = 10.0
	MaxTabSize     = 30.0

	DefaultJitter = 5.0
	MinJitter     = 0.0
	MaxJitter     = 13.0

	// Images larger than this are scaled down when resizing is enabled.
	DefaultMaxWidth  = 1920
	DefaultMaxHeight = 1200
)

// GenerationSettings holds the optional parameters of a generation run.
// The same settings on the same image size and grid always produce the
// same geometry.
type GenerationSettings struct {
	TabSize   float64  `json:"tab_size"`   // 10..30, tab shoulder distance from the edge centre
	Jitter    float64  `json:"jitter"`     // 0..13, asymmetry of the tabs
	Seed      uint64   `json:"seed"`       // Initial pseudo-random seed
	Resize    bool     `json:"resize"`     // Scale large images down before cutting
	MaxWidth  int      `json:"max_width"`  // Resize limit in pixels
	MaxHeight int      `json:"max_height"` // Resize limit in pixels
	GameMode  GameMode `json:"game_mode"`
}

func DefaultGenerationSettings() GenerationSettings {
	return GenerationSettings{
		TabSize:   DefaultTabSize,
		Jitter:    DefaultJitter,
		Seed:      0,
		Resize:    false,
		MaxWidth:  DefaultMaxWidth,
		MaxHeight: DefaultMaxHeight,
		GameMode:  GameModeClassic,
	}
}

// CutSettings configures fabrication output (G-code, DXF, PDF scale).
type CutSettings struct {
	MillimetersPerPixel float64 `json:"mm_per_pixel"` // Physical size of one image pixel

	ToolDiameter float64 `json:"tool_diameter"` // mm; 0 for a laser
	FeedRate     float64 `json:"feed_rate"`     // mm/min
	PlungeRate   float64 `json:"plunge_rate"`   // mm/min
	RapidRate    float64 `json:"rapid_rate"`    // mm/min, used for time estimates only
	SpindleSpeed int     `json:"spindle_speed"` // RPM or laser power
	SafeZ        float64 `json:"safe_z"`        // mm
	CutDepth     float64 `json:"cut_depth"`     // Material thickness mm
	PassDepth    float64 `json:"pass_depth"`    // Depth per pass mm

	FlattenSteps int `json:"flatten_steps"` // Line segments per Bézier segment

	GCodeProfile string `json:"gcode_profile"`
}

func DefaultCutSettings() CutSettings {
	return CutSettings{
		MillimetersPerPixel: 0.25,
		ToolDiameter:        0.8,
		FeedRate:            600.0,
		PlungeRate:          200.0,
		RapidRate:           3000.0,
		SpindleSpeed:        20000,
		SafeZ:               3.0,
		CutDepth:            2.0,
		PassDepth:           1.0,
		FlattenSteps:        DefaultFlattenSteps,
		GCodeProfile:        "Generic",
	}
}

// GCodeProfile defines the dialect of one machine controller.
type GCodeProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Units       string `json:"units"` // "mm" or "inches"

	StartCode    []string `json:"start_code"`
	SpindleStart string   `json:"spindle_start"` // Format with one %d for speed/power
	SpindleStop  string   `json:"spindle_stop"`

	RapidMove string `json:"rapid_move"`
	FeedMove  string `json:"feed_move"`

	// Laser profiles switch the beam instead of plunging and retracting.
	Laser bool `json:"laser"`

	EndCode []string `json:"end_code"` // "[SafeZ]" is replaced with the safe height

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"`

	DecimalPlaces int `json:"decimal_places"`
}

// GCodeProfiles lists the built-in controller profiles. Generic is last
// and used as fallback.
var GCodeProfiles = []GCodeProfile{
	{
		Name:          "Grbl",
		Description:   "Grbl router (Arduino CNC shield)",
		Units:         "mm",
		StartCode:     []string{"G90", "G21", "G17"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
	{
		Name:          "GrblLaser",
		Description:   "Grbl 1.1 in laser mode ($32=1), dynamic power",
		Units:         "mm",
		StartCode:     []string{"G90", "G21"},
		SpindleStart:  "M4 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		Laser:         true,
		EndCode:       []string{"G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
	{
		Name:          "Mach3",
		Description:   "Mach3 CNC control software",
		Units:         "mm",
		StartCode:     []string{"G90", "G21", "G17", "G94"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G28 X0 Y0", "M30"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 4,
	},
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC",
		Units:         "mm",
		StartCode:     []string{"G90", "G21", "G17", "G94", "G64 P0.01"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 4,
	},
	{
		Name:          "Generic",
		Description:   "Generic RS-274 G-code",
		Units:         "mm",
		StartCode:     []string{"G90", "G21"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
}

// CustomProfiles holds user-defined profiles loaded at startup. They take
// precedence over built-in profiles of the same name.
var CustomProfiles []GCodeProfile

// AllProfiles returns the built-in profiles followed by the custom ones.
func AllProfiles() []GCodeProfile {
	all := make([]GCodeProfile, 0, len(GCodeProfiles)+len(CustomProfiles))
	all = append(all, GCodeProfiles...)
	return append(all, CustomProfiles...)
}

// GetProfile returns the profile with the given name, falling back to
// Generic.
func GetProfile(name string) GCodeProfile {
	for _, p := range CustomProfiles {
		if p.Name == name {
			return p
		}
	}
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1]
}

// GetProfileNames returns the names of all built-in and custom profiles.
func GetProfileNames() []string {
	all := AllProfiles()
	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Name)
	}
	return names
}
