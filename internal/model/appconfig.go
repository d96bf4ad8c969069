package model

// AppConfig holds user preferences and the defaults applied to new runs.
type AppConfig struct {
	// Generation defaults
	DefaultTabSize    float64 `json:"default_tab_size"`
	DefaultJitter     float64 `json:"default_jitter"`
	DefaultSeed       uint64  `json:"default_seed"`
	DefaultPieceCount int     `json:"default_piece_count"`
	DefaultResize     bool    `json:"default_resize"`
	MaxWidth          int     `json:"max_width"`
	MaxHeight         int     `json:"max_height"`

	// Fabrication defaults
	DefaultMillimetersPerPixel float64 `json:"default_mm_per_pixel"`
	DefaultToolDiameter        float64 `json:"default_tool_diameter"`
	DefaultFeedRate            float64 `json:"default_feed_rate"`
	DefaultCutDepth            float64 `json:"default_cut_depth"`
	DefaultPassDepth           float64 `json:"default_pass_depth"`
	DefaultGCodeProfile        string  `json:"default_gcode_profile"`

	OutputDir    string   `json:"output_dir"`
	RecentImages []string `json:"recent_images"`
}

// maxRecentImages bounds the RecentImages list.
const maxRecentImages = 10

// DefaultAppConfig mirrors DefaultGenerationSettings and DefaultCutSettings.
func DefaultAppConfig() AppConfig {
	gen := DefaultGenerationSettings()
	cut := DefaultCutSettings()
	return AppConfig{
		DefaultTabSize:             gen.TabSize,
		DefaultJitter:              gen.Jitter,
		DefaultSeed:                gen.Seed,
		DefaultPieceCount:          24,
		DefaultResize:              gen.Resize,
		MaxWidth:                   gen.MaxWidth,
		MaxHeight:                  gen.MaxHeight,
		DefaultMillimetersPerPixel: cut.MillimetersPerPixel,
		DefaultToolDiameter:        cut.ToolDiameter,
		DefaultFeedRate:            cut.FeedRate,
		DefaultCutDepth:            cut.CutDepth,
		DefaultPassDepth:           cut.PassDepth,
		DefaultGCodeProfile:        cut.GCodeProfile,
		OutputDir:                  "images",
		RecentImages:               []string{},
	}
}

// ApplyToSettings copies the generation defaults into s.
func (c AppConfig) ApplyToSettings(s *GenerationSettings) {
	s.TabSize = c.DefaultTabSize
	s.Jitter = c.DefaultJitter
	s.Seed = c.DefaultSeed
	s.Resize = c.DefaultResize
	s.MaxWidth = c.MaxWidth
	s.MaxHeight = c.MaxHeight
}

// ApplyToCutSettings copies the fabrication defaults into s.
func (c AppConfig) ApplyToCutSettings(s *CutSettings) {
	s.MillimetersPerPixel = c.DefaultMillimetersPerPixel
	s.ToolDiameter = c.DefaultToolDiameter
	s.FeedRate = c.DefaultFeedRate
	s.CutDepth = c.DefaultCutDepth
	s.PassDepth = c.DefaultPassDepth
	s.GCodeProfile = c.DefaultGCodeProfile
}

// AddRecentImage moves path to the front of RecentImages.
func (c *AppConfig) AddRecentImage(path string) {
	recent := []string{path}
	for _, p := range c.RecentImages {
		if p != path && len(recent) < maxRecentImages {
			recent = append(recent, p)
		}
	}
	c.RecentImages = recent
}
