package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Layout applied to new sessions
	DefaultPreset  string     `json:"default_preset"` // UserPreset ID or built-in LabelPreset key
	DefaultLayout  PageConfig `json:"default_layout"`
	FirstSheetOnly bool       `json:"first_sheet_only"` // apply start/used cells to the first sheet only

	// Rendering
	PreviewDPI float64 `json:"preview_dpi"`
	OutputDir  string  `json:"output_dir"`

	// Image analysis
	AnalysisMaxImageSize int `json:"analysis_max_image_size"` // px, long side after downscale
	AnalysisWorkers      int `json:"analysis_workers"`        // 0 = one per CPU

	// Logging
	LogLevel  string `json:"log_level"`  // "debug", "info", "warn", "error"
	LogFormat string `json:"log_format"` // "text" or "json"

	// Application preferences
	RecentFiles []string `json:"recent_files"`
	Theme       string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultPreset:        DefaultPresetID,
		DefaultLayout:        DefaultPageConfig(),
		PreviewDPI:           ScreenDPI,
		AnalysisMaxImageSize: 1200,
		LogLevel:             "info",
		LogFormat:            "text",
		RecentFiles:          []string{},
		Theme:                "system",
	}
}

// maxRecentFiles bounds the recent file list.
const maxRecentFiles = 10

// AddRecentFile moves path to the front of the recent file list.
func (c *AppConfig) AddRecentFile(path string) {
	files := []string{path}
	for _, f := range c.RecentFiles {
		if f != path {
			files = append(files, f)
		}
	}
	if len(files) > maxRecentFiles {
		files = files[:maxRecentFiles]
	}
	c.RecentFiles = files
}
