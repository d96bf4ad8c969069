package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string               `json:"version"`
	CreatedAt string               `json:"created_at"`
	Config    model.AppConfig      `json:"config"`
	Presets   model.PresetStore    `json:"presets"`
	Profiles  []model.GCodeProfile `json:"profiles"`
}

// ExportAllData exports the config, presets and custom profiles to a
// single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, presets model.PresetStore, profiles []model.GCodeProfile) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Presets:   presets,
		Profiles:  profiles,
	}
	if backup.Profiles == nil {
		backup.Profiles = []model.GCodeProfile{}
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported data, usually with
// RestoreAllData.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	backup := BackupData{Config: model.DefaultAppConfig()}
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentImages == nil {
		backup.Config.RecentImages = []string{}
	}
	if backup.Presets.Presets == nil {
		backup.Presets = model.NewPresetStore()
	}
	for i, p := range backup.Profiles {
		if err := validateProfile(p); err != nil {
			return BackupData{}, fmt.Errorf("invalid backup file: profile %d: %w", i, err)
		}
	}
	return backup, nil
}

// RestoreAllData writes the contents of a backup into dir, replacing the
// config, presets and profiles files there. Every file is attempted; the
// returned error combines all failures.
func RestoreAllData(dir string, backup BackupData) error {
	return multierr.Combine(
		SaveAppConfig(filepath.Join(dir, ConfigFile), backup.Config),
		SavePresets(filepath.Join(dir, PresetsFile), backup.Presets),
		SaveCustomProfiles(filepath.Join(dir, ProfilesFile), backup.Profiles),
	)
}
