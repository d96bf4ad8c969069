package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// DefaultProfilesPath returns the default file path for custom profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), ProfilesFile)
}

// SaveCustomProfiles saves custom profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []model.GCodeProfile) error {
	return writeJSON(path, profiles)
}

// LoadCustomProfiles loads custom profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.GCodeProfile{}, nil
		}
		return nil, err
	}

	var profiles []model.GCodeProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}
	for i, p := range profiles {
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
	}
	return profiles, nil
}

// InstallCustomProfiles loads the profiles at path and makes them
// available to GCode generation. Returns the number installed.
func InstallCustomProfiles(path string) (int, error) {
	profiles, err := LoadCustomProfiles(path)
	if err != nil {
		return 0, err
	}
	model.CustomProfiles = profiles
	return len(profiles), nil
}

// ExportProfile exports a single profile to a JSON file (for sharing).
func ExportProfile(path string, profile model.GCodeProfile) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfile imports a single profile from a JSON file.
func ImportProfile(path string) (model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.GCodeProfile{}, err
	}

	var profile model.GCodeProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.GCodeProfile{}, err
	}
	if err := validateProfile(profile); err != nil {
		return model.GCodeProfile{}, err
	}
	return profile, nil
}

func validateProfile(p model.GCodeProfile) error {
	switch {
	case p.Name == "":
		return errors.New("profile has no name")
	case p.RapidMove == "" || p.FeedMove == "":
		return fmt.Errorf("profile %q lacks move commands", p.Name)
	case p.DecimalPlaces < 0 || p.DecimalPlaces > 6:
		return fmt.Errorf("profile %q: decimal places %d outside 0..6", p.Name, p.DecimalPlaces)
	}
	return nil
}
