package config

import "path/filepath"

// SettingsDirName is the project-local directory holding settings,
// history, and logs.
const SettingsDirName = ".parley"

// BaseSettingsDir returns the directory settings files live in,
// relative to the working directory.
func BaseSettingsDir() string {
	return SettingsDirName
}

// BuildSettingsPath joins filename onto the settings directory.
func BuildSettingsPath(filename string) string {
	return filepath.Join(BaseSettingsDir(), filename)
}
