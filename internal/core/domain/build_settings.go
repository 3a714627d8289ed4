package domain

// BuildSettings are the key/value settings reported by xcodebuild for one target.
type BuildSettings map[string]string

// Get returns the value of a setting, or a MissingBuildSettingError if xcodebuild
// did not report it.
func (s BuildSettings) Get(key string) (string, error) {
	v, ok := s[key]
	if !ok {
		return "", NewMissingBuildSettingError(key)
	}
	return v, nil
}
