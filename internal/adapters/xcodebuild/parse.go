package xcodebuild

import (
	"bufio"
	"regexp"
	"strings"

	"go.trai.ch/pallet/internal/core/domain"
)

var (
	settingLine = regexp.MustCompile(`^\s*([A-Za-z0-9_]+) = (.*)$`)
	uuidLine    = regexp.MustCompile(`^UUID: ([0-9A-Fa-f-]{36}) \(([^)]+)\)`)
)

const (
	fatPrefix    = "Architectures in the fat file:"
	nonFatPrefix = "Non-fat file:"
)

// ParseBuildSettings parses -showBuildSettings output. When several targets are listed,
// the first value of each setting wins.
func ParseBuildSettings(out string) (domain.BuildSettings, error) {
	settings := domain.BuildSettings{}

	scanner := bufio.NewScanner(strings.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := settingLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		if _, seen := settings[m[1]]; !seen {
			settings[m[1]] = m[2]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.NewParseError(err.Error())
	}

	if len(settings) == 0 {
		return nil, domain.NewParseError("xcodebuild did not print any build settings")
	}
	return settings, nil
}

// ParseArchitectures parses the output of lipo -info.
func ParseArchitectures(out string) ([]string, bool) {
	out = strings.TrimSpace(out)

	if strings.HasPrefix(out, fatPrefix) {
		_, archs, ok := strings.Cut(out, " are: ")
		if !ok {
			return nil, false
		}
		fields := strings.Fields(archs)
		return fields, len(fields) > 0
	}

	if strings.HasPrefix(out, nonFatPrefix) {
		_, arch, ok := strings.Cut(out, " is architecture: ")
		arch = strings.TrimSpace(arch)
		if !ok || arch == "" {
			return nil, false
		}
		return []string{arch}, true
	}

	return nil, false
}

// ParseUUIDs parses the output of dwarfdump --uuid, returning the UUIDs in upper case.
func ParseUUIDs(out string) []string {
	var uuids []string
	for line := range strings.Lines(out) {
		if m := uuidLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			uuids = append(uuids, strings.ToUpper(m[1]))
		}
	}
	return uuids
}
