package domain

import (
	"strings"
)

// Platform is an Apple platform that a project can be built for.
type Platform uint8

const (
	// PlatformMacOS is macOS.
	PlatformMacOS Platform = iota
	// PlatformIOS is iOS.
	PlatformIOS
	// PlatformWatchOS is watchOS.
	PlatformWatchOS
	// PlatformTVOS is tvOS.
	PlatformTVOS
)

// AllPlatforms lists every supported platform in display order.
var AllPlatforms = []Platform{PlatformMacOS, PlatformIOS, PlatformWatchOS, PlatformTVOS}

var platformNames = map[Platform]string{
	PlatformMacOS:   "macOS",
	PlatformIOS:     "iOS",
	PlatformWatchOS: "watchOS",
	PlatformTVOS:    "tvOS",
}

var platformAliases = map[string]Platform{
	"macos":   PlatformMacOS,
	"mac":     PlatformMacOS,
	"osx":     PlatformMacOS,
	"macosx":  PlatformMacOS,
	"ios":     PlatformIOS,
	"watchos": PlatformWatchOS,
	"tvos":    PlatformTVOS,
}

// ParsePlatform parses a platform name case-insensitively.
// It returns an InvalidArgumentError for unknown names.
func ParsePlatform(name string) (Platform, error) {
	p, ok := platformAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, NewInvalidArgumentError("unrecognized platform: " + name)
	}
	return p, nil
}

func (p Platform) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return "unknown"
}

// SDKs returns the SDKs that build for the platform, device SDK first.
func (p Platform) SDKs() []SDK {
	switch p {
	case PlatformMacOS:
		return []SDK{SDKMacOSX}
	case PlatformIOS:
		return []SDK{SDKiPhoneOS, SDKiPhoneSimulator}
	case PlatformWatchOS:
		return []SDK{SDKWatchOS, SDKWatchSimulator}
	case PlatformTVOS:
		return []SDK{SDKTVOS, SDKTVSimulator}
	default:
		return nil
	}
}

// PlatformSet is an immutable, unordered set of platforms.
// The zero value is the empty set, which means "do not restrict platforms".
type PlatformSet uint8

// NewPlatformSet returns a set containing the given platforms. Duplicates collapse.
func NewPlatformSet(platforms ...Platform) PlatformSet {
	var s PlatformSet
	for _, p := range platforms {
		s |= 1 << p
	}
	return s
}

// Contains reports whether p is a member of the set.
func (s PlatformSet) Contains(p Platform) bool {
	return s&(1<<p) != 0
}

// IsEmpty reports whether the set has no members.
func (s PlatformSet) IsEmpty() bool {
	return s == 0
}

// Len returns the number of platforms in the set.
func (s PlatformSet) Len() int {
	n := 0
	for _, p := range AllPlatforms {
		if s.Contains(p) {
			n++
		}
	}
	return n
}

// Slice returns the members in AllPlatforms order.
func (s PlatformSet) Slice() []Platform {
	out := make([]Platform, 0, len(AllPlatforms))
	for _, p := range AllPlatforms {
		if s.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s PlatformSet) String() string {
	if s.IsEmpty() {
		return "all"
	}
	names := make([]string, 0, len(AllPlatforms))
	for _, p := range s.Slice() {
		names = append(names, p.String())
	}
	return strings.Join(names, ", ")
}

// SDK is an xcodebuild SDK name.
type SDK string

// Known SDKs.
const (
	SDKMacOSX          SDK = "macosx"
	SDKiPhoneOS        SDK = "iphoneos"
	SDKiPhoneSimulator SDK = "iphonesimulator"
	SDKWatchOS         SDK = "watchos"
	SDKWatchSimulator  SDK = "watchsimulator"
	SDKTVOS            SDK = "appletvos"
	SDKTVSimulator     SDK = "appletvsimulator"
)

// IsSimulator reports whether the SDK targets a simulator.
func (s SDK) IsSimulator() bool {
	return strings.HasSuffix(string(s), "simulator")
}
