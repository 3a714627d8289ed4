package domain

import "time"

// BuildRecord is the recorded outcome of building one project with one set of options.
type BuildRecord struct {
	Key       string    `json:"key,omitzero"`
	Project   string    `json:"project,omitzero"`
	Scheme    string    `json:"scheme,omitzero"`
	Succeeded bool      `json:"succeeded"`
	Message   string    `json:"message,omitzero"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// RecordKey names the record of building scheme in project with opts.
func RecordKey(project ProjectLocator, scheme string, opts BuildOptions) string {
	return opts.Key() + "-" + project.String() + "-" + scheme
}
