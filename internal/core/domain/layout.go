package domain

import "path/filepath"

const (
	// PalletDirName is the name of the internal working directory.
	PalletDirName = ".pallet"

	// LogsDirName is the name of the build log directory.
	LogsDirName = "logs"

	// RecordsDirName is the name of the build record directory.
	RecordsDirName = "records"

	// RequestFileName is the name of the build request file.
	RequestFileName = "pallet.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultLogsPath returns the directory build logs are written to.
// It joins .pallet and logs.
func DefaultLogsPath() string {
	return filepath.Join(PalletDirName, LogsDirName)
}

// DefaultRecordsPath returns the directory build records are stored in.
// It joins .pallet and records.
func DefaultRecordsPath() string {
	return filepath.Join(PalletDirName, RecordsDirName)
}
