package export

import "github.com/okian/standings/internal/render"

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
	logFilePermission   = 0o600
)

// Views lists the files every export downloads.
var Views = []View{
	{Name: render.CSVFilename, Path: render.CSVFilename},
	{Name: render.TextFilename, Path: render.TextFilename},
	{Name: render.DetailedFilename, Path: render.DetailedFilename},
}
