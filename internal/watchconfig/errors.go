package watchconfig

import "errors"

var (
	errConfigFileNotFound = errors.New("watchconfig: config file not found")
	errConfigFileRead     = errors.New("watchconfig: failed to read config file")
	errConfigInvalid      = errors.New("watchconfig: invalid config")
	errWatchDirEmpty      = errors.New("watchconfig: watch_dir must not be empty")
)
