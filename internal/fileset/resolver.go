// Package fileset decides which files a run processes.
package fileset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"csfix/internal/config"
	"csfix/internal/finder"
	"csfix/internal/logger"
)

// Resolver picks the Source for a target path.
type Resolver struct {
	fs  afero.Fs
	log logger.Logger
}

// NewResolver returns a resolver reading through fsys.
func NewResolver(fsys afero.Fs, log logger.Logger) *Resolver {
	return &Resolver{fs: fsys, log: logger.OrNop(log)}
}

// Resolve chooses, in order: the file at absPath itself, the files listed
// by absPath/.php_cs, or the finder named finderID walking absPath.
func (r *Resolver) Resolve(absPath, finderID string) (*Source, error) {
	if info, err := r.fs.Stat(absPath); err == nil && info.Mode().IsRegular() {
		r.log.Debug("single file target", "path", absPath)
		return SingleFile(absPath), nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", absPath, err)
	}

	cfgPath := filepath.Join(absPath, config.FileName)
	if ok, err := afero.Exists(r.fs, cfgPath); err != nil {
		return nil, fmt.Errorf("stat %s: %w", cfgPath, err)
	} else if ok {
		files, err := config.Evaluate(r.fs, cfgPath)
		if err != nil {
			return nil, err
		}
		r.log.Debug("configuration file selected files", "config", cfgPath, "count", len(files))
		return ConfigDefined(absPath, files), nil
	}

	f, err := finder.Lookup(finderID)
	if err != nil {
		return nil, err
	}
	r.log.Debug("using finder", "finder", finderID, "root", absPath)
	return NamedFinder(r.fs, f, absPath), nil
}
