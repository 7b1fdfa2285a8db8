package diagfmt

import (
	"path/filepath"

	"waccc/internal/source"
)

func formatPath(f *source.File, mode PathMode) string {
	if f == nil {
		return "?"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return abs
		}
		return f.Path
	case PathModeBasename:
		return f.BaseName()
	default:
		if len(f.Path) > autoPathLimit {
			return f.BaseName()
		}
		return f.Path
	}
}

func position(fs *source.FileSet, sp source.Span, mode PathMode) (string, source.LineCol) {
	start, _ := fs.Resolve(sp)
	return formatPath(fs.Get(sp.File), mode), start
}
