package decorate

import (
	"context"
	"path/filepath"

	"github.com/amp-labs/amp-decorators/logger"
	"github.com/amp-labs/amp-decorators/utils"
)

// InDir runs the function with the process working directory set to path,
// restoring the previous directory afterwards on every exit path, panics
// included. A restore failure is joined with the function's own error.
//
// The working directory is process-wide: don't run InDir-wrapped functions
// concurrently with anything that depends on the current directory.
func InDir[A, R any](path string) Decorator[A, R] {
	return inDir[A, R](func(A) string { return path })
}

// InParentDir runs the function inside the directory that contains the
// path carried by its argument, e.g. a function processing a file runs
// next to that file.
//
//	process := decorate.Apply(processFile,
//	    decorate.InParentDir[string, int](func(p string) string { return p }))
func InParentDir[A, R any](pathOf func(args A) string) Decorator[A, R] {
	return inDir[A, R](func(args A) string {
		return filepath.Dir(pathOf(args))
	})
}

func inDir[A, R any](dirOf func(A) string) Decorator[A, R] {
	return func(next Func[A, R], info Info) Func[A, R] {
		return func(ctx context.Context, args A) (R, error) {
			var out R

			dir := dirOf(args)

			logger.Get(ctx).Debug("changing working directory", "function", info.Name, "dir", dir)

			err := utils.Pushd(dir, func() error {
				var err error

				out, err = next(ctx, args)

				return err
			})

			observe("in_dir", info, err)

			return out, err
		}
	}
}
