package archive

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/newthinker/pairlens/internal/core"
)

// Artifact is one named output of a run.
type Artifact struct {
	Name string
	Data []byte
}

// Publish writes every artifact under dir. The set is all-or-nothing: when
// a write fails, the artifacts already written are deleted again. Existing
// artifacts are never overwritten. It returns the written paths.
func Publish(ctx context.Context, st Storage, dir string, artifacts []Artifact) ([]string, error) {
	if len(artifacts) == 0 {
		return nil, core.WrapError(core.ErrArchiveFailed, errors.New("no artifacts to publish"))
	}

	seen := make(map[string]bool, len(artifacts))
	for _, a := range artifacts {
		if a.Name == "" || seen[a.Name] {
			return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("invalid or duplicate artifact name %q", a.Name))
		}
		seen[a.Name] = true

		p := path.Join(dir, a.Name)
		exists, err := st.Exists(ctx, p)
		if err != nil {
			return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("checking %s: %w", p, err))
		}
		if exists {
			return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("%s already exists", p))
		}
	}

	written := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		p := path.Join(dir, a.Name)
		if err := st.Write(ctx, p, a.Data); err != nil {
			werr := fmt.Errorf("writing %s: %w", p, err)
			if rbErr := rollback(context.WithoutCancel(ctx), st, written); rbErr != nil {
				werr = errors.Join(werr, rbErr)
			}
			return nil, core.WrapError(core.ErrArchiveFailed, werr)
		}
		written = append(written, p)
	}
	return written, nil
}

func rollback(ctx context.Context, st Storage, paths []string) error {
	var errs []error
	for i := len(paths) - 1; i >= 0; i-- {
		if err := st.Delete(ctx, paths[i]); err != nil {
			errs = append(errs, fmt.Errorf("rollback %s: %w", paths[i], err))
		}
	}
	return errors.Join(errs...)
}
