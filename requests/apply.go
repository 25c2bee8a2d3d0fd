package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/brettbedarf/treefs"
	"github.com/brettbedarf/treefs/internal/util"
)

// ApplyResult counts the requests that were applied to a store
type ApplyResult struct {
	Dirs  int
	Files int
}

// Apply creates every requested directory and then every requested file in store.
// File sources are loaded with ctx. A failing request is logged and skipped; all
// failures are returned joined once every request has been attempted.
func Apply(ctx context.Context, store treefs.Store, reqs *Requests) (ApplyResult, error) {
	logger := util.GetLogger("requests.Apply")

	var res ApplyResult
	var errs []error

	for _, req := range reqs.Dirs {
		if err := store.MakeDir(req.Path); err != nil {
			logger.Error().Err(err).Str("uuid", req.UUID).Str("path", req.Path).Msg("Failed to add directory request")
			errs = append(errs, fmt.Errorf("dir %q: %w", req.Path, err))
			continue
		}
		res.Dirs++
	}

	for _, req := range reqs.Files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		content := req.Content
		if req.Source != nil {
			loaded, err := req.Source.Provider.Load(ctx, req.Source.Config)
			if err != nil {
				logger.Error().Err(err).Str("uuid", req.UUID).Str("path", req.Path).Str("source", req.Source.Type).
					Msg("Failed to load file source")
				errs = append(errs, fmt.Errorf("file %q: %w", req.Path, err))
				continue
			}
			content = loaded
		}
		if err := store.CreateFile(req.Path, content); err != nil {
			logger.Error().Err(err).Str("uuid", req.UUID).Str("path", req.Path).Msg("Failed to add file request")
			errs = append(errs, fmt.Errorf("file %q: %w", req.Path, err))
			continue
		}
		res.Files++
		logger.Debug().Str("uuid", req.UUID).Str("path", req.Path).Msg("Added file")
	}

	logger.Info().Int("directories", res.Dirs).Int("files", res.Files).Msg("Added new nodes to store")
	return res, errors.Join(errs...)
}
