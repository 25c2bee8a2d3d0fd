package server

import (
	"github.com/brettbedarf/treefs/config"
	"github.com/brettbedarf/treefs/filesystem"
	"github.com/brettbedarf/treefs/internal/util"
	"github.com/brettbedarf/treefs/mount"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// TreeFs couples an in-memory tree store with its optional FUSE view
type TreeFs struct {
	*filesystem.FileSystem
	cfg    *config.Config
	server *fuse.Server
}

// New creates a TreeFs instance given your config.
func New(cfg *config.Config) *TreeFs {
	if cfg == nil {
		cfg = config.NewConfig(nil)
	}
	return &TreeFs{
		FileSystem: filesystem.NewFS(cfg),
		cfg:        cfg,
	}
}

// Config returns the configuration the instance was created with
func (t *TreeFs) Config() *config.Config {
	return t.cfg
}

// Serve mounts the store read-only at mountPoint and returns once the mount is live.
func (t *TreeFs) Serve(mountPoint string) error {
	logger := util.GetLogger("Server.Serve")

	srv, err := mount.Mount(t.FileSystem, mountPoint, t.cfg)
	if err != nil {
		return err
	}
	t.server = srv
	logger.Info().Str("mountpoint", mountPoint).Str("store", t.ID()).Msg("Serving tree store")
	return nil
}

func (t *TreeFs) ServeAsync(mountPoint string) <-chan error {
	done := make(chan error, 1)

	go func() {
		done <- t.Serve(mountPoint)
		close(done)
	}()

	return done
}

// Wait blocks until the mount is unmounted. Returns immediately if not serving.
func (t *TreeFs) Wait() {
	if t.server == nil {
		return
	}
	t.server.Wait()
}

// Unmount cleanly unmounts the filesystem.
func (t *TreeFs) Unmount() error {
	if t.server == nil {
		return nil
	}
	err := t.server.Unmount()
	t.server = nil
	return err
}
