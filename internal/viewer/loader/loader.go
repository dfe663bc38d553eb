// Package loader loads meshes off the render thread.
//
// Requests are parsed on an ants worker pool and their results delivered on
// a channel that the render loop drains between frames, so neither file I/O
// nor file dialogs ever stall rendering.
package loader

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/viewer/mesh"
)

// ErrClosed is returned when submitting to a closed loader.
var ErrClosed = errors.New("loader closed")

// Role says which scene slot a mesh is loaded for.
type Role int

const (
	RolePrimary Role = iota
	RoleSecondary
)

func (r Role) String() string {
	if r == RoleSecondary {
		return "secondary"
	}
	return "primary"
}

// Request identifies one load.
type Request struct {
	ID   uuid.UUID
	Role Role
	Path string
}

// Result is the outcome of a Request. Exactly one of Mesh and Err is set.
type Result struct {
	Request
	Mesh *mesh.Mesh
	Err  error
}

// LoadFunc reads a mesh from a path.
type LoadFunc func(path string) (*mesh.Mesh, error)

// Config holds loader settings.
type Config struct {
	Workers int // Pool size
	Buffer  int // Result channel capacity
}

// Loader runs mesh loads on a worker pool.
type Loader struct {
	pool    *ants.Pool
	results chan Result
	done    chan struct{}
	load    LoadFunc
	log     *zap.Logger

	closeOnce sync.Once
}

// New creates a loader that parses OBJ files.
func New(cfg Config, log *zap.Logger) (*Loader, error) {
	return NewWithLoadFunc(cfg, mesh.LoadOBJ, log)
}

// NewWithLoadFunc creates a loader using fn to read meshes.
func NewWithLoadFunc(cfg Config, fn LoadFunc, log *zap.Logger) (*Loader, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 8
	}

	pool, err := ants.NewPool(cfg.Workers,
		ants.WithPanicHandler(func(p interface{}) {
			log.Error("loader worker panic", zap.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}

	return &Loader{
		pool:    pool,
		results: make(chan Result, cfg.Buffer),
		done:    make(chan struct{}),
		load:    fn,
		log:     log,
	}, nil
}

// Load reads a mesh synchronously on the calling goroutine.
func (l *Loader) Load(role Role, path string) Result {
	req := Request{ID: uuid.New(), Role: role, Path: path}
	return l.run(req)
}

// Submit queues an asynchronous load and returns its request.
func (l *Loader) Submit(role Role, path string) (Request, error) {
	req := Request{ID: uuid.New(), Role: role, Path: path}
	err := l.submit(req, func() Result {
		return l.run(req)
	})
	return req, err
}

// Pick asks picker for a path on a worker, then loads it. The returned
// request has an empty Path; the result carries the chosen one.
func (l *Loader) Pick(role Role, picker Picker) (Request, error) {
	req := Request{ID: uuid.New(), Role: role}
	err := l.submit(req, func() Result {
		path, err := picker.Pick()
		if err != nil {
			return Result{Request: req, Err: err}
		}
		r := req
		r.Path = path
		return l.run(r)
	})
	return req, err
}

func (l *Loader) submit(req Request, task func() Result) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}

	l.log.Debug("load requested",
		zap.Stringer("id", req.ID),
		zap.Stringer("role", req.Role),
		zap.String("path", req.Path),
	)

	err := l.pool.Submit(func() {
		l.deliver(task())
	})
	if errors.Is(err, ants.ErrPoolClosed) {
		return ErrClosed
	}
	return err
}

func (l *Loader) run(req Request) Result {
	m, err := l.load(req.Path)
	if err != nil {
		return Result{Request: req, Err: fmt.Errorf("loading %s mesh: %w", req.Role, err)}
	}
	l.log.Info("mesh loaded",
		zap.Stringer("id", req.ID),
		zap.Stringer("role", req.Role),
		zap.String("path", req.Path),
		zap.Int("vertices", m.VertexCount()),
	)
	return Result{Request: req, Mesh: m}
}

func (l *Loader) deliver(r Result) {
	select {
	case l.results <- r:
	case <-l.done:
	}
}

// Results returns the channel completed loads are delivered on.
func (l *Loader) Results() <-chan Result {
	return l.results
}

// Close stops accepting work. Loads still running are abandoned.
func (l *Loader) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
		l.pool.Release()
	})
}
