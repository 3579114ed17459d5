// Package api exposes a thin, read-only HTTP surface over a Lockbox and
// SegmentAllocator for operational visibility: listing active posses per
// data source and a task's held leases. It never mutates lockbox state.
package api

import (
	"net/http"

	"github.com/druidlock/lockservice/pkg/lockservice"
	"github.com/druidlock/lockservice/pkg/middleware/logging"
	"github.com/druidlock/lockservice/pkg/middleware/openapivalidation"
	"github.com/druidlock/lockservice/pkg/middleware/recovery"
	"github.com/druidlock/lockservice/pkg/middleware/requestid"
	"github.com/druidlock/lockservice/pkg/observability/logger"
	"github.com/druidlock/lockservice/pkg/server/router"
)

// Handler wires read-only lock service endpoints onto a router.Router.
type Handler struct {
	lockbox *lockservice.Lockbox
	log     logger.Logger
}

func NewHandler(lockbox *lockservice.Lockbox, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Handler{lockbox: lockbox, log: log}
}

// baseMiddleware returns the request-id/recovery/logging chain every route
// in this package runs behind: request id first so later middleware can
// log it, recovery next so a panicking handler still gets logged, then
// logging last.
func (h *Handler) baseMiddleware() []router.MiddlewareFunc {
	return []router.MiddlewareFunc{
		requestid.RequestID(),
		recovery.Recovery(h.log),
		logging.Logging(h.log),
	}
}

// Register attaches every lock service route to r, in a group with an empty
// prefix that carries the handler's base middleware.
func (h *Handler) Register(r router.Router) {
	group := r.Group("", h.baseMiddleware()...)
	group.GET("/locks/:dataSource", h.listLocksForDataSource)
	group.GET("/tasks/:id/locks", h.listLocksForTask)
}

// RegisterValidated attaches every route the same way Register does, but
// additionally validates each request against specPath (see openapi.yaml)
// before it reaches the handler.
func (h *Handler) RegisterValidated(r router.Router, specPath string, mode string) error {
	validate, err := openapivalidation.NewRequestValidationMiddleware(openapivalidation.Config{
		SpecPath: specPath,
		Mode:     mode,
	}, h.log)
	if err != nil {
		return err
	}
	middlewares := append(h.baseMiddleware(), validate)
	group := r.Group("", middlewares...)
	group.GET("/locks/:dataSource", h.listLocksForDataSource)
	group.GET("/tasks/:id/locks", h.listLocksForTask)
	return nil
}

type leaseView struct {
	GroupID    string `json:"groupId"`
	Interval   string `json:"interval"`
	Version    string `json:"version"`
	Type       string `json:"type"`
	Priority   int    `json:"priority"`
	Revoked    bool   `json:"revoked"`
	DataSource string `json:"dataSource,omitempty"`
}

func toView(lease lockservice.Lease) leaseView {
	return leaseView{
		GroupID:    lease.GroupID,
		Interval:   lease.Interval.String(),
		Version:    lease.Version,
		Type:       string(lease.Type),
		Priority:   lease.Priority,
		Revoked:    lease.Revoked,
		DataSource: lease.DataSource,
	}
}

// listLocksForDataSource handles GET /locks/:dataSource, returning every
// currently active posse's lease for that data source.
func (h *Handler) listLocksForDataSource(c router.Context) error {
	dataSource := c.Param("dataSource")
	all := h.lockbox.AllLocks()
	leases := all[dataSource]
	views := make([]leaseView, 0, len(leases))
	for _, l := range leases {
		views = append(views, toView(l))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"dataSource": dataSource,
		"locks":      views,
	})
}

// listLocksForTask handles GET /tasks/:id/locks, returning every lease a
// task currently holds across all data sources.
func (h *Handler) listLocksForTask(c router.Context) error {
	taskID := c.Param("id")
	leases := h.lockbox.FindLocksForTask(taskID)
	views := make([]leaseView, 0, len(leases))
	for _, l := range leases {
		views = append(views, toView(l))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"taskId": taskID,
		"locks":  views,
	})
}
