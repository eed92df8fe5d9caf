package service

import (
	"context"
	"time"

	"github.com/snipbox/snippet-api/internal/core/authz"
	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

const (
	defaultBcryptCost   = 10
	defaultListLimitCap = 25
)

// Settings holds the tunables shared by the services.
type Settings struct {
	BcryptCost   int
	ListLimitCap int
}

func (s Settings) withDefaults() Settings {
	if s.BcryptCost <= 0 {
		s.BcryptCost = defaultBcryptCost
	}
	if s.ListLimitCap <= 0 {
		s.ListLimitCap = defaultListLimitCap
	}
	return s
}

// page clamps a requested limit and offset. A missing or oversized limit
// becomes the cap.
func (s Settings) page(limit, offset int) (int, int) {
	if limit <= 0 || limit > s.ListLimitCap {
		limit = s.ListLimitCap
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// authorizer runs the engine and reports every decision to the recorder.
type authorizer struct {
	recorder ports.DecisionRecorder
}

func (a authorizer) decide(actor authz.Actor, action authz.Action, target authz.Target) authz.Decision {
	d := authz.Decide(actor, action, target)
	if a.recorder != nil {
		a.recorder.Record(ports.DecisionRecord{
			Actor:    actor,
			Action:   action,
			Target:   target,
			Decision: d,
			At:       time.Now().UTC(),
		})
	}
	return d
}

type multiRecorder []ports.DecisionRecorder

// Recorders fans a decision out to every non-nil recorder.
func Recorders(recorders ...ports.DecisionRecorder) ports.DecisionRecorder {
	var m multiRecorder
	for _, r := range recorders {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

func (m multiRecorder) Record(rec ports.DecisionRecord) {
	for _, r := range m {
		r.Record(rec)
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, int64) (*domain.Snippet, bool) { return nil, false }
func (noopCache) Set(context.Context, *domain.Snippet) {}
func (noopCache) Invalidate(context.Context, ...int64) {}
