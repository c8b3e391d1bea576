package ui

import (
	"context"

	"github.com/abelbrown/moderator/internal/api"
	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/journal"
	"github.com/abelbrown/moderator/internal/model"
)

// Backend is the subset of *api.Client the console needs.
type Backend interface {
	List(ctx context.Context, res catalog.Resource, q model.Query) (model.PageResult, error)
	ListAll(ctx context.Context, res catalog.Resource) ([]model.Record, error)
	Get(ctx context.Context, res catalog.Resource, id string) (model.Record, error)
	Counts(ctx context.Context, res catalog.Resource) (model.StatusCounts, error)
	Overviews(ctx context.Context, resources []catalog.Resource) []api.Overview
	SetStatus(ctx context.Context, res catalog.Resource, ids []string, t catalog.Transition, reason string) error
	Remove(ctx context.Context, res catalog.Resource, id string) error
	SetFlag(ctx context.Context, res catalog.Resource, id string, flagged bool) error
	SetUserStatus(ctx context.Context, userID, status string) error
	RemoveTarget(ctx context.Context, report model.Record) error
}

var _ Backend = (*api.Client)(nil)

// Journal is the subset of *journal.Journal the console needs.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) (journal.Entry, error)
	SavePrefs(ctx context.Context, p journal.Prefs) error
	LoadPrefs(ctx context.Context, resource string) (journal.Prefs, bool, error)
}

var _ Journal = (*journal.Journal)(nil)
