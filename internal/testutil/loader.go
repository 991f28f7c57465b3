package testutil

import (
	"context"
	"sync"

	pkgcatalog "github.com/HerbHall/powerparts/pkg/catalog"
	"github.com/HerbHall/powerparts/pkg/models"
)

// StubLoader is a thread-safe in-memory catalog loader that serves fixed
// parts and records every dataset it is asked for. Err, when set, is
// returned by every call instead.
type StubLoader struct {
	Mosfet    []models.Mosfet
	Inductor  []models.Inductor
	Capacitor []models.Capacitor
	Warnings  []pkgcatalog.RowParseWarning
	Err       error

	mu    sync.Mutex
	calls []string
}

// Mosfets implements the engine's Loader.
func (l *StubLoader) Mosfets(_ context.Context, dataset string) (*pkgcatalog.Snapshot[models.Mosfet], error) {
	if err := l.record(dataset); err != nil {
		return nil, err
	}
	return pkgcatalog.NewSnapshot(models.FamilyMosfet, dataset, l.Mosfet, l.Warnings), nil
}

// Inductors implements the engine's Loader.
func (l *StubLoader) Inductors(_ context.Context, dataset string) (*pkgcatalog.Snapshot[models.Inductor], error) {
	if err := l.record(dataset); err != nil {
		return nil, err
	}
	return pkgcatalog.NewSnapshot(models.FamilyInductor, dataset, l.Inductor, l.Warnings), nil
}

// Capacitors implements the engine's Loader.
func (l *StubLoader) Capacitors(_ context.Context, dataset string) (*pkgcatalog.Snapshot[models.Capacitor], error) {
	if err := l.record(dataset); err != nil {
		return nil, err
	}
	return pkgcatalog.NewSnapshot(models.FamilyCapacitor, dataset, l.Capacitor, l.Warnings), nil
}

// Calls returns a copy of the requested dataset identifiers, in order.
func (l *StubLoader) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]string, len(l.calls))
	copy(cp, l.calls)
	return cp
}

func (l *StubLoader) record(dataset string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, dataset)
	if l.Err != nil {
		return &pkgcatalog.CatalogLoadError{Dataset: dataset, Err: l.Err}
	}
	return nil
}
