package support

import (
	"context"

	"stayfinder/internal/app/uow"
)

func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(), error) {
	unit, ok := uow.FromContext(ctx)
	if ok {
		return unit, ctx, nil, nil
	}
	if factory == nil {
		return nil, ctx, nil, uow.ErrUnitOfWorkMissing
	}
	newUnit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, ctx, nil, err
	}
	execCtx := ctx
	if injector, ok := newUnit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, newUnit)
	cleanup := func() {
		_ = newUnit.Rollback(execCtx)
	}
	return newUnit, execCtx, cleanup, nil
}

// WriteUnit wraps a unit of work together with knowledge of whether this
// handler owns its lifecycle. When the unit came from an ambient transaction
// (the middleware pipeline), commit and rollback are no-ops here.
type WriteUnit struct {
	unit      uow.UnitOfWork
	managed   bool
	committed bool
}

// BeginWriteUnit reuses an ambient unit of work when one is present, otherwise
// starts its own with the given options.
func BeginWriteUnit(ctx context.Context, factory uow.UoWFactory, opts uow.TxOptions) (uow.UnitOfWork, context.Context, *WriteUnit, error) {
	unit, ok := uow.FromContext(ctx)
	if ok {
		return unit, ctx, &WriteUnit{unit: unit}, nil
	}
	if factory == nil {
		return nil, ctx, nil, uow.ErrUnitOfWorkMissing
	}
	newUnit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, ctx, nil, err
	}
	execCtx := ctx
	if injector, ok := newUnit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, newUnit)
	return newUnit, execCtx, &WriteUnit{unit: newUnit, managed: true}, nil
}

// Commit commits a managed unit; for ambient units it is a no-op so the outer
// pipeline stays in control.
func (w *WriteUnit) Commit(ctx context.Context) error {
	if w == nil || !w.managed {
		return nil
	}
	if err := w.unit.Commit(ctx); err != nil {
		return err
	}
	w.committed = true
	return nil
}

// RollbackUnlessCommitted is meant for deferred cleanup.
func (w *WriteUnit) RollbackUnlessCommitted(ctx context.Context) {
	if w == nil || !w.managed || w.committed {
		return
	}
	_ = w.unit.Rollback(ctx)
}
