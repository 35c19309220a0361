package xtoast

import "context"

// Facade helpers for call sites that only have a context:
//
//	func DeleteProject(ctx context.Context, id int) error {
//	    if err := store.Delete(ctx, id); err != nil {
//	        xtoast.ShowError(ctx, err)
//	        return err
//	    }
//	    _, _ = xtoast.Success(ctx, xtoast.Text("Project deleted"))
//	    return nil
//	}

// Add creates a toast on the bus attached to ctx.
func Add(ctx context.Context, in Input, kind Kind) (Record, error) {
	b, ok := FromContext(ctx)
	if !ok {
		return Record{}, ErrNoBusInContext
	}
	return b.Add(in, kind)
}

// Default creates a toast of the default kind on the bus attached to ctx.
func Default(ctx context.Context, in Input) (Record, error) { return Add(ctx, in, KindDefault) }

// Info creates an info toast on the bus attached to ctx.
func Info(ctx context.Context, in Input) (Record, error) { return Add(ctx, in, KindInfo) }

// Success creates a success toast on the bus attached to ctx.
func Success(ctx context.Context, in Input) (Record, error) { return Add(ctx, in, KindSuccess) }

// Wait creates a wait toast on the bus attached to ctx.
func Wait(ctx context.Context, in Input) (Record, error) { return Add(ctx, in, KindWait) }

// Error creates an error toast on the bus attached to ctx.
func Error(ctx context.Context, in Input) (Record, error) { return Add(ctx, in, KindError) }

// Warning creates a warning toast on the bus attached to ctx.
func Warning(ctx context.Context, in Input) (Record, error) { return Add(ctx, in, KindWarning) }

// ShowError publishes an error toast for v on the bus attached to ctx.
// Without a bus it does nothing.
func ShowError(ctx context.Context, v any) Record {
	b, ok := FromContext(ctx)
	if !ok {
		return Record{}
	}
	return b.ShowError(v)
}

// Clear removes a toast by id on the bus attached to ctx.
func Clear(ctx context.Context, id uint64) {
	if b, ok := FromContext(ctx); ok {
		b.Clear(id)
	}
}

// ClearAll removes every toast on the bus attached to ctx.
func ClearAll(ctx context.Context) {
	if b, ok := FromContext(ctx); ok {
		b.ClearAll()
	}
}
