package thing

import (
	"context"
	"fmt"

	"github.com/thingorm/thing/builder"
)

// Remove delete the instance by primary key, running remove hooks in the transaction
func (inst *Instance) Remove(ctx context.Context, opts ...CallOption) error {
	m := inst.model
	if inst.IsNew() {
		return fmt.Errorf("%w: %s is not persisted", ErrPrimaryKeyRequired, m.name)
	}

	return m.transaction(ctx, newCallOptions(opts), func(conn builder.Conn) error {
		scope := &Scope{Model: m, Instance: inst, Conn: conn}
		if err := m.hooks.Run(ctx, Before, EventRemove, scope); err != nil {
			return err
		}
		if _, err := conn.Delete(ctx, m.table, byKey(m.primaryKey, inst.ID())); err != nil {
			return err
		}
		return m.hooks.Run(ctx, After, EventRemove, scope)
	})
}
