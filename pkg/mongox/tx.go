package mongox

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs functions inside a session transaction. Transactions need
// a replica set, so when disabled the function runs without one.
type Transactor struct {
	client  *mongo.Client
	enabled bool
}

func NewTransactor(client *mongo.Client, enabled bool) *Transactor {
	return &Transactor{client: client, enabled: enabled}
}

// RunInTx runs f once. A failed f or commit is returned as is, never retried.
// Nested calls join the outer transaction.
func (t *Transactor) RunInTx(ctx context.Context, f func(context.Context) error) error {
	if !t.enabled || mongo.SessionFromContext(ctx) != nil {
		return f(ctx)
	}

	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongo session: %w", err)
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	if err := sess.StartTransaction(); err != nil {
		return fmt.Errorf("start mongo transaction: %w", err)
	}

	sc := mongo.NewSessionContext(ctx, sess)

	defer func() {
		if v := recover(); v != nil {
			if err := sess.AbortTransaction(context.WithoutCancel(ctx)); err != nil {
				v = fmt.Sprintf("%v: aborting transaction: %v", v, err)
			}
			panic(v)
		}
	}()

	if err := f(sc); err != nil {
		if aerr := sess.AbortTransaction(context.WithoutCancel(ctx)); aerr != nil {
			err = fmt.Errorf("%w: aborting transaction: %v", err, aerr)
		}
		return err
	}

	if err := sess.CommitTransaction(sc); err != nil {
		return fmt.Errorf("commit mongo transaction: %w", err)
	}

	return nil
}
