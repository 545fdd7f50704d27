package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

const collectionTransactions = "transactions"

// LedgerRepository stores transactions. Commit needs a replica set because it
// runs inside a multi-document transaction.
type LedgerRepository struct {
	db         *mongo.Database
	col        *mongo.Collection
	identities *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{
		db:         db,
		col:        db.Collection(collectionTransactions),
		identities: db.Collection(collectionIdentities),
	}
}

func (r *LedgerRepository) Append(ctx context.Context, tx *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.identities.CountDocuments(ctx, bson.M{"_id": tx.Owner})
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	if n == 0 {
		return domain.ErrIdentityNotFound
	}
	return r.insert(ctx, tx)
}

func (r *LedgerRepository) insert(ctx context.Context, tx *domain.Transaction) error {
	seq, err := nextSequence(ctx, r.db, collectionTransactions)
	if err != nil {
		return err
	}
	tx.Seq = seq
	if _, err := r.col.InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// Commit adjusts the balance and inserts tx in one transaction.
func (r *LedgerRepository) Commit(ctx context.Context, tx *domain.Transaction, delta domain.Amount) (domain.Amount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return 0, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		balance, err := adjustBalance(sc, r.identities, tx.Owner, delta)
		if err != nil {
			return nil, err
		}
		if err := r.insert(sc, tx); err != nil {
			return nil, err
		}
		return balance, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(domain.Amount), nil
}

func (r *LedgerRepository) List(ctx context.Context, owner string) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"owner": owner}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer cur.Close(ctx)

	var txs []domain.Transaction
	if err := cur.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	for i := range txs {
		txs[i].Timestamp = txs[i].Timestamp.UTC()
	}
	return txs, nil
}

func (r *LedgerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "kind", Value: 1}, {Key: "timestamp", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
