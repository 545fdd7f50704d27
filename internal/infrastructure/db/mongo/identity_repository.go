package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

const (
	collectionIdentities = "identities"

	indexUsernameKey = "username_key_unique"
	indexEmailKey    = "email_key_unique"
)

type IdentityRepository struct {
	col *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{col: db.Collection(collectionIdentities)}
}

// identityDoc stores lowercased lookup keys next to the display values so
// uniqueness can be enforced by index.
type identityDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	UsernameKey  string    `bson:"username_key"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	EmailKey     string    `bson:"email_key"`
	PasswordHash string    `bson:"password_hash"`
	Balance      int64     `bson:"balance"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toIdentityDoc(i *domain.Identity) identityDoc {
	return identityDoc{
		ID:           i.ID,
		Username:     i.Username,
		UsernameKey:  domain.LookupKey(i.Username),
		Name:         i.Name,
		Email:        i.Email,
		EmailKey:     domain.LookupKey(i.Email),
		PasswordHash: i.PasswordHash,
		Balance:      int64(i.Balance),
		CreatedAt:    i.CreatedAt,
	}
}

func (d identityDoc) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:           d.ID,
		Username:     d.Username,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Balance:      domain.Amount(d.Balance),
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// Explicit checks give a deterministic error order; the unique indexes
	// still catch concurrent registrations.
	if _, err := r.findOne(ctx, bson.M{"username_key": domain.LookupKey(identity.Username)}); err == nil {
		return nil, domain.ErrDuplicateUsername
	}
	if _, err := r.findOne(ctx, bson.M{"email_key": domain.LookupKey(identity.Email)}); err == nil {
		return nil, domain.ErrDuplicateEmail
	}

	doc := toIdentityDoc(identity)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		switch {
		case isDuplicateOn(err, indexUsernameKey):
			return nil, domain.ErrDuplicateUsername
		case isDuplicateOn(err, indexEmailKey):
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.findOne(ctx, bson.M{"username_key": domain.LookupKey(username)})
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.findOne(ctx, bson.M{"email_key": domain.LookupKey(email)})
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	var doc identityDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *IdentityRepository) AdjustBalance(ctx context.Context, id string, delta domain.Amount) (domain.Amount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return adjustBalance(ctx, r.col, id, delta)
}

// adjustBalance increments the balance only if it stays non-negative. It is
// shared with the ledger commit, which runs it inside a transaction.
func adjustBalance(ctx context.Context, col *mongo.Collection, id string, delta domain.Amount) (domain.Amount, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["balance"] = bson.M{"$gte": int64(-delta)}
	}
	update := bson.M{"$inc": bson.M{"balance": int64(delta)}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc identityDoc
	err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return domain.Amount(doc.Balance), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("adjust balance: %w", err)
	}

	n, err := col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("adjust balance: %w", err)
	}
	if n == 0 {
		return 0, domain.ErrIdentityNotFound
	}
	return 0, domain.ErrInsufficientFunds
}

func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username_key", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexUsernameKey)},
		{Keys: bson.D{{Key: "email_key", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexEmailKey)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
