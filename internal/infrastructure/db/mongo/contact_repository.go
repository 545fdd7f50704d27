package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

const collectionContacts = "contacts"

type ContactRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{db: db, col: db.Collection(collectionContacts)}
}

// contactDoc adds an insertion sequence so List can return address book order.
type contactDoc struct {
	domain.Contact `bson:",inline"`
	Seq            int64 `bson:"seq"`
}

func (r *ContactRepository) List(ctx context.Context, owner string) ([]domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"owner": owner}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []contactDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	out := make([]domain.Contact, 0, len(docs))
	for _, d := range docs {
		d.Contact.CreatedAt = d.Contact.CreatedAt.UTC()
		out = append(out, d.Contact)
	}
	return out, nil
}

func (r *ContactRepository) Add(ctx context.Context, contact *domain.Contact) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	seq, err := nextSequence(ctx, r.db, collectionContacts)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, contactDoc{Contact: *contact, Seq: seq}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateContact
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) Get(ctx context.Context, owner, id string) (*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc contactDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("find contact: %w", err)
	}
	doc.Contact.CreatedAt = doc.Contact.CreatedAt.UTC()
	return &doc.Contact, nil
}

func (r *ContactRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "seq", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
