package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/estoque/app/models"
)

const (
	productsCollection = "produtos"
	usersCollection    = "usuarios"
)

type productDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Nome       string             `bson:"nome"`
	Descricao  string             `bson:"descricao"`
	Preco      float64            `bson:"preco"`
	Quantidade int                `bson:"quantidade"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d productDoc) model() models.Product {
	return models.Product{
		ID:          models.ID(d.ID.Hex()),
		Name:        d.Nome,
		Description: d.Descricao,
		Price:       d.Preco,
		Quantity:    d.Quantidade,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Usuario   string             `bson:"usuario"`
	Email     string             `bson:"email"`
	Senha     string             `bson:"senha"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d userDoc) model() models.User {
	return models.User{
		ID:        models.ID(d.ID.Hex()),
		Username:  d.Usuario,
		Email:     d.Email,
		Password:  d.Senha,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// Document is the MongoDB adapter.
type Document struct {
	client   *mongo.Client
	db       *mongo.Database
	call     call
	products *documentProducts
	users    *documentUsers
}

// NewDocument wraps a connected client. Close disconnects it.
func NewDocument(client *mongo.Client, dbName string, timeout time.Duration) *Document {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := call{driver: "mongo", timeout: timeout}
	db := client.Database(dbName)
	return &Document{
		client:   client,
		db:       db,
		call:     c,
		products: &documentProducts{coll: db.Collection(productsCollection), call: c},
		users:    &documentUsers{coll: db.Collection(usersCollection), call: c},
	}
}

func (a *Document) Driver() string              { return a.call.driver }
func (a *Document) Products() ProductRepository { return a.products }
func (a *Document) Users() UserRepository       { return a.users }

// Migrate creates the unique user indexes and the product listing index.
// CreateMany is a no-op for indexes that already exist.
func (a *Document) Migrate(ctx context.Context) error {
	return a.call.run(ctx, "migrate", func(ctx context.Context) error {
		_, err := a.db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "usuario", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		})
		if err != nil {
			return translateMongoError(err)
		}

		_, err = a.db.Collection(productsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		})
		return translateMongoError(err)
	})
}

func (a *Document) Ping(ctx context.Context) error {
	return a.call.run(ctx, "ping", func(ctx context.Context) error {
		if err := a.client.Ping(ctx, nil); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil
	})
}

func (a *Document) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

// ─── Products ────────────────────────────────────────────────────────────────

type documentProducts struct {
	coll *mongo.Collection
	call call
}

func (r *documentProducts) Create(ctx context.Context, p *models.Product) error {
	return r.call.run(ctx, "insert", func(ctx context.Context) error {
		now := documentNow()
		doc := productDoc{
			Nome:       p.Name,
			Descricao:  p.Description,
			Preco:      p.Price,
			Quantidade: p.Quantity,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		res, err := r.coll.InsertOne(ctx, doc)
		if err != nil {
			return translateMongoError(err)
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			doc.ID = oid
		}
		*p = doc.model()
		return nil
	})
}

func (r *documentProducts) List(ctx context.Context) ([]models.Product, error) {
	var docs []productDoc
	err := r.call.run(ctx, "select", func(ctx context.Context) error {
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
		cur, err := r.coll.Find(ctx, bson.D{}, opts)
		if err != nil {
			return translateMongoError(err)
		}
		return translateMongoError(cur.All(ctx, &docs))
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *documentProducts) FindByID(ctx context.Context, id models.ID) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return models.Product{}, ErrNotFound
	}

	var doc productDoc
	err = r.call.run(ctx, "select", func(ctx context.Context) error {
		return translateMongoError(r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc))
	})
	if err != nil {
		return models.Product{}, err
	}
	return doc.model(), nil
}

func (r *documentProducts) Update(ctx context.Context, id models.ID, fields models.ProductFields) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return models.Product{}, ErrNotFound
	}

	var doc productDoc
	err = r.call.run(ctx, "update", func(ctx context.Context) error {
		update := bson.D{{Key: "$set", Value: bson.D{
			{Key: "nome", Value: fields.Name},
			{Key: "descricao", Value: fields.Description},
			{Key: "preco", Value: fields.Price},
			{Key: "quantidade", Value: fields.Quantity},
			{Key: "updatedAt", Value: documentNow()},
		}}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		res := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts)
		return translateMongoError(res.Decode(&doc))
	})
	if err != nil {
		return models.Product{}, err
	}
	return doc.model(), nil
}

func (r *documentProducts) Delete(ctx context.Context, id models.ID) error {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return ErrNotFound
	}

	return r.call.run(ctx, "delete", func(ctx context.Context) error {
		res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
		if err != nil {
			return translateMongoError(err)
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ─── Users ───────────────────────────────────────────────────────────────────

type documentUsers struct {
	coll *mongo.Collection
	call call
}

func (r *documentUsers) Create(ctx context.Context, u *models.User) error {
	return r.call.run(ctx, "insert", func(ctx context.Context) error {
		doc := userDoc{
			Usuario:   u.Username,
			Email:     u.Email,
			Senha:     u.Password,
			CreatedAt: documentNow(),
		}
		res, err := r.coll.InsertOne(ctx, doc)
		if err != nil {
			return translateMongoError(err)
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			doc.ID = oid
		}
		*u = doc.model()
		return nil
	})
}

func (r *documentUsers) FindByID(ctx context.Context, id models.ID) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return models.User{}, ErrNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *documentUsers) FindByField(ctx context.Context, field UserField, value string) (models.User, error) {
	switch field {
	case FieldUsername, FieldEmail:
	default:
		return models.User{}, fmt.Errorf("repositories: unknown user field %q", field)
	}
	return r.findOne(ctx, bson.D{{Key: string(field), Value: value}})
}

func (r *documentUsers) findOne(ctx context.Context, filter bson.D) (models.User, error) {
	var doc userDoc
	err := r.call.run(ctx, "select", func(ctx context.Context) error {
		return translateMongoError(r.coll.FindOne(ctx, filter).Decode(&doc))
	})
	if err != nil {
		return models.User{}, err
	}
	return doc.model(), nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// documentNow matches BSON datetime precision so a read returns what was written.
func documentNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
