package outfits

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gocloud.dev/docstore"
	_ "gocloud.dev/docstore/gcpfirestore"
	_ "gocloud.dev/docstore/memdocstore"
	"gocloud.dev/docstore/mongodocstore"
	"gocloud.dev/gcerrors"
)

// DocStore persists outfit documents. Every operation is scoped to the
// owning user; documents of other users behave as missing.
type DocStore interface {
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	Get(ctx context.Context, userID, id string) (Record, error)
	Create(ctx context.Context, userID string, r Record) error
	Delete(ctx context.Context, userID, id string) error
	SetFavorite(ctx context.Context, userID, id string, favorite bool) error
}

type document struct {
	ID         string    `docstore:"id"`
	UserID     string    `docstore:"user_id"`
	Name       string    `docstore:"name"`
	ImageKey   string    `docstore:"image_key"`
	ImageURL   string    `docstore:"image_url"`
	CreatedAt  time.Time `docstore:"created_at"`
	IsFavorite bool      `docstore:"is_favorite"`
	Metadata   *Metadata `docstore:"metadata"`
}

func (d *document) record() Record {
	return Record{
		ID:         d.ID,
		Name:       d.Name,
		ImageKey:   d.ImageKey,
		ImageURL:   d.ImageURL,
		CreatedAt:  d.CreatedAt,
		IsFavorite: d.IsFavorite,
		Metadata:   d.Metadata,
	}
}

// Collection is a DocStore over a gocloud.dev docstore collection.
type Collection struct {
	coll    *docstore.Collection
	closeFn func(context.Context) error
}

func NewCollection(coll *docstore.Collection) *Collection {
	return &Collection{coll: coll}
}

type StoreConfig struct {
	// URL selects the backend: mem://outfits/id, firestore://..., or
	// mongo://<database>/<collection>, which dials MongoURI directly.
	URL           string
	MongoURI      string
	MongoDatabase string
}

// OpenStore opens the collection named by cfg.URL.
func OpenStore(ctx context.Context, cfg StoreConfig) (*Collection, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse outfit store url: %w", err)
	}

	if u.Scheme != "mongo" {
		coll, err := docstore.OpenCollection(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("open outfit store: %w", err)
		}
		return NewCollection(coll), nil
	}

	client, err := connectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}

	database := u.Host
	if database == "" {
		database = cfg.MongoDatabase
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		name = "outfits"
	}
	idField := u.Query().Get("id_field")
	if idField == "" {
		idField = "id"
	}

	coll, err := mongodocstore.OpenCollection(client.Database(database).Collection(name), idField, nil)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("open mongo collection: %w", err)
	}

	return &Collection{coll: coll, closeFn: client.Disconnect}, nil
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}

func (c *Collection) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	iter := c.coll.Query().Where("user_id", "=", userID).Get(ctx)
	defer iter.Stop()

	var out []Record
	for {
		var d document
		err := iter.Next(ctx, &d)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list outfits: %w", err)
		}
		out = append(out, d.record())
	}

	return out, nil
}

func (c *Collection) get(ctx context.Context, userID, id string) (*document, error) {
	d := &document{ID: id}
	if err := c.coll.Get(ctx, d); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get outfit: %w", err)
	}
	if d.UserID != userID {
		return nil, ErrNotFound
	}
	return d, nil
}

func (c *Collection) Get(ctx context.Context, userID, id string) (Record, error) {
	d, err := c.get(ctx, userID, id)
	if err != nil {
		return Record{}, err
	}
	return d.record(), nil
}

func (c *Collection) Create(ctx context.Context, userID string, r Record) error {
	d := &document{
		ID:         r.ID,
		UserID:     userID,
		Name:       r.Name,
		ImageKey:   r.ImageKey,
		ImageURL:   r.ImageURL,
		CreatedAt:  r.CreatedAt,
		IsFavorite: r.IsFavorite,
		Metadata:   r.Metadata,
	}
	if err := c.coll.Create(ctx, d); err != nil {
		return fmt.Errorf("create outfit: %w", err)
	}
	return nil
}

func (c *Collection) Delete(ctx context.Context, userID, id string) error {
	if _, err := c.get(ctx, userID, id); err != nil {
		return err
	}
	if err := c.coll.Delete(ctx, &document{ID: id}); err != nil {
		return fmt.Errorf("delete outfit: %w", err)
	}
	return nil
}

func (c *Collection) SetFavorite(ctx context.Context, userID, id string, favorite bool) error {
	if _, err := c.get(ctx, userID, id); err != nil {
		return err
	}
	if err := c.coll.Update(ctx, &document{ID: id}, docstore.Mods{"is_favorite": favorite}); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("update outfit: %w", err)
	}
	return nil
}

func (c *Collection) Close() error {
	err := c.coll.Close()
	if c.closeFn != nil {
		if cerr := c.closeFn(context.Background()); err == nil {
			err = cerr
		}
	}
	return err
}

var _ DocStore = (*Collection)(nil)
