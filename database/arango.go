package database

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
	"github.com/cenkalti/backoff"
	"github.com/ortelius/orgmap-backend/internal/config"
	"github.com/ortelius/orgmap-backend/model"
	"go.uber.org/zap"
)

const overlayDocumentKey = "1"

// ArangoStore persists the overlay document in an ArangoDB collection
type ArangoStore struct {
	db         arangodb.Database
	collection string
}

type arangoOverlayDocument struct {
	Key       string             `json:"_key"`
	StateData model.OverlayState `json:"state_data"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func dbConnectionConfig(endpoint connection.Endpoint, dbuser string, dbpass string) connection.HttpConfiguration {
	return connection.HttpConfiguration{
		Authentication: connection.NewBasicAuth(dbuser, dbpass),
		Endpoint:       endpoint,
		ContentType:    connection.ApplicationJSON,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 90 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// NewArangoStore connects to ArangoDB, creating the database and collection when missing
func NewArangoStore(ctx context.Context, cfg config.ArangoConfig, collectionName string, logger *zap.Logger) (*ArangoStore, error) {
	if err := validateIdentifier(collectionName); err != nil {
		return nil, err
	}

	var client arangodb.Client

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 2 * time.Minute

	err := backoff.RetryNotify(func() error {
		endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
		conn := connection.NewHttpConnection(dbConnectionConfig(endpoint, cfg.User, cfg.Pass))
		client = arangodb.NewClient(conn)

		versionInfo, err := client.Version(ctx)
		if err != nil {
			return err
		}
		logger.Sugar().Infof("Database has version '%s' and license '%s'", versionInfo.Version, versionInfo.License)
		return nil
	}, backoff.WithContext(bo, ctx), func(err error, wait time.Duration) {
		logger.Warn("Retrying connection to ArangoDB", zap.Duration("wait", wait), zap.Error(err))
	})
	if err != nil {
		return nil, fmt.Errorf("connect to arangodb: %w", err)
	}

	db, err := ensureDatabase(ctx, client, cfg.Database)
	if err != nil {
		return nil, err
	}

	exists, err := db.CollectionExists(ctx, collectionName)
	if err != nil {
		return nil, fmt.Errorf("check collection %s: %w", collectionName, err)
	}
	if !exists {
		if _, err := db.CreateCollection(ctx, collectionName, nil); err != nil {
			return nil, fmt.Errorf("create collection %s: %w", collectionName, err)
		}
		logger.Info("Created overlay collection", zap.String("collection", collectionName))
	}

	return &ArangoStore{db: db, collection: collectionName}, nil
}

func ensureDatabase(ctx context.Context, client arangodb.Client, name string) (arangodb.Database, error) {
	dblist, err := client.Databases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	for _, dbinfo := range dblist {
		if dbinfo.Name() == name {
			var options arangodb.GetDatabaseOptions
			db, err := client.GetDatabase(ctx, name, &options)
			if err != nil {
				return nil, fmt.Errorf("get database %s: %w", name, err)
			}
			return db, nil
		}
	}
	db, err := client.CreateDatabase(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("create database %s: %w", name, err)
	}
	return db, nil
}

// Load reads the overlay document; a missing document is an empty overlay
func (s *ArangoStore) Load(ctx context.Context) (model.OverlayState, error) {
	query := `
		FOR d IN @@collection
			FILTER d._key == @key
			LIMIT 1
			RETURN d
	`
	cursor, err := s.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@collection": s.collection,
			"key":         overlayDocumentKey,
		},
	})
	if err != nil {
		return model.NewOverlayState(), fmt.Errorf("query overlay: %w", err)
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return model.NewOverlayState(), nil
	}

	var doc arangoOverlayDocument
	if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
		return model.NewOverlayState(), fmt.Errorf("read overlay: %w", err)
	}
	if err := CheckSchemaVersion(doc.StateData.SchemaVersion); err != nil {
		return model.NewOverlayState(), err
	}
	if doc.StateData.Organizations == nil {
		doc.StateData.Organizations = map[string]model.Overlay{}
	}
	return doc.StateData, nil
}

// Save replaces the overlay document unless the stored one has an incompatible schema version
func (s *ArangoStore) Save(ctx context.Context, state model.OverlayState) error {
	if _, err := s.Load(ctx); errors.Is(err, ErrIncompatibleSchema) {
		return fmt.Errorf("refusing to overwrite overlay: %w", err)
	}
	state.SchemaVersion = model.OverlaySchemaVersion
	query := `
		UPSERT { _key: @key }
			INSERT { _key: @key, state_data: @state, updated_at: @now }
			REPLACE { _key: @key, state_data: @state, updated_at: @now }
			IN @@collection
	`
	cursor, err := s.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@collection": s.collection,
			"key":         overlayDocumentKey,
			"state":       state,
			"now":         time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("upsert overlay: %w", err)
	}
	return cursor.Close()
}

// Close is a no-op; the HTTP connection has no persistent handle
func (s *ArangoStore) Close() error { return nil }
