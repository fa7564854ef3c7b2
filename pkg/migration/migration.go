// Package migration provides a MongoDB migration runner.
//
// Migrations create indexes and backfill documents. Applied migrations are
// tracked in the "migrations" collection so each runs exactly once.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20240101000000_create_user_indexes", &CreateUserIndexes{})
//	}
//
//	type CreateUserIndexes struct{}
//	func (m *CreateUserIndexes) Up(ctx context.Context, db *mongo.Database) error { ... }
//	func (m *CreateUserIndexes) Down(ctx context.Context, db *mongo.Database) error { ... }
//
// Run from CLI:
//
//	vastra migrate             // run all pending
//	vastra migrate:rollback    // rollback last batch
//	vastra migrate:status      // show applied / pending
package migration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/vastra/pkg/logger"
)

const trackingCollection = "migrations"

// Migration is the interface every migration must implement.
type Migration interface {
	// Up applies the migration.
	Up(ctx context.Context, db *mongo.Database) error
	// Down reverses the migration.
	Down(ctx context.Context, db *mongo.Database) error
}

// migrationRecord is the document stored in the tracking collection.
type migrationRecord struct {
	Name  string    `bson:"name"`
	Batch int       `bson:"batch"`
	RunAt time.Time `bson:"run_at"`
}

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// Register adds a migration to the global registry.
// name should be a timestamp-prefixed string, e.g.
// "20240101000000_create_user_indexes", so names sort chronologically.
func Register(name string, m Migration) {
	registry = append(registry, registeredMigration{name: name, m: m})
}

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db *mongo.Database
}

// New creates a Runner backed by the provided database.
func New(db *mongo.Database) *Runner {
	return &Runner{db: db}
}

func (r *Runner) tracking() *mongo.Collection {
	return r.db.Collection(trackingCollection)
}

// appliedSet returns the names of migrations already run.
func (r *Runner) appliedSet(ctx context.Context) (map[string]migrationRecord, error) {
	cur, err := r.tracking().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	applied := map[string]migrationRecord{}
	for cur.Next(ctx) {
		var rec migrationRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		applied[rec.Name] = rec
	}
	return applied, cur.Err()
}

// Pending returns migrations that have not yet been run, sorted by name.
func (r *Runner) Pending(ctx context.Context) ([]registeredMigration, error) {
	applied, err := r.appliedSet(ctx)
	if err != nil {
		return nil, err
	}

	var pending []registeredMigration
	for _, reg := range registry {
		if _, ok := applied[reg.name]; !ok {
			pending = append(pending, reg)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].name < pending[j].name
	})

	return pending, nil
}

// Run executes all pending migrations in a single batch.
func (r *Runner) Run(ctx context.Context) error {
	pending, err := r.Pending(ctx)
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}

	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		fmt.Println("Nothing to migrate.")
		return nil
	}

	batch, err := r.nextBatch(ctx)
	if err != nil {
		return fmt.Errorf("migration: next batch: %w", err)
	}

	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name)
		fmt.Printf("  ▶ Migrating: %s\n", reg.name)

		if err := reg.m.Up(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}

		rec := migrationRecord{Name: reg.name, Batch: batch, RunAt: time.Now()}
		if _, err := r.tracking().InsertOne(ctx, rec); err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}

		fmt.Printf("  ✅ Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses all migrations from the most recent batch.
func (r *Runner) Rollback(ctx context.Context) error {
	batch, err := r.maxBatch(ctx)
	if err != nil {
		return err
	}
	if batch == 0 {
		fmt.Println("Nothing to roll back.")
		return nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: -1}})
	cur, err := r.tracking().Find(ctx, bson.M{"batch": batch}, opts)
	if err != nil {
		return err
	}
	var records []migrationRecord
	if err := cur.All(ctx, &records); err != nil {
		return err
	}

	regMap := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		regMap[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := regMap[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot rollback %s — not registered", rec.Name)
		}

		fmt.Printf("  ◀ Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		if err := m.Down(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}

		if _, err := r.tracking().DeleteOne(ctx, bson.M{"name": rec.Name}); err != nil {
			return err
		}

		fmt.Printf("  ✅ Rolled back:  %s\n", rec.Name)
	}

	return nil
}

// Status prints all migrations and whether each has been run.
func (r *Runner) Status(ctx context.Context) error {
	applied, err := r.appliedSet(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, reg := range registry {
		if rec, ok := applied[reg.name]; ok {
			fmt.Printf("%-60s  %-8s  %d\n", reg.name, "Ran", rec.Batch)
		} else {
			fmt.Printf("%-60s  %-8s  -\n", reg.name, "Pending")
		}
	}
	return nil
}

func (r *Runner) maxBatch(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "batch", Value: -1}})
	var rec migrationRecord
	err := r.tracking().FindOne(ctx, bson.M{}, opts).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rec.Batch, nil
}

func (r *Runner) nextBatch(ctx context.Context) (int, error) {
	max, err := r.maxBatch(ctx)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
