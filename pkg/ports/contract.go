package ports

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/sysml/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contractDocument builds a small model touching the renamed wire keys.
func contractDocument() *domain.Document {
	def := &domain.PortDefinition{}
	def.ID = "fuel-port"
	def.Name = "FuelPort"
	def.Position = json.RawMessage(`{"x":1,"y":2}`)

	use := &domain.PortUsage{}
	use.ID = "fuel-in"
	use.Name = "fuelIn"
	def.RegisterPortUsage(use)

	return &domain.Document{
		Elements: []domain.Element{def, use},
		Relationships: []domain.Relationship{
			{ID: "r1", Type: domain.RelFeatureTyping, SourceID: "fuel-in", TargetID: "fuel-port"},
		},
	}
}

// RunModelRepositoryContract runs a suite of tests to verify that a ModelRepository
// implementation adheres to the defined interface contract.
func RunModelRepositoryContract(t *testing.T, repo ModelRepository) {
	ctx := context.Background()
	name := "contract-test-model-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := contractDocument()

		err := repo.Save(ctx, name, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := repo.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.Elements, 2)
		require.Len(t, loaded.Relationships, 1)

		def, ok := loaded.Elements[0].(*domain.PortDefinition)
		require.True(t, ok, "first element should decode as a PortDefinition")
		assert.Equal(t, "FuelPort", def.Name)
		assert.Equal(t, []string{"fuel-in"}, def.PortUsages)
		assert.JSONEq(t, `{"x":1,"y":2}`, string(def.Position))
		assert.Empty(t, def.Usages(), "live usage cache is not persisted")

		use, ok := loaded.Elements[1].(*domain.PortUsage)
		require.True(t, ok)
		assert.Equal(t, "fuel-port", use.DefinitionID)
		assert.Equal(t, doc.Relationships[0], loaded.Relationships[0])
	})

	t.Run("Save Replaces", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, name, &domain.Document{}))

		loaded, err := repo.Load(ctx, name)
		require.NoError(t, err)
		assert.Empty(t, loaded.Elements)
		assert.Empty(t, loaded.Relationships)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := repo.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrModelNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, name, contractDocument()))

		err := repo.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = repo.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrModelNotFound, "Load after Delete should return ErrModelNotFound")

		assert.NoError(t, repo.Delete(ctx, name), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		name1 := name + "-1"
		name2 := name + "-2"
		require.NoError(t, repo.Save(ctx, name1, contractDocument()))
		require.NoError(t, repo.Save(ctx, name2, contractDocument()))

		defer func() {
			_ = repo.Delete(ctx, name1)
			_ = repo.Delete(ctx, name2)
		}()

		names, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, name1)
		assert.Contains(t, names, name2)
	})
}

// RunLockerContract verifies that a DistributedLocker grants a key to one holder at a time.
func RunLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()
	key := "contract-lock-" + time.Now().Format("20060102150405")

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, time.Second)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))

		unlock, err = locker.Lock(ctx, key, time.Second)
		require.NoError(t, err, "lock should be free again after unlock")
		require.NoError(t, unlock(ctx))
	})

	t.Run("Held Lock Blocks", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		defer func() { _ = unlock(ctx) }()

		waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(waitCtx, key, time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Mutual Exclusion", func(t *testing.T) {
		var (
			mu      sync.Mutex
			holders int
			maxSeen int
			wg      sync.WaitGroup
		)
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Lock(ctx, key+"-mutex", 5*time.Second)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				holders++
				if holders > maxSeen {
					maxSeen = holders
				}
				mu.Unlock()

				time.Sleep(20 * time.Millisecond)

				mu.Lock()
				holders--
				mu.Unlock()
				assert.NoError(t, unlock(ctx))
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, maxSeen)
	})
}
