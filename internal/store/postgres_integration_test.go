// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/areaguard/areaguard/internal/area"
	"github.com/areaguard/areaguard/internal/area/postgres"
	"github.com/areaguard/areaguard/internal/store"
)

// setupMigratedPool starts a PostgreSQL container and applies all
// migrations, returning a connected pool.
func setupMigratedPool() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:16-alpine",
		pgcontainer.WithDatabase("areaguard_test"),
		pgcontainer.WithUsername("areaguard"),
		pgcontainer.WithPassword("areaguard"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		return nil, nil, err
	}
	_ = migrator.Close()

	pool, err := store.NewPool(ctx, connStr)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return pool, cleanup, nil
}

var _ = Describe("Area repositories", func() {
	var pool *pgxpool.Pool
	var cleanup func()

	BeforeEach(func() {
		var err error
		pool, cleanup, err = setupMigratedPool()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		cleanup()
	})

	Describe("RegionRepository", func() {
		It("round-trips a region through create and list", func() {
			ctx := context.Background()
			repo := postgres.NewRegionRepository(pool)

			reg := area.NewRegion(area.NewExtent(
				area.Vec3{X: -8, Y: 0, Z: -8}, area.Vec3{X: 8, Y: 64, Z: 8}),
				"spawn", area.PermDefault)
			Expect(repo.Create(ctx, reg)).To(Succeed())
			Expect(reg.ID).NotTo(BeZero())

			regions, err := repo.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(regions).To(HaveLen(1))
			Expect(regions[0].Name).To(Equal("spawn"))
			Expect(regions[0].Extent).To(Equal(reg.Extent))
			Expect(regions[0].Default).To(Equal(area.PermDefault))
		})

		It("orders the listing case-insensitively by name", func() {
			ctx := context.Background()
			repo := postgres.NewRegionRepository(pool)

			for _, name := range []string{"Zoo", "alpha", "Beta"} {
				reg := area.NewRegion(area.NewExtent(
					area.Vec3{}, area.Vec3{X: 1, Y: 1, Z: 1}), name, area.PermDefault)
				Expect(repo.Create(ctx, reg)).To(Succeed())
			}

			regions, err := repo.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			names := []string{regions[0].Name, regions[1].Name, regions[2].Name}
			Expect(names).To(Equal([]string{"alpha", "Beta", "Zoo"}))
		})

		It("preserves the owner bit through persistence", func() {
			ctx := context.Background()
			repo := postgres.NewRegionRepository(pool)

			perm := area.PermAll // includes bit 63
			reg := area.NewRegion(area.NewExtent(
				area.Vec3{}, area.Vec3{X: 1, Y: 1, Z: 1}), "vault", perm)
			Expect(repo.Create(ctx, reg)).To(Succeed())

			regions, err := repo.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(regions[0].Default).To(Equal(perm))
		})

		It("maps missing rows to ErrNotFound on update and delete", func() {
			ctx := context.Background()
			repo := postgres.NewRegionRepository(pool)

			ghost := area.NewRegion(area.NewExtent(
				area.Vec3{}, area.Vec3{X: 1, Y: 1, Z: 1}), "ghost", area.PermDefault)
			ghost.ID = 4242

			Expect(repo.Update(ctx, ghost)).To(MatchError(area.ErrNotFound))
			Expect(repo.Delete(ctx, 4242)).To(MatchError(area.ErrNotFound))
		})
	})

	Describe("OverrideRepository", func() {
		It("upserts with last-write-wins semantics", func() {
			ctx := context.Background()
			repo := postgres.NewOverrideRepository(pool)

			Expect(repo.UpsertActor(ctx, 1, 10, area.PermDefault)).To(Succeed())
			Expect(repo.UpsertActor(ctx, 1, 10, area.PermAll)).To(Succeed())

			got, err := repo.ActorOverrides(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(map[area.ActorID]area.Permission{10: area.PermAll}))
		})

		It("stores manager pseudo-region grants without a regions row", func() {
			ctx := context.Background()
			repo := postgres.NewOverrideRepository(pool)

			Expect(repo.UpsertActor(ctx, area.ManagerRegionID, 10, area.PermAll)).To(Succeed())

			got, err := repo.RegionsForActor(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveKey(area.ManagerRegionID))
		})

		It("rejects group overrides for unknown groups", func() {
			ctx := context.Background()
			repo := postgres.NewOverrideRepository(pool)

			err := repo.UpsertGroup(ctx, 1, 999, area.PermDefault)
			Expect(err).To(MatchError(area.ErrNotFound))
		})

		It("clears both tables with DeleteForRegion", func() {
			ctx := context.Background()
			overrides := postgres.NewOverrideRepository(pool)
			groups := postgres.NewGroupRepository(pool)

			gid, err := groups.Ensure(ctx, "builder")
			Expect(err).NotTo(HaveOccurred())

			Expect(overrides.UpsertActor(ctx, 1, 10, area.PermAll)).To(Succeed())
			Expect(overrides.UpsertGroup(ctx, 1, gid, area.PermDefault)).To(Succeed())

			Expect(overrides.DeleteForRegion(ctx, 1)).To(Succeed())

			actors, err := overrides.ActorOverrides(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(actors).To(BeEmpty())

			groupOv, err := overrides.GroupOverrides(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(groupOv).To(BeEmpty())
		})
	})

	Describe("GroupRepository", func() {
		It("returns a stable ID for repeated Ensure calls", func() {
			ctx := context.Background()
			repo := postgres.NewGroupRepository(pool)

			first, err := repo.Ensure(ctx, "admin")
			Expect(err).NotTo(HaveOccurred())

			second, err := repo.Ensure(ctx, "admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))

			all, err := repo.All(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveKeyWithValue(first, "admin"))
		})
	})

	Describe("AuditRepository", func() {
		It("appends events", func() {
			ctx := context.Background()
			repo := postgres.NewAuditRepository(pool)

			event := area.AuditEvent{
				ID:        ulid.Make(),
				Kind:      area.AuditRegionCreated,
				RegionID:  1,
				ActorID:   10,
				Detail:    "spawn",
				CreatedAt: time.Now().UTC(),
			}
			Expect(repo.Append(ctx, event)).To(Succeed())

			var count int
			err := pool.QueryRow(ctx, `SELECT count(*) FROM audit_events`).Scan(&count)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})
	})
})
