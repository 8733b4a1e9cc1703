// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package api_test

import (
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/coursegate/internal/store"
)

var _ = Describe("Migrations", func() {
	It("leaves the schema up to date and is idempotent", func() {
		migrator, err := store.NewMigrator(env.connStr)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = migrator.Close() })

		Expect(migrator.Up()).To(Succeed())

		status, err := migrator.Status()
		Expect(err).NotTo(HaveOccurred())
		Expect(status.UpToDate()).To(BeTrue())
		Expect(status.Current).To(Equal(status.Latest))
	})

	It("creates the tables the repositories use", func() {
		for _, table := range []string{"accounts", "courses", "purchases"} {
			var exists bool
			err := env.pool.QueryRow(env.ctx,
				`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, table,
			).Scan(&exists)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue(), "table %s", table)
		}
	})
})
