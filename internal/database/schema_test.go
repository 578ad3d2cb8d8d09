package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationsDirResolvesToSchemaFiles(t *testing.T) {
	info, err := os.Stat(filepath.Join("../..", MigrationsDir))
	if err != nil {
		t.Fatalf("MigrationsDir %q does not resolve: %v", MigrationsDir, err)
	}
	if !info.IsDir() {
		t.Fatalf("MigrationsDir %q is not a directory", MigrationsDir)
	}
}

// Feature: store-dashboard, Property 17: Pending migrations are executed
// Validates: Requirements 6.1
func TestMigrationFilesExist(t *testing.T) {
	migrationsDir := "../../migrations"

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_refresh_tokens_table.sql",
		"00003_create_staff_table.sql",
		"00004_create_products_table.sql",
		"00005_create_sales_table.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	migrationsDir := "../../migrations"

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)

		if !strings.Contains(contentStr, "-- +goose Up") {
			t.Errorf("Migration file %s missing '-- +goose Up' directive", file.Name())
		}
		if !strings.Contains(contentStr, "-- +goose Down") {
			t.Errorf("Migration file %s missing '-- +goose Down' directive", file.Name())
		}
		if !strings.Contains(contentStr, "-- +goose StatementBegin") {
			t.Errorf("Migration file %s missing '-- +goose StatementBegin' directive", file.Name())
		}
		if !strings.Contains(contentStr, "-- +goose StatementEnd") {
			t.Errorf("Migration file %s missing '-- +goose StatementEnd' directive", file.Name())
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	migrationsDir := "../../migrations"

	expectedTables := map[string]string{
		"users":          "00001_create_users_table.sql",
		"refresh_tokens": "00002_create_refresh_tokens_table.sql",
		"staff":          "00003_create_staff_table.sql",
		"products":       "00004_create_products_table.sql",
		"sales":          "00005_create_sales_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		path := filepath.Join(migrationsDir, migrationFile)
		content, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", migrationFile, err)
			continue
		}

		contentStr := string(content)

		createTableStmt := "CREATE TABLE IF NOT EXISTS " + tableName
		if !strings.Contains(contentStr, createTableStmt) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}

		dropTableStmt := "DROP TABLE IF EXISTS " + tableName
		if !strings.Contains(contentStr, dropTableStmt) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestProductsTableGuardsStock(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00004_create_products_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read products migration: %v", err)
	}

	contentStr := string(content)

	// Stock can never go negative at the database level
	if !strings.Contains(contentStr, "CHECK (quantity >= 0)") {
		t.Error("Products table missing non-negative quantity constraint")
	}
	if !strings.Contains(contentStr, "low_stock_threshold") {
		t.Error("Products table missing low_stock_threshold column")
	}
}

func TestSalesTableSnapshotsAndDanglingRefs(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00005_create_sales_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read sales migration: %v", err)
	}

	contentStr := string(content)

	// Sales keep their own copies of the catalog data they were
	// recorded with
	for _, column := range []string{"product_name", "unit_price", "total_amount", "sold_at"} {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Sales table missing snapshot column %s", column)
		}
	}

	if !strings.Contains(contentStr, "CHECK (quantity > 0)") {
		t.Error("Sales table missing positive quantity constraint")
	}

	// No foreign keys on product_id/staff_id: products and staff must
	// be deletable while their sales survive
	if strings.Contains(contentStr, "REFERENCES products") || strings.Contains(contentStr, "REFERENCES staff") {
		t.Error("Sales table must not enforce foreign keys to products or staff")
	}
}

func TestRefreshTokensTableCascades(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00002_create_refresh_tokens_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read refresh_tokens migration: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, "REFERENCES users(id) ON DELETE CASCADE") {
		t.Error("Refresh tokens should be removed with their user")
	}
	if !strings.Contains(contentStr, "idx_refresh_tokens_token") {
		t.Error("Refresh tokens missing lookup index on token")
	}
}
