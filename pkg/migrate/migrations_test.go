package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agkmart/agkmart-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestPilotsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_pilots.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS pilots",
		"CONSTRAINT ux_pilots_phone UNIQUE (phone)",
		"CHECK (status IN ('pending_approval', 'approved', 'rejected', 'deactivated'))",
		"CHECK (current_lat IS NULL OR (current_lat >= -90 AND current_lat <= 90))",
		"DROP TABLE IF EXISTS pilots",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CONSTRAINT ux_orders_order_code UNIQUE (order_code)",
		"CHECK (status IN ('confirmed', 'dispatched', 'in_transit', 'delivered', 'cancelled'))",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"WHERE status = 'dispatched' AND assigned_pilot_id IS NULL",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestTicketsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_support_tickets.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS support_tickets",
		"CHECK (status IN ('open', 'in_progress', 'resolved', 'closed'))",
		"CHECK (priority IN ('low', 'medium', 'high', 'urgent'))",
		"rated_at TIMESTAMPTZ",
		"attachments JSONB",
		"FOREIGN KEY (ticket_id) REFERENCES support_tickets(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS support_tickets",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
