package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// schema_migrations: one row per applied migration.
type SchemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"type:varchar(255);not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

// Migration is one step of the schema history. Versions are applied in
// ascending order, each inside its own transaction.
type Migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

// Migrations is the ordered schema history. Never edit an applied entry;
// append a new one.
var Migrations = []Migration{
	{Version: 1, Name: "base_schema", Up: migrateBaseSchema},
	{Version: 2, Name: "occupancy_indexes", Up: migrateOccupancyIndexes},
	{Version: 3, Name: "drop_legacy_washroom_client_unique", Up: migrateDropLegacyWashroomUnique},
}

// Models lists every entity of the record store, parents first.
func Models() []any {
	return []any{
		&Client{},
		&WashroomRecord{},
		&CoatCheckRecord{},
		&SanctuaryRecord{},
		&ClinicRecord{},
		&SafeSleepRecord{},
		&Activity{},
		&ClientActivity{},
	}
}

// Migrate applies every pending migration and returns the names applied.
func Migrate(db *gorm.DB) ([]string, error) {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var done []SchemaMigration
	if err := db.Find(&done).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	appliedSet := make(map[int]struct{}, len(done))
	for _, m := range done {
		appliedSet[m.Version] = struct{}{}
	}

	var applied []string
	for _, m := range Migrations {
		if _, ok := appliedSet[m.Version]; ok {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{
				Version:   m.Version,
				Name:      m.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("migration %04d_%s: %w", m.Version, m.Name, err)
		}
		applied = append(applied, fmt.Sprintf("%04d_%s", m.Version, m.Name))
	}
	return applied, nil
}

func migrateBaseSchema(tx *gorm.DB) error {
	return tx.AutoMigrate(Models()...)
}

// At most one open record per stall, bin and bed, and one occupied bed per
// client. Partial indexes are supported by both postgres and sqlite.
func migrateOccupancyIndexes(tx *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_washroom_open_stall
			ON washroom_records (washroom_type) WHERE time_out IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_coat_check_open_bin
			ON coat_check_records (bin_no) WHERE time_out IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_safe_sleep_occupied_bed
			ON safe_sleep_records (bed_no) WHERE is_occupied AND bed_no IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_safe_sleep_occupied_client
			ON safe_sleep_records (client_id) WHERE is_occupied`,
	}
	for _, stmt := range stmts {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// Older deployments carried a unique constraint on washroom_records.client_id
// that allowed a single washroom visit per client.
func migrateDropLegacyWashroomUnique(tx *gorm.DB) error {
	if tx.Dialector.Name() == "postgres" {
		if err := tx.Exec(`ALTER TABLE washroom_records DROP CONSTRAINT IF EXISTS washroom_records_client_id_unique`).Error; err != nil {
			return err
		}
	}
	return tx.Exec(`DROP INDEX IF EXISTS washroom_records_client_id_idx`).Error
}
