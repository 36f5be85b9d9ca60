package db

import (
	"context"
	"errors"
	"os"
	"testing"

	"oplsetup/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCreateDropCreate(t *testing.T) {
	ctx := context.Background()
	for _, table := range Tables {
		t.Run(string(table), func(t *testing.T) {
			conn, _ := setupTestDB(t)
			m := newTestManager(conn, SeedPilot{})

			require.NoError(t, m.Create(ctx, table))
			assert.True(t, conn.Migrator().HasTable(string(table)))

			require.NoError(t, m.Drop(ctx, table))
			assert.False(t, conn.Migrator().HasTable(string(table)))

			require.NoError(t, m.Create(ctx, table))
			assert.True(t, conn.Migrator().HasTable(string(table)))
		})
	}
}

func TestCreateTwiceFails(t *testing.T) {
	ctx := context.Background()
	for _, table := range Tables {
		t.Run(string(table), func(t *testing.T) {
			conn, _ := setupTestDB(t)
			m := newTestManager(conn, SeedPilot{})

			require.NoError(t, m.Create(ctx, table))
			err := m.Create(ctx, table)
			require.Error(t, err)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, "create", schemaErr.Op)
			assert.Equal(t, string(table), schemaErr.Table)
		})
	}
}

func TestDropMissingTable(t *testing.T) {
	ctx := context.Background()
	conn, path := setupTestDB(t)
	m := newTestManager(conn, SeedPilot{})
	require.NoError(t, m.Create(ctx, Airports))
	require.NoError(t, conn.Create(&model.Airport{ICAO: "EDDF"}).Error)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = m.Drop(ctx, Flights)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "drop", schemaErr.Op)
	assert.Equal(t, "flights", schemaErr.Table)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	n, err := NewSQLStore(conn).CountRows(ctx, Airports)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUnknownTable(t *testing.T) {
	ctx := context.Background()
	conn, _ := setupTestDB(t)
	m := newTestManager(conn, SeedPilot{})

	_, err := ParseTable("scratchpad")
	assert.ErrorIs(t, err, ErrUnknownTable)

	assert.ErrorIs(t, m.Create(ctx, Table("scratchpad")), ErrUnknownTable)
	assert.ErrorIs(t, m.Drop(ctx, Table("scratchpad")), ErrUnknownTable)

	tbl, err := ParseTable("tails")
	require.NoError(t, err)
	assert.Equal(t, Tails, tbl)
}

func TestInitialise(t *testing.T) {
	ctx := context.Background()
	conn, _ := setupTestDB(t)
	m := newTestManager(conn, SeedPilot{})
	store := NewSQLStore(conn)

	require.NoError(t, m.Initialise(ctx))
	for _, table := range []Table{Airports, Flights} {
		n, err := store.CountRows(ctx, table)
		require.NoError(t, err)
		assert.Zero(t, n, table)
	}
	assert.False(t, conn.Migrator().HasTable("pilots"))

	var schemaErr *SchemaError
	assert.True(t, errors.As(m.Initialise(ctx), &schemaErr))
}

func TestCreateAllAndDropAll(t *testing.T) {
	ctx := context.Background()
	conn, _ := setupTestDB(t)
	m := newTestManager(conn, SeedPilot{})
	store := NewSQLStore(conn)

	require.NoError(t, m.CreateAll(ctx))
	tables, err := store.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, Tables, tables)

	require.NoError(t, m.DropAll(ctx))
	tables, err = store.ListTables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)

	// nothing left to drop is not an error
	require.NoError(t, m.DropAll(ctx))
}

func TestColumnLayout(t *testing.T) {
	ctx := context.Background()
	conn, _ := setupTestDB(t)
	require.NoError(t, newTestManager(conn, SeedPilot{}).CreateAll(ctx))

	expected := map[Table][]string{
		Airports: {"airport_id", "icao", "iata", "name", "lat", "long", "country", "alt", "utcoffset", "tzolson"},
		Flights:  {"id", "doft", "dept", "tofb", "dest", "tonb", "tblk", "pic", "acft"},
		Pilots:   {"pilot_id", "picfirstname", "piclastname", "alias"},
		Aircraft: {"aircraft_id", "make", "model", "variant", "name", "iata", "icao", "singlepilot",
			"multipilot", "singleengine", "multiengine", "turboprop", "jet", "heavy"},
		Tails: {"tail_id", "registration", "aircraft_id", "company"},
		Extras: {"extras_id", "PilotFlying", "TOday", "TOnight", "LDGday", "LDGnight", "autoland", "tNight",
			"tIFR", "tPIC", "tSIC", "tDual", "tInstructor", "tSIM", "ApproachType", "FlightNumber", "Remarks"},
	}
	store := NewSQLStore(conn)
	for table, cols := range expected {
		dump, err := store.TableRows(ctx, table)
		require.NoError(t, err)
		assert.Equal(t, cols, dump.Columns, table)
	}
}

func TestNotNullColumns(t *testing.T) {
	ctx := context.Background()
	conn, _ := setupTestDB(t)
	require.NoError(t, newTestManager(conn, SeedPilot{}).CreateAll(ctx))

	err := conn.Exec("INSERT INTO pilots (picfirstname) VALUES (?)", "Nobody").Error
	require.Error(t, err)
	var cv *ConstraintViolation
	assert.True(t, errors.As(ClassifyWriteError("pilots", err), &cv))

	err = conn.Exec("INSERT INTO tails (registration) VALUES (?)", "D-AIXA").Error
	assert.True(t, errors.As(ClassifyWriteError("tails", err), &cv))

	err = conn.Exec("INSERT INTO flights (doft, dept, tofb, dest) VALUES (?, ?, ?, ?)", "2020-05-01", "EDDF", 600, "EGLL").Error
	assert.True(t, errors.As(ClassifyWriteError("flights", err), &cv))
}

func TestSeedPilot(t *testing.T) {
	ctx := context.Background()

	t.Run("seed is written with the pilots table", func(t *testing.T) {
		conn, _ := setupTestDB(t)
		m := newTestManager(conn, SeedPilot{Enabled: true, FirstName: "Felix", LastName: "Turowsky"})
		require.NoError(t, m.Create(ctx, Pilots))

		var pilots []model.Pilot
		require.NoError(t, conn.Find(&pilots).Error)
		require.Len(t, pilots, 1)
		require.NotNil(t, pilots[0].Alias)
		assert.Equal(t, model.SelfAlias, *pilots[0].Alias)
	})

	t.Run("other tables are not seeded", func(t *testing.T) {
		conn, _ := setupTestDB(t)
		m := newTestManager(conn, SeedPilot{Enabled: true, LastName: "Turowsky"})
		require.NoError(t, m.Create(ctx, Airports))
		assert.False(t, conn.Migrator().HasTable("pilots"))
	})

	t.Run("seed without a last name is rejected before the table exists", func(t *testing.T) {
		conn, _ := setupTestDB(t)
		m := newTestManager(conn, SeedPilot{Enabled: true, FirstName: "Felix"})
		require.Error(t, m.Create(ctx, Pilots))
		assert.False(t, conn.Migrator().HasTable("pilots"))
	})

	t.Run("recreating pilots seeds again", func(t *testing.T) {
		conn, _ := setupTestDB(t)
		m := newTestManager(conn, SeedPilot{Enabled: true, LastName: "Turowsky"})
		require.NoError(t, m.Create(ctx, Pilots))
		require.NoError(t, m.Drop(ctx, Pilots))
		require.NoError(t, m.Create(ctx, Pilots))

		n, err := NewSQLStore(conn).CountRows(ctx, Pilots)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestForeignKeysOption(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/fk.db"
	conn, err := Open(path, Options{ForeignKeys: true})
	require.NoError(t, err)
	defer Close(conn)

	m := newTestManager(conn, SeedPilot{})
	require.NoError(t, m.Create(ctx, Aircraft))
	require.NoError(t, m.Create(ctx, Tails))

	err = conn.Exec("INSERT INTO tails (registration, aircraft_id) VALUES (?, ?)", "D-AIXA", 42).Error
	require.Error(t, err)
	var cv *ConstraintViolation
	assert.True(t, errors.As(ClassifyWriteError("tails", err), &cv))
}

// tableSQL returns the CREATE TABLE statement sqlite stored for name.
func tableSQL(t *testing.T, conn *gorm.DB, name string) string {
	t.Helper()
	var ddl string
	require.NoError(t, conn.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&ddl).Error)
	return ddl
}

func TestForeignKeyClauses(t *testing.T) {
	ctx := context.Background()

	t.Run("tails and flights reference their parents", func(t *testing.T) {
		conn, _ := setupTestDB(t)
		require.NoError(t, newTestManager(conn, SeedPilot{}).CreateAll(ctx))

		assert.Contains(t, tableSQL(t, conn, "tails"), "FOREIGN KEY (`aircraft_id`) REFERENCES `aircraft`(`aircraft_id`)")
		flights := tableSQL(t, conn, "flights")
		assert.Contains(t, flights, "FOREIGN KEY (`pic`) REFERENCES `pilots`(`pilot_id`)")
		assert.Contains(t, flights, "FOREIGN KEY (`acft`) REFERENCES `tails`(`tail_id`)")
	})

	t.Run("tails created on its own still references aircraft", func(t *testing.T) {
		conn, _ := setupTestDB(t)
		require.NoError(t, newTestManager(conn, SeedPilot{}).Create(ctx, Tails))
		assert.Contains(t, tableSQL(t, conn, "tails"), "REFERENCES `aircraft`(`aircraft_id`)")
		assert.NotContains(t, tableSQL(t, conn, "tails"), "aircraft_tails")
	})
}

func TestPrimaryKeysAreRowidAliases(t *testing.T) {
	ctx := context.Background()
	conn, _ := setupTestDB(t)
	require.NoError(t, newTestManager(conn, SeedPilot{}).CreateAll(ctx))

	for _, table := range Tables {
		assert.NotContains(t, tableSQL(t, conn, string(table)), "AUTOINCREMENT", table)
	}
	assert.False(t, conn.Migrator().HasTable("sqlite_sequence"))

	first := model.Pilot{LastName: "Earhart"}
	second := model.Pilot{LastName: "Lindbergh"}
	require.NoError(t, conn.Create(&first).Error)
	require.NoError(t, conn.Create(&second).Error)
	assert.Equal(t, int64(1), first.PilotID)
	assert.Equal(t, int64(2), second.PilotID)
}

func TestSeedFailureRollsBackPilots(t *testing.T) {
	ctx := context.Background()
	conn, _ := setupTestDB(t)
	errDiskFull := errors.New("disk full")
	require.NoError(t, conn.Callback().Create().Before("gorm:create").Register("test:fail_pilots", func(tx *gorm.DB) {
		if tx.Statement.Table == string(Pilots) {
			_ = tx.AddError(errDiskFull)
		}
	}))

	m := newTestManager(conn, SeedPilot{Enabled: true, FirstName: "Felix", LastName: "Turowsky"})
	err := m.Create(ctx, Pilots)
	require.ErrorIs(t, err, errDiskFull)
	assert.False(t, conn.Migrator().HasTable("pilots"))

	require.NoError(t, conn.Callback().Create().Remove("test:fail_pilots"))
	require.NoError(t, m.Create(ctx, Pilots))
	self, err := NewSQLStore(conn).GetSelfPilot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Turowsky", self.LastName)
}

func TestSQLLogger(t *testing.T) {
	assert.Equal(t, logger.Discard, sqlLogger(false))
	assert.NotEqual(t, logger.Discard, sqlLogger(true))

	conn, err := Open(t.TempDir()+"/echo.db", Options{SQLLog: true})
	require.NoError(t, err)
	defer Close(conn)
	require.NoError(t, NewSQLStore(conn).Ping(context.Background()))
}
