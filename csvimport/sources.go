package csvimport

import (
	"fmt"

	"oplsetup/config"
	"oplsetup/db"
)

// Column projects the source header Header onto the table column Name.
// Optional columns are loaded only when the file carries the header.
type Column struct {
	Header   string
	Name     string
	Optional bool
}

// Source ties a table to its default file and column projection.
type Source struct {
	Table   db.Table
	File    string
	Columns []Column
}

func col(name string) Column { return Column{Header: name, Name: name} }
func optional(name string) Column { return Column{Header: name, Name: name, Optional: true} }
func renamed(header, name string) Column { return Column{Header: header, Name: name} }

// aircraft.csv only carries Name, iata and icao. The remaining type columns are
// read when a richer file provides them and stay NULL otherwise; aircraft_id
// is always assigned by sqlite.
var sources = []Source{
	{Table: db.Aircraft, File: "aircraft.csv", Columns: []Column{
		renamed("Name", "name"), col("iata"), col("icao"),
		optional("make"), optional("model"), optional("variant"),
		optional("singlepilot"), optional("multipilot"),
		optional("singleengine"), optional("multiengine"),
		optional("turboprop"), optional("jet"), optional("heavy"),
	}},
	{Table: db.Tails, File: "tails_test.csv", Columns: []Column{
		renamed("Registration", "registration"), col("aircraft_id"), renamed("Company", "company"),
	}},
	{Table: db.Pilots, File: "pilots_test.csv", Columns: []Column{
		col("picfirstname"), col("piclastname"), col("alias"),
	}},
	{Table: db.Airports, File: "airports_edited.csv", Columns: []Column{
		col("icao"), col("iata"), col("name"), col("lat"), col("long"),
		col("country"), col("alt"), col("utcoffset"), col("tzolson"),
	}},
	{Table: db.Flights, File: "flights_test.csv", Columns: []Column{
		col("doft"), col("dept"), col("tofb"), col("dest"), col("tonb"),
		col("tblk"), col("pic"), col("acft"),
	}},
	{Table: db.Extras, File: "extras.csv", Columns: []Column{
		optional("PilotFlying"), optional("TOday"), optional("TOnight"),
		optional("LDGday"), optional("LDGnight"), optional("autoland"),
		optional("tNight"), optional("tIFR"), optional("tPIC"), optional("tSIC"),
		optional("tDual"), optional("tInstructor"), optional("tSIM"),
		optional("ApproachType"), optional("FlightNumber"), optional("Remarks"),
	}},
}

// Sources returns every known source in table dependency order.
func Sources() []Source {
	out := make([]Source, len(sources))
	copy(out, sources)
	return out
}

// SourceFor returns the source that loads t.
func SourceFor(t db.Table) (Source, error) {
	for _, s := range sources {
		if s.Table == t {
			return s, nil
		}
	}
	return Source{}, fmt.Errorf("no source defined for table %q", t)
}

// Path resolves the file s is read from under cfg.
func (s Source) Path(cfg *config.Config) string {
	return cfg.SourcePath(string(s.Table), s.File)
}
