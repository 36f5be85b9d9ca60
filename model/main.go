package model

// Primary keys are plain integer rowid aliases: sqlite assigns them when the
// column is left out of an insert, and default:null keeps gorm from writing a
// zero id.

// SelfAlias marks the pilots row that belongs to the logbook owner.
const SelfAlias = "self"

// An Airport is reference data loaded from ourairports/openflights extracts.
// icao is expected to be unique but nothing enforces it.
type Airport struct {
	AirportID int64    `gorm:"column:airport_id;primaryKey;autoIncrement:false;default:null"`
	ICAO      string   `gorm:"column:icao;type:text;not null"`
	IATA      *string  `gorm:"column:iata;type:text"`
	Name      *string  `gorm:"column:name;type:text"`
	Lat       *float64 `gorm:"column:lat;type:real"`
	Long      *float64 `gorm:"column:long;type:real"`
	Country   *string  `gorm:"column:country;type:text"`
	Alt       *int64   `gorm:"column:alt;type:integer"`
	UTCOffset *float64 `gorm:"column:utcoffset;type:integer"` // half hour zones keep their fraction
	TZOlson   *string  `gorm:"column:tzolson;type:text"`
}

func (Airport) TableName() string { return "airports" }

// A Flight is one logbook entry. Times are minutes, doft is the date of flight.
type Flight struct {
	ID    int64  `gorm:"column:id;primaryKey;autoIncrement:false;default:null"`
	Doft  string `gorm:"column:doft;type:numeric;not null"`
	Dept  string `gorm:"column:dept;type:text;not null"`
	Tofb  int64  `gorm:"column:tofb;type:integer;not null"`
	Dest  string `gorm:"column:dest;type:text;not null"`
	Tonb  int64  `gorm:"column:tonb;type:integer;not null"`
	Tblk  *int64 `gorm:"column:tblk;type:integer"`
	PIC   *int64 `gorm:"column:pic;type:integer"`
	Acft  *int64 `gorm:"column:acft;type:integer"`
	Pilot *Pilot `gorm:"foreignKey:PIC;references:PilotID"`
	Tail  *Tail  `gorm:"foreignKey:Acft;references:TailID"`
}

func (Flight) TableName() string { return "flights" }

type Pilot struct {
	PilotID   int64   `gorm:"column:pilot_id;primaryKey;autoIncrement:false;default:null"`
	FirstName *string `gorm:"column:picfirstname;type:text"`
	LastName  string  `gorm:"column:piclastname;type:text;not null"`
	Alias     *string `gorm:"column:alias;type:text"`
}

func (Pilot) TableName() string { return "pilots" }

// Aircraft is an aircraft type. The capability flags hold 1 for true and 0 for
// false since sqlite has no boolean type; heavy means above 5.7t.
type Aircraft struct {
	ID           int64   `gorm:"column:aircraft_id;primaryKey;autoIncrement:false;default:null"`
	Make         *string `gorm:"column:make;type:text"`
	Model        *string `gorm:"column:model;type:text"`
	Variant      *string `gorm:"column:variant;type:text"`
	Name         *string `gorm:"column:name;type:text"`
	IATA         *string `gorm:"column:iata;type:text"`
	ICAO         *string `gorm:"column:icao;type:text"`
	SinglePilot  *int64  `gorm:"column:singlepilot;type:integer"`
	MultiPilot   *int64  `gorm:"column:multipilot;type:integer"`
	SingleEngine *int64  `gorm:"column:singleengine;type:integer"`
	MultiEngine  *int64  `gorm:"column:multiengine;type:integer"`
	Turboprop    *int64  `gorm:"column:turboprop;type:integer"`
	Jet          *int64  `gorm:"column:jet;type:integer"`
	Heavy        *int64  `gorm:"column:heavy;type:integer"`
}

func (Aircraft) TableName() string { return "aircraft" }

// A Tail is an individual registration linked to its aircraft type.
type Tail struct {
	TailID       int64     `gorm:"column:tail_id;primaryKey;autoIncrement:false;default:null"`
	Registration string    `gorm:"column:registration;type:text;not null"`
	AircraftID   int64     `gorm:"column:aircraft_id;type:integer;not null"`
	Company      *string   `gorm:"column:company;type:text"`
	Aircraft     *Aircraft `gorm:"foreignKey:AircraftID;references:ID"`
}

func (Tail) TableName() string { return "tails" }

// Extras holds the supplementary counters of a flight: function times,
// operational condition times, takeoffs and landings. Rows line up with
// flights by id only; no key ties them together.
type Extras struct {
	ExtrasID     int64   `gorm:"column:extras_id;primaryKey;autoIncrement:false;default:null"`
	PilotFlying  *int64  `gorm:"column:PilotFlying;type:integer"`
	TakeoffDay   *int64  `gorm:"column:TOday;type:integer"`
	TakeoffNight *int64  `gorm:"column:TOnight;type:integer"`
	LandingDay   *int64  `gorm:"column:LDGday;type:integer"`
	LandingNight *int64  `gorm:"column:LDGnight;type:integer"`
	Autoland     *int64  `gorm:"column:autoland;type:integer"`
	TimeNight    *int64  `gorm:"column:tNight;type:integer"`
	TimeIFR      *int64  `gorm:"column:tIFR;type:integer"`
	TimePIC      *int64  `gorm:"column:tPIC;type:integer"`
	TimeSIC      *int64  `gorm:"column:tSIC;type:integer"`
	TimeDual     *int64  `gorm:"column:tDual;type:integer"`
	TimeFI       *int64  `gorm:"column:tInstructor;type:integer"`
	TimeSIM      *int64  `gorm:"column:tSIM;type:integer"`
	ApproachType *string `gorm:"column:ApproachType;type:text"`
	FlightNumber *string `gorm:"column:FlightNumber;type:text"`
	Remarks      *string `gorm:"column:Remarks;type:text"`
}

func (Extras) TableName() string { return "extras" }
