package db

import (
	"oplsetup/model"
)

// Table names one of the logbook tables.
type Table string

const (
	Airports Table = "airports"
	Flights  Table = "flights"
	Pilots   Table = "pilots"
	Aircraft Table = "aircraft"
	Tails    Table = "tails"
	Extras   Table = "extras"
)

// Tables lists every logbook table so that referenced tables come before the
// tables referencing them.
var Tables = []Table{Aircraft, Tails, Pilots, Airports, Flights, Extras}

// ParseTable returns the Table called name.
func ParseTable(name string) (Table, error) {
	for _, t := range Tables {
		if string(t) == name {
			return t, nil
		}
	}
	return "", &SchemaError{Op: "lookup", Table: name, Err: ErrUnknownTable}
}

func (t Table) String() string { return string(t) }

// Model returns a pointer to the gorm entity stored in t.
func (t Table) Model() interface{} {
	switch t {
	case Airports:
		return &model.Airport{}
	case Flights:
		return &model.Flight{}
	case Pilots:
		return &model.Pilot{}
	case Aircraft:
		return &model.Aircraft{}
	case Tails:
		return &model.Tail{}
	case Extras:
		return &model.Extras{}
	}
	return nil
}
