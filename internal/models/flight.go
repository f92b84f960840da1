package models

// Picarro identifies one of the two WISPER cavity ring-down analyzers.
type Picarro string

const (
	PicarroMako   Picarro = "Mako"
	PicarroGulper Picarro = "Gulper"
)

// Flight describes one P-3 research flight in the registry.
type Flight struct {
	Date string `json:"date" db:"flight_date"` // yyyymmdd
	Year int    `json:"year" db:"year"`        // IOP year
	// Pic2 names the instrument plumbed as Picarro-2 on that flight.
	Pic2 Picarro `json:"pic2" db:"pic2"`
	// HasPic1 is false for 2016, when only Picarro-2 flew.
	HasPic1 bool `json:"hasPic1" db:"has_pic1"`
	// HasCVI is true when the counterflow virtual impactor cloud channels
	// were sampled (2017 and 2018).
	HasCVI bool `json:"hasCVI" db:"has_cvi"`
}

// Good-data flight dates per IOP, per the data paper. Dates absent from
// these lists had instrument problems and are not processed.
var (
	dates2016Mako = []string{"20160830", "20160831", "20160902", "20160904"}

	dates2016Gulper = []string{
		"20160910", "20160912", "20160914", "20160918",
		"20160920", "20160924", "20160925",
	}

	dates2017 = []string{
		"20170815", "20170817", "20170818", "20170821", "20170824",
		"20170826", "20170828", "20170830", "20170831", "20170902",
	}

	dates2018 = []string{
		"20180927", "20180930", "20181003", "20181007", "20181010",
		"20181012", "20181015", "20181017", "20181019", "20181021",
		"20181023",
	}
)

// FlightRegistry returns all good-data flights across the three IOPs.
func FlightRegistry() []Flight {
	var flights []Flight
	for _, d := range dates2016Mako {
		flights = append(flights, Flight{Date: d, Year: 2016, Pic2: PicarroMako})
	}
	for _, d := range dates2016Gulper {
		flights = append(flights, Flight{Date: d, Year: 2016, Pic2: PicarroGulper})
	}
	for _, d := range dates2017 {
		flights = append(flights, Flight{Date: d, Year: 2017, Pic2: PicarroGulper, HasPic1: true, HasCVI: true})
	}
	for _, d := range dates2018 {
		flights = append(flights, Flight{Date: d, Year: 2018, Pic2: PicarroGulper, HasPic1: true, HasCVI: true})
	}
	return flights
}

// FlightsForYear filters the registry to one IOP.
func FlightsForYear(year int) []Flight {
	var out []Flight
	for _, f := range FlightRegistry() {
		if f.Year == year {
			out = append(out, f)
		}
	}
	return out
}

// FlightByDate looks a flight up by its yyyymmdd date.
func FlightByDate(date string) (Flight, bool) {
	for _, f := range FlightRegistry() {
		if f.Date == date {
			return f, true
		}
	}
	return Flight{}, false
}

// IOPYears lists the campaign deployment years in order.
func IOPYears() []int {
	return []int{2016, 2017, 2018}
}
