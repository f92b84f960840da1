package models

// BinStat holds the statistics for one variable inside one aggregate bin.
// N counts the QC-valid samples that contributed; Mean and Std are NaN
// when N is zero so empty bins report missing rather than zero.
type BinStat struct {
	N    int     `json:"n"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// CurtainCell is one (latitude band, altitude band) cell of an IOP
// climatological curtain.
type CurtainCell struct {
	ID        int64   `json:"id" db:"id"`
	Year      int     `json:"year" db:"year"`
	LatIndex  int     `json:"latIndex" db:"lat_index"`
	AltIndex  int     `json:"altIndex" db:"alt_index"`
	LatCenter float64 `json:"latCenter" db:"lat_center"` // degrees
	AltCenter float64 `json:"altCenter" db:"alt_center"` // meters ASL

	H2O  BinStat `json:"h2o"`  // g/kg
	DD   BinStat `json:"dD"`   // permil
	D18O BinStat `json:"d18O"` // permil
	CWC  BinStat `json:"cwc"`  // g/m3, zero-N outside 2017/2018
}

// ProfileDirection labels a vertical profile as an ascent or descent.
type ProfileDirection string

const (
	ProfileAscent  ProfileDirection = "ASCENT"
	ProfileDescent ProfileDirection = "DESCENT"
)

// Profile is one contiguous climb or descent of a flight.
type Profile struct {
	ID         int64            `json:"id" db:"id"`
	FlightDate string           `json:"flightDate" db:"flight_date"`
	Index      int              `json:"index" db:"profile_index"`
	Direction  ProfileDirection `json:"direction" db:"direction"`
	StartUTC   float64          `json:"startUTC" db:"start_utc"`
	EndUTC     float64          `json:"endUTC" db:"end_utc"`
	BottomAlt  float64          `json:"bottomAlt" db:"bottom_alt"` // meters
	TopAlt     float64          `json:"topAlt" db:"top_alt"`       // meters
	// GroundDist is the great-circle distance flown over the segment.
	GroundDist float64 `json:"groundDist" db:"ground_dist_m"`

	Bins []ProfileBin `json:"bins,omitempty"`
}

// ProfileBin is one 50 m altitude bin of a vertical profile.
type ProfileBin struct {
	ID         int64   `json:"id" db:"id"`
	ProfileID  int64   `json:"profileID" db:"profile_id"`
	AltBottom  float64 `json:"altBottom" db:"alt_bottom"` // bin lower edge, meters
	H2O        BinStat `json:"h2o"`
	DD         BinStat `json:"dD"`
	D18O       BinStat `json:"d18O"`
	TempK      BinStat `json:"tempK"`
	PressureHP BinStat `json:"pressureHPa"`
}
