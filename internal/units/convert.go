// Package units converts WISPER measurements between instrument and
// physical units.
package units

const (
	// Ratio of molar masses of water and dry air.
	epsilon = 18.015 / 28.9647

	// Specific gas constant of dry air, J/(kg K).
	rDry = 287.05

	kelvinOffset = 273.0
)

// PPMVToGKG converts a water mixing ratio from ppmv to g/kg of dry air.
func PPMVToGKG(ppmv float64) float64 {
	return ppmv * epsilon * 1e-3
}

// GKGToPPMV is the inverse of PPMVToGKG.
func GKGToPPMV(gkg float64) float64 {
	return gkg / (epsilon * 1e-3)
}

// CToK converts static air temperature from degrees Celsius to Kelvin,
// using the merge-file convention of a 273 offset.
func CToK(c float64) float64 {
	return c + kelvinOffset
}

// AirDensity returns moist-air density approximated as dry air, kg/m3.
// p in Pa, t in K.
func AirDensity(pPa, tK float64) float64 {
	return pPa / (rDry * tK)
}

// CVICloudWater converts a CVI cloud water mixing ratio (g/kg) to cloud
// water content in g/m3, removing the counterflow virtual impactor
// enhancement factor. p in Pa, t in K.
func CVICloudWater(cldGKG, tK, pPa, enhance float64) float64 {
	if enhance <= 0 {
		return cldGKG * AirDensity(pPa, tK)
	}
	return cldGKG * AirDensity(pPa, tK) / enhance
}
