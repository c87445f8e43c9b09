package stations

import "math"

const earthRadiusKM = 6371.0

func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Canada's bounding box, used to discard geocoder hits abroad.
const (
	canadaMinLat = 41.6
	canadaMaxLat = 83.2
	canadaMinLon = -141.1
	canadaMaxLon = -52.6
)

func inCanada(lat, lon float64) bool {
	return lat >= canadaMinLat && lat <= canadaMaxLat && lon >= canadaMinLon && lon <= canadaMaxLon
}
