package value

// GeoPointValue is a geographic coordinate. Geopoints order by latitude,
// then longitude, using the double comparator for each component.
type GeoPointValue struct {
	Latitude  float64
	Longitude float64
}

// GeoPoint returns a geopoint value.
func GeoPoint(lat, lng float64) GeoPointValue {
	return GeoPointValue{Latitude: lat, Longitude: lng}
}

// Kind returns KindGeoPoint.
func (GeoPointValue) Kind() Kind { return KindGeoPoint }
