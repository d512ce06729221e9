package model

import "time"

// GPSPoint is one sample of a bus's position. The table is append-only;
// points are never updated after insert.
type GPSPoint struct {
	ID          uint64    // gps_points.id
	BusID       uint64    // gps_points.bus_id
	Latitude    float64   // gps_points.latitude
	Longitude   float64   // gps_points.longitude
	RecordedAt  time.Time // gps_points.recorded_at
	Active      bool      // gps_points.active
	CreatedDate time.Time // gps_points.created_date
	UpdatedDate time.Time // gps_points.updated_date
}
