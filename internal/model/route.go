package model

import "time"

// Route is a start/end pair with optional distance and duration
// estimates. Stops are ordered waypoints along the route.
type Route struct {
	ID                   uint64    // routes.id
	StartLocation        string    // routes.start_location
	EndLocation          string    // routes.end_location
	DistanceKM           *float64  // routes.distance_km (nullable)
	EstimatedTimeMinutes *int32    // routes.estimated_time_minutes (nullable)
	Active               bool      // routes.active
	CreatedDate          time.Time // routes.created_date
	UpdatedDate          time.Time // routes.updated_date
}

// Stop is a named waypoint on a route. Listing orders by OrderInRoute.
// Deleting a route leaves its stops in place with route_id nulled.
type Stop struct {
	ID           uint64    // stops.id
	RouteID      *uint64   // stops.route_id (nullable, SET NULL on route delete)
	Name         string    // stops.name
	Address      *string   // stops.address (nullable)
	OrderInRoute *uint16   // stops.order_in_route (nullable)
	Active       bool      // stops.active
	CreatedDate  time.Time // stops.created_date
	UpdatedDate  time.Time // stops.updated_date
}
