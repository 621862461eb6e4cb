package model

import "time"

// Cuisine types a restaurant may declare. Stored lowercase in the DB to
// match the public API representation.
const (
    CuisineItalian       = "italian"
    CuisineJapanese      = "japanese"
    CuisineChinese       = "chinese"
    CuisineFrench        = "french"
    CuisineMexican       = "mexican"
    CuisineIndian        = "indian"
    CuisineThai          = "thai"
    CuisineAmerican      = "american"
    CuisineMediterranean = "mediterranean"
    CuisineRussian       = "russian"
    CuisineGeorgian      = "georgian"
    CuisineOther         = "other"
)

// Table locations within a restaurant.
const (
    LocationMainHall = "main_hall"
    LocationTerrace  = "terrace"
    LocationVIPRoom  = "vip_room"
    LocationBar      = "bar"
    LocationWindow   = "window"
)

// Restaurant represents a bookable restaurant as stored in the
// `restaurants` table.  The opening and closing times bound the time
// slots a reservation may claim, and the is_active flag gates whether
// new reservations are accepted at all.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user who owns and manages the restaurant.
//  Name        – display name.
//  Description – free-form description shown to guests.
//  CuisineType – one of the cuisine constants above.
//  Phone       – contact phone number.
//  Email       – contact email.
//  Address     – street address.
//  City        – city, used for public search filtering.
//  OpeningTime – daily opening time as "HH:MM:SS".
//  ClosingTime – daily closing time as "HH:MM:SS" (after OpeningTime).
//  IsActive    – whether the restaurant accepts reservations.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Restaurant struct {
    ID          uint64    // restaurants.id
    OwnerID     uint64    // restaurants.owner_id
    Name        string    // restaurants.name
    Description string    // restaurants.description
    CuisineType string    // restaurants.cuisine_type
    Phone       string    // restaurants.phone
    Email       string    // restaurants.email
    Address     string    // restaurants.address
    City        string    // restaurants.city
    OpeningTime string    // restaurants.opening_time (TIME, "HH:MM:SS")
    ClosingTime string    // restaurants.closing_time (TIME, "HH:MM:SS")
    IsActive    bool      // restaurants.is_active
    CreatedAt   time.Time // restaurants.created_at
    UpdatedAt   time.Time // restaurants.updated_at
}

// Table represents a single physical table inside a restaurant as
// stored in the `tables_` table (the trailing underscore avoids the
// reserved word).  Capacity bounds the guest count of a reservation
// and is_available gates whether the table can be booked.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant the table belongs to.
//  TableNumber  – human-facing table identifier, unique per restaurant.
//  Capacity     – maximum number of guests the table seats.
//  Location     – one of the location constants above.
//  IsAvailable  – whether the table may be reserved.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Table struct {
    ID           uint64    // tables_.id
    RestaurantID uint64    // tables_.restaurant_id
    TableNumber  string    // tables_.table_number
    Capacity     uint16    // tables_.capacity
    Location     string    // tables_.location
    IsAvailable  bool      // tables_.is_available
    CreatedAt    time.Time // tables_.created_at
    UpdatedAt    time.Time // tables_.updated_at
}

// ValidCuisine reports whether s is one of the declared cuisine types.
func ValidCuisine(s string) bool {
    switch s {
    case CuisineItalian, CuisineJapanese, CuisineChinese, CuisineFrench,
        CuisineMexican, CuisineIndian, CuisineThai, CuisineAmerican,
        CuisineMediterranean, CuisineRussian, CuisineGeorgian, CuisineOther:
        return true
    }
    return false
}

// ValidTableLocation reports whether s is one of the declared table locations.
func ValidTableLocation(s string) bool {
    switch s {
    case LocationMainHall, LocationTerrace, LocationVIPRoom, LocationBar, LocationWindow:
        return true
    }
    return false
}
