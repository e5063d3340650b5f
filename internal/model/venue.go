package model

import "time"

// Venue represents a bookable physical space with fixed operating
// hours and a price per hour.  Venues are created and maintained by
// administrators and browsed by everyone.  This struct corresponds
// to a row in the `venues` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique name of the venue.
//  Description – free-text description shown on the detail page.
//  Price       – price per hour in the smallest currency unit.
//  Picture     – optional reference to a stored picture.
//  Address     – street address of the venue.
//  OpenTime    – wall-clock opening time ("HH:MM", 24-hour).
//  CloseTime   – wall-clock closing time ("HH:MM", 24-hour).
//  CreatedAt   – timestamp when the venue was created.
//  UpdatedAt   – timestamp of last update.
type Venue struct {
	ID          uint64    // venues.id
	Name        string    // venues.name
	Description string    // venues.description
	Price       uint32    // venues.price
	Picture     string    // venues.picture
	Address     string    // venues.address
	OpenTime    string    // venues.open_time ("HH:MM")
	CloseTime   string    // venues.close_time ("HH:MM")
	CreatedAt   time.Time // venues.created_at
	UpdatedAt   time.Time // venues.updated_at
}
