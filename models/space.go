package models

import "time"

const DefaultCategory = "Other"

// Space is a bookable listing owned by a host.
type Space struct {
	ID          int64        `json:"id" db:"id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Price       float64      `json:"price" db:"price"`
	Location    string       `json:"location" db:"location"`
	Images      StringList   `json:"images" db:"images"`
	Amenities   StringList   `json:"amenities" db:"amenities"`
	Category    string       `json:"category" db:"category"`
	HostID      *int64       `json:"host_id" db:"host_id"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
	Host        *UserSummary `json:"host,omitempty" db:"-"`
}

// SpaceFilter narrows GET /spaces. Empty fields do not filter.
type SpaceFilter struct {
	Search   string
	Location string
	Category string
}

func (f SpaceFilter) IsZero() bool {
	return f.Search == "" && f.Location == "" && f.Category == ""
}

// SpaceUpdate is a partial update; nil pointers are left untouched.
type SpaceUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Location    *string
	Category    *string
	Images      *StringList
	Amenities   *StringList
}

// SpaceRequest is the body of POST/PUT /spaces. Pointer fields let PUT tell
// "absent" from "set to empty".
type SpaceRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Location    *string   `json:"location"`
	Images      *[]string `json:"images"`
	Amenities   *[]string `json:"amenities"`
	Category    *string   `json:"category"`
}

// ToUpdate converts a request body into the repository's partial update.
func (r SpaceRequest) ToUpdate() SpaceUpdate {
	u := SpaceUpdate{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Location:    r.Location,
		Category:    r.Category,
	}
	if r.Images != nil {
		l := StringList(*r.Images)
		u.Images = &l
	}
	if r.Amenities != nil {
		l := StringList(*r.Amenities)
		u.Amenities = &l
	}
	return u
}
