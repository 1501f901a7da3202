package models

import "time"

// GroupCapacity is the maximum number of customers a single group may hold.
const GroupCapacity = 20

// Customer represents one member of a registration cohort.
type Customer struct {
	// ID is the unique identifier for the customer (UUID format).
	ID string `json:"id"`

	// Name is the customer's full name. Intended to be globally unique;
	// uniqueness is checked at registration, not by the store.
	Name string `json:"name"`

	// Group is the short uppercase cohort code, derived from a registration
	// number prefix with the digits stripped, or supplied explicitly.
	Group string `json:"group"`

	// GroupIndex is the 1-based rank of the customer within its group.
	// Unique per group, capped at GroupCapacity.
	GroupIndex int `json:"group_index"`

	// Address is the customer's postal address.
	Address string `json:"address"`

	// Phone is the customer's phone number. Sentinel values are used when
	// absent ("0000" for direct registration, "0000000000" for imports).
	Phone string `json:"phone"`

	// RegDate is the registration date. Defaults to creation time.
	RegDate time.Time `json:"regDate"`

	// CreatedAt and UpdatedAt are Unix timestamps maintained by the store.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}
