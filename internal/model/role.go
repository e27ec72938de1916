package model

import "strings"

// RevenueRole is the closed set of per-attendee revenue components.
type RevenueRole string

const (
	RoleNone         RevenueRole = ""
	RoleTicket       RevenueRole = "ticket"
	RoleFoodBeverage RevenueRole = "food_beverage"
	RoleMerchandise  RevenueRole = "merchandise"
	RoleOnline       RevenueRole = "online"
	RoleMisc         RevenueRole = "misc"
)

// Roles lists every per-attendee role in projection order.
var Roles = []RevenueRole{RoleTicket, RoleFoodBeverage, RoleMerchandise, RoleOnline, RoleMisc}

// Priced reports whether the pricing delta applies to the role.
func (r RevenueRole) Priced() bool {
	return r == RoleTicket || r == RoleFoodBeverage || r == RoleMerchandise
}

// Valid reports whether r is one of the known roles.
func (r RevenueRole) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// DisplayName returns a human label for the role.
func (r RevenueRole) DisplayName() string {
	switch r {
	case RoleTicket:
		return "Tickets"
	case RoleFoodBeverage:
		return "Food & Beverage"
	case RoleMerchandise:
		return "Merchandise"
	case RoleOnline:
		return "Online"
	case RoleMisc:
		return "Misc"
	}
	return "Other"
}

// roleAliases maps normalized stream names and role spellings to roles.
var roleAliases = map[string]RevenueRole{
	"ticket":            RoleTicket,
	"tickets":           RoleTicket,
	"ticket sales":      RoleTicket,
	"admission":         RoleTicket,
	"admissions":        RoleTicket,
	"food_beverage":     RoleFoodBeverage,
	"food & beverage":   RoleFoodBeverage,
	"food and beverage": RoleFoodBeverage,
	"f&b":               RoleFoodBeverage,
	"f&b sales":         RoleFoodBeverage,
	"fnb":               RoleFoodBeverage,
	"concessions":       RoleFoodBeverage,
	"merchandise":       RoleMerchandise,
	"merchandise sales": RoleMerchandise,
	"merch":             RoleMerchandise,
	"merch sales":       RoleMerchandise,
	"online":            RoleOnline,
	"online sales":      RoleOnline,
	"streaming":         RoleOnline,
	"misc":              RoleMisc,
	"miscellaneous":     RoleMisc,
}

// LookupRole maps a role spelling or a legacy stream name to a role. The
// second result is false when nothing matches.
func LookupRole(s string) (RevenueRole, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.Join(strings.Fields(key), " ")
	r, ok := roleAliases[key]
	return r, ok
}
