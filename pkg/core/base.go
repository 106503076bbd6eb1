// pkg/core/base.go
package core

// Position is a globe location in degrees.
type Position struct {
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
}

// Base is one player base.
type Base struct {
	Name          string                 `json:"name"`
	Location      Position               `json:"location"`
	Facilities    []Facility             `json:"facilities"`
	Storage       map[string]int         `json:"storage"` // item type -> quantity
	Research      []ResearchProject      `json:"research"`
	Manufacturing []ManufacturingProject `json:"manufacturing"`
	Transfers     []Transfer             `json:"transfers"`
	Soldiers      []Soldier              `json:"soldiers"`
}

// Facility is a base module placed on the base grid.
type Facility struct {
	Type      string `json:"type"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	BuildTime int    `json:"buildTime"` // days remaining, 0 when complete
}

// Complete reports whether construction has finished.
func (f Facility) Complete() bool {
	return f.BuildTime == 0
}

// ResearchProject is a running research topic.
type ResearchProject struct {
	Project  string `json:"project"`
	Assigned int    `json:"assigned"`
	Spent    int    `json:"spent"`
	Cost     int    `json:"cost"`
}

// ManufacturingProject is a running production order.
type ManufacturingProject struct {
	Item     string `json:"item"`
	Assigned int    `json:"assigned"`
	Spent    int    `json:"spent"`
	Amount   int    `json:"amount"`
	Infinite bool   `json:"infinite"`
}

// TransferKind classifies the payload of a transfer.
type TransferKind int

const (
	TransferUnknown TransferKind = iota
	TransferSoldier
	TransferItem
	TransferPersonnel
)

// String returns a human-readable name for the kind.
func (k TransferKind) String() string {
	switch k {
	case TransferSoldier:
		return "soldier"
	case TransferItem:
		return "item"
	case TransferPersonnel:
		return "personnel"
	default:
		return "unknown"
	}
}

// Transfer is a shipment en route to a base. It carries a soldier, an item stack
// or hired personnel, never more than one of them.
type Transfer struct {
	Hours      int      `json:"hours"`
	Soldier    *Soldier `json:"soldier,omitempty"`
	ItemID     string   `json:"itemId"`
	ItemQty    int      `json:"itemQty"`
	Scientists int      `json:"scientists"`
	Engineers  int      `json:"engineers"`
}

// Kind reports what the transfer carries.
func (t Transfer) Kind() TransferKind {
	switch {
	case t.Soldier != nil:
		return TransferSoldier
	case t.ItemID != "":
		return TransferItem
	case t.Scientists > 0 || t.Engineers > 0:
		return TransferPersonnel
	default:
		return TransferUnknown
	}
}
