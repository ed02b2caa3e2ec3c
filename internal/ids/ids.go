package ids

import "github.com/segmentio/ksuid"

// New returns a sortable identifier used as the primary key for stored
// records. External reference numbers are handled by Generator.
func New() string {
	return ksuid.New().String()
}
