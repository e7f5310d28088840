package pattern

import (
	"github.com/GeoMark/GM-Backend/internal/config"
	"github.com/GeoMark/GM-Backend/internal/tracking"
)

// Init wires the detector to its event source. Pattern data is derived, not
// persisted, so there is nothing to migrate.
func Init(store tracking.Store, conf config.EngineConf) {
	detector = NewDetector(store, conf)
}
