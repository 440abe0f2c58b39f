// Package checks is the marine QC check library. Every check is registered
// into the engine's default registry at init under a stable name, with the
// parameter metadata the engine validates configurations against.
//
// Individual checks flag each report on its own values. Sequential checks
// treat a group as one platform's voyage in time order and flag reports
// against their neighbours. Grouped checks compare each report against the
// rest of its group without assuming an ordering.
//
// All positions are degrees, distances kilometres on the 6371.0088 km
// sphere, speeds km/h unless a units argument says otherwise.
package checks
